package registry

import "errors"

// Sentinel errors returned by the storage core. Callers match with
// errors.Is and translate into client-facing responses; filesystem
// failures propagate as wrapped os errors instead.
var (
	// ErrNotFound is returned for an unknown id, version, platform, or artifact
	ErrNotFound = errors.New("not found")

	// ErrCorruptData is returned when a persisted document does not parse
	ErrCorruptData = errors.New("corrupt data")

	// ErrChecksumMismatch is returned when a stored artifact no longer
	// matches its recorded checksum
	ErrChecksumMismatch = errors.New("checksum mismatch")

	// ErrEmptyPayload is returned when a publish carries no bytes
	ErrEmptyPayload = errors.New("empty payload")
)
