package utils

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidInput marks all validation failures so callers can map them
// to client errors without matching message text.
var ErrInvalidInput = errors.New("invalid input")

// IsValidationError reports whether err originated from input validation.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// String length limits
const (
	MaxIDLength       = 128
	MaxVersionLength  = 64
	MaxPlatformLength = 64
)

// Regular expressions for validation
var (
	// SafeIDPattern allows dotted identifiers such as "adi.tasks"
	SafeIDPattern = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)
	// SafePlatformPattern allows platform keys such as "darwin-aarch64"
	SafePlatformPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
)

// ValidateID validates an entity identifier. Identifiers become path
// segments on disk, so anything that could escape the storage root is
// rejected here.
func ValidateID(id, field string) error {
	if id == "" {
		return fmt.Errorf("%w: %s is required", ErrInvalidInput, field)
	}
	if len(id) > MaxIDLength {
		return fmt.Errorf("%w: %s exceeds maximum length of %d", ErrInvalidInput, field, MaxIDLength)
	}
	if strings.Contains(id, "..") || !SafeIDPattern.MatchString(id) {
		return fmt.Errorf("%w: %s contains invalid characters", ErrInvalidInput, field)
	}
	return nil
}

// ValidateVersion validates a version string. Versions are not required to
// be semver, but they are path segments like ids.
func ValidateVersion(version string) error {
	if version == "" {
		return fmt.Errorf("%w: version is required", ErrInvalidInput)
	}
	if len(version) > MaxVersionLength {
		return fmt.Errorf("%w: version exceeds maximum length of %d", ErrInvalidInput, MaxVersionLength)
	}
	if strings.Contains(version, "..") || !SafeIDPattern.MatchString(version) {
		return fmt.Errorf("%w: version contains invalid characters", ErrInvalidInput)
	}
	return nil
}

// ValidatePlatform validates a platform key.
func ValidatePlatform(platform string) error {
	if platform == "" {
		return fmt.Errorf("%w: platform is required", ErrInvalidInput)
	}
	if len(platform) > MaxPlatformLength {
		return fmt.Errorf("%w: platform exceeds maximum length of %d", ErrInvalidInput, MaxPlatformLength)
	}
	if !SafePlatformPattern.MatchString(platform) {
		return fmt.Errorf("%w: platform contains invalid characters", ErrInvalidInput)
	}
	return nil
}
