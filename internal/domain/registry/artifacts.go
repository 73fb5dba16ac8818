package registry

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/adi-os/plugin-registry/internal/shared/types"
)

// writeFileAtomic writes data to path through a temporary sibling and an
// atomic rename, creating missing parent directories. Readers never see a
// partially written file; a crash leaves at worst a stale .tmp sibling.
func writeFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}

	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("create %s: %w", tmp, err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("sync %s: %w", tmp, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close %s: %w", tmp, err)
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}

// writeArtifact persists one platform blob and returns its build record
// with the computed checksum, byte length, and download URL.
func (s *Store) writeArtifact(kind types.Kind, id, version, platform string, data []byte) (types.PlatformBuild, error) {
	path := s.ArtifactPath(kind, id, version, platform)
	if err := writeFileAtomic(path, data); err != nil {
		return types.PlatformBuild{}, fmt.Errorf("write %s artifact %s@%s/%s: %w", kind, id, version, platform, err)
	}

	return types.PlatformBuild{
		Platform:    platform,
		DownloadURL: downloadURL(kind, id, version, platform),
		SizeBytes:   uint64(len(data)),
		Checksum:    s.hasher.Hash(data),
	}, nil
}

// mergePlatform replaces an existing entry for the build's platform key or
// appends a new one. Re-publishing a platform is a wholesale replacement.
func mergePlatform(platforms []types.PlatformBuild, build types.PlatformBuild) []types.PlatformBuild {
	for i := range platforms {
		if platforms[i].Platform == build.Platform {
			platforms[i] = build
			return platforms
		}
	}
	return append(platforms, build)
}

// VerifyArtifact re-reads a stored blob and checks it against the
// recorded checksum in the version's metadata document, and that the blob
// still parses as gzip. Consumers that care about integrity beyond
// publish-time call this before serving.
func (s *Store) VerifyArtifact(kind types.Kind, id, version, platform string) error {
	var platforms []types.PlatformBuild
	switch kind {
	case types.KindPackage:
		info, err := s.GetPackageInfo(id, version)
		if err != nil {
			return err
		}
		platforms = info.Platforms
	case types.KindPlugin:
		info, err := s.GetPluginInfo(id, version)
		if err != nil {
			return err
		}
		platforms = info.Platforms
	}

	var recorded string
	for _, b := range platforms {
		if b.Platform == platform {
			recorded = b.Checksum
			break
		}
	}
	if recorded == "" {
		return fmt.Errorf("verify %s %s@%s/%s: %w", kind, id, version, platform, ErrNotFound)
	}

	path := s.ArtifactPath(kind, id, version, platform)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("verify %s %s@%s/%s: artifact missing: %w", kind, id, version, platform, ErrNotFound)
		}
		return fmt.Errorf("verify %s %s@%s/%s: %w", kind, id, version, platform, err)
	}

	if got := s.hasher.Hash(data); got != recorded {
		return fmt.Errorf("verify %s %s@%s/%s: got %s want %s: %w",
			kind, id, version, platform, got, recorded, ErrChecksumMismatch)
	}

	if strings.HasSuffix(path, ".tar.gz") {
		zr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("verify %s %s@%s/%s: not a gzip stream: %w",
				kind, id, version, platform, ErrCorruptData)
		}
		zr.Close()
	}
	return nil
}
