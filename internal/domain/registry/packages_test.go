package registry

import (
	"bytes"
	"compress/gzip"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adi-os/plugin-registry/internal/shared/types"
)

func gzipBytes(t *testing.T, payload []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write(payload)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestPublishPackageFirstVersion(t *testing.T) {
	s := newTestStore(t)
	data := []byte{1, 2, 3}

	require.NoError(t, s.PublishPackage(PackagePublication{
		ID:          "foo",
		Name:        "Foo",
		Description: "a package",
		Version:     "1.0.0",
		Platform:    "linux-x64",
		Author:      "adi",
		Tags:        []string{"tools"},
		Data:        data,
	}))

	info, err := s.GetPackageLatest("foo")
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", info.Version)

	sum := sha256.Sum256(data)
	require.Len(t, info.Platforms, 1)
	build := info.Platforms[0]
	assert.Equal(t, "linux-x64", build.Platform)
	assert.Equal(t, hex.EncodeToString(sum[:]), build.Checksum)
	assert.Equal(t, uint64(len(data)), build.SizeBytes)
	assert.Equal(t, "/v1/packages/foo/1.0.0/linux-x64.tar.gz", build.DownloadURL)

	stored, err := os.ReadFile(s.PackageArtifactPath("foo", "1.0.0", "linux-x64"))
	require.NoError(t, err)
	assert.Equal(t, data, stored)
}

func TestPublishPackageLatestMonotonic(t *testing.T) {
	s := newTestStore(t)
	pub := func(version string) {
		require.NoError(t, s.PublishPackage(PackagePublication{
			ID: "foo", Name: "Foo", Version: version, Platform: "linux-x64",
			Data: []byte("payload-" + version),
		}))
	}

	pub("1.0.0")
	// Publishing an older version must never move latest backwards.
	pub("0.9.0")
	info, err := s.GetPackageLatest("foo")
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", info.Version)

	pub("2.0.0")
	info, err = s.GetPackageLatest("foo")
	require.NoError(t, err)
	assert.Equal(t, "2.0.0", info.Version)

	// Both versions remain individually addressable.
	old, err := s.GetPackageInfo("foo", "0.9.0")
	require.NoError(t, err)
	assert.Equal(t, "0.9.0", old.Version)
}

func TestPublishPackageReplacesPlatformInPlace(t *testing.T) {
	s := newTestStore(t)

	first := []byte("first build")
	second := []byte("second build, different bytes")

	require.NoError(t, s.PublishPackage(PackagePublication{
		ID: "foo", Name: "Foo", Version: "1.0.0", Platform: "linux-x64", Data: first,
	}))
	require.NoError(t, s.PublishPackage(PackagePublication{
		ID: "foo", Name: "Foo", Version: "1.0.0", Platform: "darwin-aarch64", Data: first,
	}))
	require.NoError(t, s.PublishPackage(PackagePublication{
		ID: "foo", Name: "Foo", Version: "1.0.0", Platform: "linux-x64", Data: second,
	}))

	info, err := s.GetPackageInfo("foo", "1.0.0")
	require.NoError(t, err)
	require.Len(t, info.Platforms, 2)

	sum := sha256.Sum256(second)
	for _, build := range info.Platforms {
		if build.Platform == "linux-x64" {
			assert.Equal(t, hex.EncodeToString(sum[:]), build.Checksum)
			assert.Equal(t, uint64(len(second)), build.SizeBytes)
		}
	}
}

func TestPublishPackageValidation(t *testing.T) {
	s := newTestStore(t)

	err := s.PublishPackage(PackagePublication{
		ID: "foo", Name: "Foo", Version: "1.0.0", Platform: "linux-x64", Data: nil,
	})
	assert.ErrorIs(t, err, ErrEmptyPayload)

	err = s.PublishPackage(PackagePublication{
		ID: "../evil", Name: "Evil", Version: "1.0.0", Platform: "linux-x64",
		Data: []byte{1},
	})
	assert.Error(t, err)

	err = s.PublishPackage(PackagePublication{
		ID: "foo", Name: "Foo", Version: "1.0.0", Platform: "linux/../x64",
		Data: []byte{1},
	})
	assert.Error(t, err)
}

func TestGetPackageInfoNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetPackageInfo("missing", "1.0.0")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.GetPackageLatest("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetPackageInfoCorrupt(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.PublishPackage(PackagePublication{
		ID: "foo", Name: "Foo", Version: "1.0.0", Platform: "linux-x64",
		Data: []byte{1, 2, 3},
	}))

	path := s.infoPath(types.KindPackage, "foo", "1.0.0")
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0o644))

	_, err := s.GetPackageInfo("foo", "1.0.0")
	assert.ErrorIs(t, err, ErrCorruptData)
}

func TestVerifyArtifact(t *testing.T) {
	s := newTestStore(t)
	data := gzipBytes(t, []byte("real gzip content"))

	require.NoError(t, s.PublishPackage(PackagePublication{
		ID: "foo", Name: "Foo", Version: "1.0.0", Platform: "linux-x64", Data: data,
	}))

	require.NoError(t, s.VerifyArtifact(types.KindPackage, "foo", "1.0.0", "linux-x64"))

	// Tampering with the blob must surface as a checksum mismatch.
	path := s.PackageArtifactPath("foo", "1.0.0", "linux-x64")
	require.NoError(t, os.WriteFile(path, gzipBytes(t, []byte("tampered")), 0o644))
	err := s.VerifyArtifact(types.KindPackage, "foo", "1.0.0", "linux-x64")
	assert.ErrorIs(t, err, ErrChecksumMismatch)

	err = s.VerifyArtifact(types.KindPackage, "foo", "1.0.0", "windows-x64")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestVerifyArtifactRejectsNonGzip(t *testing.T) {
	s := newTestStore(t)
	data := []byte("plainly not a gzip stream")

	require.NoError(t, s.PublishPackage(PackagePublication{
		ID: "foo", Name: "Foo", Version: "1.0.0", Platform: "linux-x64", Data: data,
	}))

	err := s.VerifyArtifact(types.KindPackage, "foo", "1.0.0", "linux-x64")
	assert.ErrorIs(t, err, ErrCorruptData)
}
