package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adi-os/plugin-registry/internal/infrastructure/logging"
	"github.com/adi-os/plugin-registry/internal/shared/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := New(t.TempDir(), logging.NewNop())
	require.NoError(t, s.Init())
	return s
}

func TestInitCreatesLayout(t *testing.T) {
	root := t.TempDir()
	s := New(root, logging.NewNop())
	require.NoError(t, s.Init())

	for _, dir := range []string{"packages", "plugins"} {
		st, err := os.Stat(filepath.Join(root, dir))
		require.NoError(t, err)
		assert.True(t, st.IsDir())
	}

	idx, err := s.LoadIndex()
	require.NoError(t, err)
	assert.Equal(t, types.IndexSchemaVersion, idx.Version)
	assert.Empty(t, idx.Packages)
	assert.Empty(t, idx.Plugins)
}

func TestInitIdempotent(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.PublishPackage(PackagePublication{
		ID: "foo", Name: "Foo", Version: "1.0.0", Platform: "linux-x64",
		Data: []byte{1, 2, 3},
	}))

	// A second Init must not reset the populated index.
	require.NoError(t, s.Init())

	idx, err := s.LoadIndex()
	require.NoError(t, err)
	require.Len(t, idx.Packages, 1)
	assert.Equal(t, "foo", idx.Packages[0].ID)
}

func TestLoadIndexMissing(t *testing.T) {
	s := New(t.TempDir(), logging.NewNop())

	_, err := s.LoadIndex()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoadIndexCorrupt(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.WriteFile(s.indexPath(), []byte("{not json"), 0o644))

	_, err := s.LoadIndex()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCorruptData)
}

func TestSaveIndexAtomicNoResidue(t *testing.T) {
	s := newTestStore(t)

	idx, err := s.LoadIndex()
	require.NoError(t, err)
	require.NoError(t, s.SaveIndex(idx))

	_, err = os.Stat(s.indexPath() + ".tmp")
	assert.True(t, os.IsNotExist(err), "temporary index file must not survive a save")
}

func TestSaveIndexRefreshesTimestamp(t *testing.T) {
	s := newTestStore(t)

	idx, err := s.LoadIndex()
	require.NoError(t, err)
	idx.UpdatedAt = 0
	require.NoError(t, s.SaveIndex(idx))

	reloaded, err := s.LoadIndex()
	require.NoError(t, err)
	assert.Greater(t, reloaded.UpdatedAt, int64(0))
}

func TestArtifactPathPure(t *testing.T) {
	s := New("/data", logging.NewNop())

	assert.Equal(t,
		filepath.Join("/data", "packages", "foo", "1.0.0", "linux-x64.tar.gz"),
		s.PackageArtifactPath("foo", "1.0.0", "linux-x64"))
	assert.Equal(t,
		filepath.Join("/data", "plugins", "adi.tasks", "2.1.0", "darwin-aarch64.tar.gz"),
		s.PluginArtifactPath("adi.tasks", "2.1.0", "darwin-aarch64"))
}
