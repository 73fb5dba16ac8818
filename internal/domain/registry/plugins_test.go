package registry

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adi-os/plugin-registry/internal/shared/types"
)

func publishTestPlugin(t *testing.T, s *Store, id, version string) {
	t.Helper()
	require.NoError(t, s.PublishPlugin(PluginPublication{
		ID: id, Name: id, Version: version, Platform: "linux-x64",
		PluginType: "panel", Data: []byte("plugin bytes"),
	}))
}

func TestPublishPluginAndLatest(t *testing.T) {
	s := newTestStore(t)
	publishTestPlugin(t, s, "adi.tasks", "1.0.0")
	publishTestPlugin(t, s, "adi.tasks", "1.1.0")

	info, err := s.GetPluginLatest("adi.tasks")
	require.NoError(t, err)
	assert.Equal(t, "1.1.0", info.Version)
	assert.Equal(t, "panel", info.PluginType)
	assert.Nil(t, info.WebUI)

	idx, err := s.LoadIndex()
	require.NoError(t, err)
	require.Len(t, idx.Plugins, 1)
	assert.Equal(t, "1.1.0", idx.Plugins[0].LatestVersion)
	assert.Empty(t, idx.Packages)
}

func TestPluginWebAssetLifecycle(t *testing.T) {
	s := newTestStore(t)
	publishTestPlugin(t, s, "adi.tasks", "1.0.0")

	assert.False(t, s.HasPluginWebAsset("adi.tasks", "1.0.0"))

	script := []byte("export default function mount() {}")
	require.NoError(t, s.PublishPluginWebAsset("adi.tasks", "1.0.0", script))
	assert.True(t, s.HasPluginWebAsset("adi.tasks", "1.0.0"))

	stored, err := os.ReadFile(s.PluginWebAssetPath("adi.tasks", "1.0.0"))
	require.NoError(t, err)
	assert.Equal(t, script, stored)

	// Sidecar metadata records the byte size.
	metaRaw, err := os.ReadFile(s.pluginWebMetaPath("adi.tasks", "1.0.0"))
	require.NoError(t, err)
	var meta types.WebUIMeta
	require.NoError(t, json.Unmarshal(metaRaw, &meta))
	assert.Equal(t, uint64(len(script)), meta.SizeBytes)

	info, err := s.GetPluginInfo("adi.tasks", "1.0.0")
	require.NoError(t, err)
	require.NotNil(t, info.WebUI)
	assert.Equal(t, "/v1/plugins/adi.tasks/1.0.0/web.js", info.WebUI.EntryURL)
	assert.Equal(t, uint64(len(script)), info.WebUI.SizeBytes)
}

func TestPublishPluginWebAssetValidation(t *testing.T) {
	s := newTestStore(t)
	publishTestPlugin(t, s, "adi.tasks", "1.0.0")

	err := s.PublishPluginWebAsset("adi.tasks", "1.0.0", nil)
	assert.ErrorIs(t, err, ErrEmptyPayload)

	err = s.PublishPluginWebAsset("../evil", "1.0.0", []byte("x"))
	assert.Error(t, err)
}

func TestPluginWebUINeverPersisted(t *testing.T) {
	s := newTestStore(t)
	publishTestPlugin(t, s, "adi.tasks", "1.0.0")
	require.NoError(t, s.PublishPluginWebAsset("adi.tasks", "1.0.0", []byte("ui")))

	// The descriptor is derived at read time, not stored in info.json.
	raw, err := os.ReadFile(s.infoPath(types.KindPlugin, "adi.tasks", "1.0.0"))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "webUi")
}

func TestPluginAndPackageNamespacesIndependent(t *testing.T) {
	s := newTestStore(t)
	publishTestPlugin(t, s, "shared-id", "1.0.0")
	require.NoError(t, s.PublishPackage(PackagePublication{
		ID: "shared-id", Name: "Shared", Version: "3.0.0", Platform: "linux-x64",
		Data: []byte("package bytes"),
	}))

	pkg, err := s.GetPackageLatest("shared-id")
	require.NoError(t, err)
	assert.Equal(t, "3.0.0", pkg.Version)

	plg, err := s.GetPluginLatest("shared-id")
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", plg.Version)
}
