package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/adi-os/plugin-registry/internal/shared/types"
	"github.com/adi-os/plugin-registry/internal/shared/utils"
)

// PluginPublication describes one platform build of a plugin version.
type PluginPublication struct {
	ID          string
	Name        string
	Description string
	PluginType  string
	Version     string
	Platform    string
	Author      string
	Tags        []string
	Data        []byte
}

func (p PluginPublication) validate() error {
	if len(p.Data) == 0 {
		return fmt.Errorf("publish plugin %s@%s: %w", p.ID, p.Version, ErrEmptyPayload)
	}
	if err := utils.ValidateID(p.ID, "plugin id"); err != nil {
		return err
	}
	if err := utils.ValidateVersion(p.Version); err != nil {
		return err
	}
	return utils.ValidatePlatform(p.Platform)
}

// GetPluginInfo reads the metadata document for one plugin version. When
// the version has a stored web asset, the returned document carries a
// descriptor computed from the asset's current size on disk.
func (s *Store) GetPluginInfo(id, version string) (*types.PluginInfo, error) {
	data, err := os.ReadFile(s.infoPath(types.KindPlugin, id, version))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("plugin %s@%s: %w", id, version, ErrNotFound)
		}
		return nil, fmt.Errorf("read plugin %s@%s: %w", id, version, err)
	}

	var info types.PluginInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("parse plugin %s@%s: %w: %s", id, version, ErrCorruptData, err)
	}

	info.WebUI = s.webUIDescriptor(id, version)
	return &info, nil
}

// GetPluginLatest resolves the latest published version of a plugin
// through the index and returns its metadata document.
func (s *Store) GetPluginLatest(id string) (*types.PluginInfo, error) {
	idx, err := s.LoadIndex()
	if err != nil {
		return nil, err
	}
	for i := range idx.Plugins {
		if idx.Plugins[i].ID == id {
			return s.GetPluginInfo(id, idx.Plugins[i].LatestVersion)
		}
	}
	return nil, fmt.Errorf("plugin %s: %w", id, ErrNotFound)
}

// PublishPlugin stores one platform build of a plugin version.
func (s *Store) PublishPlugin(pub PluginPublication) error {
	if err := pub.validate(); err != nil {
		return err
	}

	build, err := s.writeArtifact(types.KindPlugin, pub.ID, pub.Version, pub.Platform, pub.Data)
	if err != nil {
		return err
	}

	info, err := s.GetPluginInfo(pub.ID, pub.Version)
	switch {
	case err == nil:
	case errors.Is(err, ErrNotFound):
		info = &types.PluginInfo{
			ID:          pub.ID,
			Version:     pub.Version,
			Platforms:   []types.PlatformBuild{},
			PublishedAt: nowUnix(),
		}
	default:
		return err
	}
	info.PluginType = pub.PluginType
	info.Platforms = mergePlatform(info.Platforms, build)

	// The descriptor is derived on read, never persisted.
	info.WebUI = nil

	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return fmt.Errorf("encode plugin %s@%s: %w", pub.ID, pub.Version, err)
	}
	if err := writeFileAtomic(s.infoPath(types.KindPlugin, pub.ID, pub.Version), data); err != nil {
		return fmt.Errorf("save plugin %s@%s: %w", pub.ID, pub.Version, err)
	}

	if err := s.upsertPluginEntry(pub.ID, pub.Name, pub.Description, pub.PluginType, pub.Version, pub.Author, pub.Tags); err != nil {
		return err
	}

	s.logger.Info("plugin published",
		zap.String("id", pub.ID),
		zap.String("version", pub.Version),
		zap.String("type", pub.PluginType),
		zap.String("platform", pub.Platform),
		zap.Uint64("size_bytes", build.SizeBytes),
		zap.String("checksum", build.Checksum),
	)
	return nil
}

// PublishPluginWebAsset stores the browser entry point of a plugin
// version, replacing any existing asset wholesale, plus a size-only
// sidecar document. Unlike platform artifacts no checksum is recorded;
// integrity of web assets is an open product decision.
func (s *Store) PublishPluginWebAsset(id, version string, data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("publish web asset %s@%s: %w", id, version, ErrEmptyPayload)
	}
	if err := utils.ValidateID(id, "plugin id"); err != nil {
		return err
	}
	if err := utils.ValidateVersion(version); err != nil {
		return err
	}

	if err := writeFileAtomic(s.PluginWebAssetPath(id, version), data); err != nil {
		return fmt.Errorf("write web asset %s@%s: %w", id, version, err)
	}

	meta, err := json.MarshalIndent(types.WebUIMeta{SizeBytes: uint64(len(data))}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode web asset meta %s@%s: %w", id, version, err)
	}
	if err := writeFileAtomic(s.pluginWebMetaPath(id, version), meta); err != nil {
		return fmt.Errorf("write web asset meta %s@%s: %w", id, version, err)
	}

	s.logger.Info("plugin web asset published",
		zap.String("id", id),
		zap.String("version", version),
		zap.Int("size_bytes", len(data)),
	)
	return nil
}

// PluginWebAssetPath returns the stored asset path for a plugin version.
// Pure path arithmetic, no I/O.
func (s *Store) PluginWebAssetPath(id, version string) string {
	return filepath.Join(s.versionDir(types.KindPlugin, id, version), webUIName)
}

func (s *Store) pluginWebMetaPath(id, version string) string {
	return filepath.Join(s.versionDir(types.KindPlugin, id, version), webMetaName)
}

// HasPluginWebAsset reports whether a plugin version has a stored asset.
func (s *Store) HasPluginWebAsset(id, version string) bool {
	st, err := os.Stat(s.PluginWebAssetPath(id, version))
	return err == nil && !st.IsDir()
}

// webUIDescriptor builds a descriptor from the asset's current file size,
// not from the sidecar, so it always reflects what will be served.
func (s *Store) webUIDescriptor(id, version string) *types.WebUIAsset {
	st, err := os.Stat(s.PluginWebAssetPath(id, version))
	if err != nil || st.IsDir() {
		return nil
	}
	return &types.WebUIAsset{
		EntryURL:  webUIEntryURL(id, version),
		SizeBytes: uint64(st.Size()),
	}
}
