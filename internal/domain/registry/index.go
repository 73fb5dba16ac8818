package registry

import (
	"go.uber.org/zap"

	"github.com/adi-os/plugin-registry/internal/domain/semver"
	"github.com/adi-os/plugin-registry/internal/shared/types"
)

// upsertPackageEntry creates or updates the index entry for a package.
// Display fields are always overwritten with the incoming values; the
// latest-version pointer advances only when the candidate orders higher.
func (s *Store) upsertPackageEntry(id, name, description, version, author string, tags []string) error {
	return s.mutateIndex(func(idx *types.RegistryIndex) {
		if tags == nil {
			tags = []string{}
		}
		for i := range idx.Packages {
			if idx.Packages[i].ID != id {
				continue
			}
			e := &idx.Packages[i]
			if semver.Greater(version, e.LatestVersion) {
				e.LatestVersion = version
			}
			e.Name = name
			e.Description = description
			e.Author = author
			e.Tags = tags
			return
		}

		idx.Packages = append(idx.Packages, types.PackageEntry{
			ID:            id,
			Name:          name,
			Description:   description,
			PluginIDs:     []string{},
			LatestVersion: version,
			Author:        author,
			Tags:          tags,
		})
	})
}

// upsertPluginEntry is the plugin mirror of upsertPackageEntry.
func (s *Store) upsertPluginEntry(id, name, description, pluginType, version, author string, tags []string) error {
	return s.mutateIndex(func(idx *types.RegistryIndex) {
		if tags == nil {
			tags = []string{}
		}
		for i := range idx.Plugins {
			if idx.Plugins[i].ID != id {
				continue
			}
			e := &idx.Plugins[i]
			if semver.Greater(version, e.LatestVersion) {
				e.LatestVersion = version
			}
			e.Name = name
			e.Description = description
			e.PluginType = pluginType
			e.Author = author
			e.Tags = tags
			return
		}

		idx.Plugins = append(idx.Plugins, types.PluginEntry{
			ID:            id,
			Name:          name,
			Description:   description,
			PluginType:    pluginType,
			LatestVersion: version,
			Author:        author,
			Tags:          tags,
		})
	})
}

// IncrementDownloads bumps the download counter for a known id. An
// unknown id is a silent no-op, not an error: downloads of entities that
// raced with index replacement are simply not counted.
func (s *Store) IncrementDownloads(kind types.Kind, id string) error {
	return s.mutateIndex(func(idx *types.RegistryIndex) {
		switch kind {
		case types.KindPackage:
			for i := range idx.Packages {
				if idx.Packages[i].ID == id {
					idx.Packages[i].Downloads++
					return
				}
			}
		case types.KindPlugin:
			for i := range idx.Plugins {
				if idx.Plugins[i].ID == id {
					idx.Plugins[i].Downloads++
					return
				}
			}
		}
		s.logger.Debug("download for unknown id ignored",
			zap.String("kind", kind.String()),
			zap.String("id", id),
		)
	})
}
