package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/adi-os/plugin-registry/internal/shared/types"
	"github.com/adi-os/plugin-registry/internal/shared/utils"
)

// PackagePublication describes one platform build of a package version.
type PackagePublication struct {
	ID          string
	Name        string
	Description string
	Version     string
	Platform    string
	Author      string
	Tags        []string
	Data        []byte
}

func (p PackagePublication) validate() error {
	if len(p.Data) == 0 {
		return fmt.Errorf("publish package %s@%s: %w", p.ID, p.Version, ErrEmptyPayload)
	}
	if err := utils.ValidateID(p.ID, "package id"); err != nil {
		return err
	}
	if err := utils.ValidateVersion(p.Version); err != nil {
		return err
	}
	return utils.ValidatePlatform(p.Platform)
}

// GetPackageInfo reads the metadata document for one package version.
func (s *Store) GetPackageInfo(id, version string) (*types.PackageInfo, error) {
	data, err := os.ReadFile(s.infoPath(types.KindPackage, id, version))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("package %s@%s: %w", id, version, ErrNotFound)
		}
		return nil, fmt.Errorf("read package %s@%s: %w", id, version, err)
	}

	var info types.PackageInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("parse package %s@%s: %w: %s", id, version, ErrCorruptData, err)
	}
	return &info, nil
}

// GetPackageLatest resolves the latest published version of a package
// through the index and returns its metadata document. An id unknown to
// the index and a dangling latest-version pointer both report NotFound.
func (s *Store) GetPackageLatest(id string) (*types.PackageInfo, error) {
	idx, err := s.LoadIndex()
	if err != nil {
		return nil, err
	}
	for i := range idx.Packages {
		if idx.Packages[i].ID == id {
			return s.GetPackageInfo(id, idx.Packages[i].LatestVersion)
		}
	}
	return nil, fmt.Errorf("package %s: %w", id, ErrNotFound)
}

// PublishPackage stores one platform build of a package version: blob
// first, then the version's metadata document, then the index entry.
func (s *Store) PublishPackage(pub PackagePublication) error {
	if err := pub.validate(); err != nil {
		return err
	}

	build, err := s.writeArtifact(types.KindPackage, pub.ID, pub.Version, pub.Platform, pub.Data)
	if err != nil {
		return err
	}

	info, err := s.GetPackageInfo(pub.ID, pub.Version)
	switch {
	case err == nil:
	case errors.Is(err, ErrNotFound):
		info = &types.PackageInfo{
			ID:          pub.ID,
			Version:     pub.Version,
			Platforms:   []types.PlatformBuild{},
			PublishedAt: nowUnix(),
		}
	default:
		return err
	}
	info.Platforms = mergePlatform(info.Platforms, build)

	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return fmt.Errorf("encode package %s@%s: %w", pub.ID, pub.Version, err)
	}
	if err := writeFileAtomic(s.infoPath(types.KindPackage, pub.ID, pub.Version), data); err != nil {
		return fmt.Errorf("save package %s@%s: %w", pub.ID, pub.Version, err)
	}

	if err := s.upsertPackageEntry(pub.ID, pub.Name, pub.Description, pub.Version, pub.Author, pub.Tags); err != nil {
		return err
	}

	s.logger.Info("package published",
		zap.String("id", pub.ID),
		zap.String("version", pub.Version),
		zap.String("platform", pub.Platform),
		zap.Uint64("size_bytes", build.SizeBytes),
		zap.String("checksum", build.Checksum),
	)
	return nil
}
