package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/adi-os/plugin-registry/internal/infrastructure/logging"
	"github.com/adi-os/plugin-registry/internal/shared/types"
	"github.com/adi-os/plugin-registry/internal/shared/utils"
)

const (
	indexName   = "index.json"
	infoName    = "info.json"
	webUIName   = "web.js"
	webMetaName = "webMeta.json"
)

// Store is the file-based registry storage core.
type Store struct {
	root   string
	hasher *utils.Hasher
	logger *logging.Logger

	// mu serializes every load-modify-save cycle against the index
	// document so concurrent in-process mutations never lose updates.
	mu sync.Mutex
}

// New creates a store rooted at the given directory.
func New(root string, logger *logging.Logger) *Store {
	if logger == nil {
		logger = logging.NewDefault()
	}
	return &Store{
		root:   root,
		hasher: utils.DefaultHasher(),
		logger: logger,
	}
}

// Root returns the storage root directory.
func (s *Store) Root() string {
	return s.root
}

// Init ensures the directory layout and an initial empty index document
// exist. Calling it again on a populated root changes nothing.
func (s *Store) Init() error {
	dirs := []string{
		s.root,
		filepath.Join(s.root, types.KindPackage.Dir()),
		filepath.Join(s.root, types.KindPlugin.Dir()),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("init storage layout: %w", err)
		}
	}

	if _, err := os.Stat(s.indexPath()); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat index: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeIndexLocked(types.NewRegistryIndex())
}

// LoadIndex reads and parses the persisted index document.
func (s *Store) LoadIndex() (*types.RegistryIndex, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadIndexLocked()
}

// SaveIndex serializes and fully overwrites the persisted index document,
// refreshing its last-updated timestamp.
func (s *Store) SaveIndex(idx *types.RegistryIndex) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeIndexLocked(idx)
}

// mutateIndex runs fn against the current index under the store lock and
// persists the result. The load-modify-save sequence is atomic with
// respect to every other in-process caller.
func (s *Store) mutateIndex(fn func(*types.RegistryIndex)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, err := s.loadIndexLocked()
	if err != nil {
		return err
	}
	fn(idx)
	return s.writeIndexLocked(idx)
}

func (s *Store) loadIndexLocked() (*types.RegistryIndex, error) {
	data, err := os.ReadFile(s.indexPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("load index: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("load index: %w", err)
	}

	var idx types.RegistryIndex
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("parse %s: %w: %s", indexName, ErrCorruptData, err)
	}
	return &idx, nil
}

func (s *Store) writeIndexLocked(idx *types.RegistryIndex) error {
	idx.UpdatedAt = time.Now().Unix()

	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return fmt.Errorf("encode index: %w", err)
	}
	if err := writeFileAtomic(s.indexPath(), data); err != nil {
		return fmt.Errorf("save index: %w", err)
	}

	s.logger.Debug("index saved",
		zap.Int("packages", len(idx.Packages)),
		zap.Int("plugins", len(idx.Plugins)),
	)
	return nil
}

func (s *Store) indexPath() string {
	return filepath.Join(s.root, indexName)
}

func (s *Store) versionDir(kind types.Kind, id, version string) string {
	return filepath.Join(s.root, kind.Dir(), id, version)
}

func (s *Store) infoPath(kind types.Kind, id, version string) string {
	return filepath.Join(s.versionDir(kind, id, version), infoName)
}

// ArtifactPath returns the blob path for one platform of one entity
// version. Pure path arithmetic, no I/O.
func (s *Store) ArtifactPath(kind types.Kind, id, version, platform string) string {
	return filepath.Join(s.versionDir(kind, id, version), platform+".tar.gz")
}

// PackageArtifactPath returns the blob path for a package platform build.
func (s *Store) PackageArtifactPath(id, version, platform string) string {
	return s.ArtifactPath(types.KindPackage, id, version, platform)
}

// PluginArtifactPath returns the blob path for a plugin platform build.
func (s *Store) PluginArtifactPath(id, version, platform string) string {
	return s.ArtifactPath(types.KindPlugin, id, version, platform)
}

// downloadURL builds the documented download URL for a platform build.
func downloadURL(kind types.Kind, id, version, platform string) string {
	return fmt.Sprintf("/v1/%s/%s/%s/%s.tar.gz", kind.URLSegment(), id, version, platform)
}

// webUIEntryURL builds the documented URL for a plugin's web asset.
func webUIEntryURL(id, version string) string {
	return fmt.Sprintf("/v1/plugins/%s/%s/%s", id, version, webUIName)
}

func nowUnix() int64 {
	return time.Now().Unix()
}
