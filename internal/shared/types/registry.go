package types

// IndexSchemaVersion identifies the layout of the persisted index document.
const IndexSchemaVersion uint32 = 1

// Kind discriminates the two entity families stored in the registry.
type Kind int

const (
	KindPackage Kind = iota
	KindPlugin
)

// Dir returns the storage subdirectory for the kind.
func (k Kind) Dir() string {
	if k == KindPlugin {
		return "plugins"
	}
	return "packages"
}

// URLSegment returns the download URL path segment for the kind.
// It happens to match Dir, but the two concerns are independent.
func (k Kind) URLSegment() string {
	return k.Dir()
}

func (k Kind) String() string {
	if k == KindPlugin {
		return "plugin"
	}
	return "package"
}

// RegistryIndex is the single authoritative summary document mapping every
// entity to its latest version, display metadata, and download counter.
type RegistryIndex struct {
	Version   uint32         `json:"version"`
	UpdatedAt int64          `json:"updatedAt"`
	Packages  []PackageEntry `json:"packages"`
	Plugins   []PluginEntry  `json:"plugins"`
}

// NewRegistryIndex returns an empty index at the current schema version.
func NewRegistryIndex() *RegistryIndex {
	return &RegistryIndex{
		Version:  IndexSchemaVersion,
		Packages: []PackageEntry{},
		Plugins:  []PluginEntry{},
	}
}

// PackageEntry summarizes one package in the index.
type PackageEntry struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	PluginCount   uint32   `json:"pluginCount"`
	PluginIDs     []string `json:"pluginIds"`
	LatestVersion string   `json:"latestVersion"`
	Downloads     uint64   `json:"downloads"`
	Author        string   `json:"author"`
	Tags          []string `json:"tags"`
}

// PluginEntry summarizes one plugin in the index.
type PluginEntry struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	PluginType    string   `json:"pluginType"`
	PackageID     *string  `json:"packageId,omitempty"`
	LatestVersion string   `json:"latestVersion"`
	Downloads     uint64   `json:"downloads"`
	Author        string   `json:"author"`
	Tags          []string `json:"tags"`
}

// PlatformBuild describes one platform artifact of one entity version.
// Checksum is the lower-case hex SHA-256 digest of the stored blob.
type PlatformBuild struct {
	Platform    string  `json:"platform"`
	DownloadURL string  `json:"downloadUrl"`
	SizeBytes   uint64  `json:"sizeBytes"`
	Checksum    string  `json:"checksum"`
	Signature   *string `json:"signature,omitempty"`
}

// PackageInfo is the per-version metadata document for a package.
type PackageInfo struct {
	ID          string          `json:"id"`
	Version     string          `json:"version"`
	Platforms   []PlatformBuild `json:"platforms"`
	PublishedAt int64           `json:"publishedAt"`
	Changelog   *string         `json:"changelog,omitempty"`
}

// PluginInfo is the per-version metadata document for a plugin. WebUI is
// never persisted: it is recomputed from the stored asset on every read.
type PluginInfo struct {
	ID          string          `json:"id"`
	Version     string          `json:"version"`
	PluginType  string          `json:"pluginType"`
	Platforms   []PlatformBuild `json:"platforms"`
	PublishedAt int64           `json:"publishedAt"`
	WebUI       *WebUIAsset     `json:"webUi,omitempty"`
}

// WebUIAsset describes a plugin version's browser entry point.
type WebUIAsset struct {
	EntryURL  string `json:"entryUrl"`
	SizeBytes uint64 `json:"sizeBytes"`
}

// WebUIMeta is the size-only sidecar written next to a stored web asset.
// It is a side artifact of publish; reads derive sizes from the asset file.
type WebUIMeta struct {
	SizeBytes uint64 `json:"sizeBytes"`
}

// SearchResults holds index entries matching a search query.
type SearchResults struct {
	Packages []PackageEntry `json:"packages"`
	Plugins  []PluginEntry  `json:"plugins"`
}
