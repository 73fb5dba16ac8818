// Package search filters and ranks registry index entries.
//
// A query matches an entry when it is a case-insensitive substring of the
// entry's id, name, description, or any tag. Matches are then ranked with
// fuzzy scoring against the same fields so the closest names surface first.
// An empty query returns every entry in index order.
package search

import (
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/adi-os/plugin-registry/internal/shared/types"
)

// Scope restricts which sides of the index a search covers.
type Scope string

const (
	ScopeAll      Scope = "all"
	ScopePackages Scope = "packages"
	ScopePlugins  Scope = "plugins"
)

// ParseScope maps a request parameter onto a Scope, defaulting to ScopeAll.
// Singular and plural forms are both accepted.
func ParseScope(raw string) Scope {
	switch strings.ToLower(raw) {
	case "package", "packages":
		return ScopePackages
	case "plugin", "plugins":
		return ScopePlugins
	default:
		return ScopeAll
	}
}

// packageSource adapts package entries for fuzzy matching.
type packageSource []types.PackageEntry

func (s packageSource) Len() int { return len(s) }

func (s packageSource) String(i int) string {
	e := s[i]
	parts := append([]string{e.ID, e.Name, e.Description}, e.Tags...)
	return strings.ToLower(strings.Join(parts, " "))
}

// pluginSource adapts plugin entries for fuzzy matching.
type pluginSource []types.PluginEntry

func (s pluginSource) Len() int { return len(s) }

func (s pluginSource) String(i int) string {
	e := s[i]
	parts := append([]string{e.ID, e.Name, e.Description}, e.Tags...)
	return strings.ToLower(strings.Join(parts, " "))
}

// Query matches index entries against query within the given scope.
// Results are never nil slices so they serialize as empty arrays.
func Query(idx *types.RegistryIndex, query string, scope Scope) types.SearchResults {
	results := types.SearchResults{
		Packages: []types.PackageEntry{},
		Plugins:  []types.PluginEntry{},
	}
	if idx == nil {
		return results
	}

	query = strings.ToLower(strings.TrimSpace(query))

	if scope == ScopeAll || scope == ScopePackages {
		results.Packages = rankPackages(idx.Packages, query)
	}
	if scope == ScopeAll || scope == ScopePlugins {
		results.Plugins = rankPlugins(idx.Plugins, query)
	}
	return results
}

func rankPackages(entries []types.PackageEntry, query string) []types.PackageEntry {
	if query == "" {
		return append([]types.PackageEntry{}, entries...)
	}

	var filtered []types.PackageEntry
	for _, e := range entries {
		if matchesEntry(query, e.ID, e.Name, e.Description, e.Tags) {
			filtered = append(filtered, e)
		}
	}
	if len(filtered) == 0 {
		return []types.PackageEntry{}
	}

	matches := fuzzy.FindFrom(query, packageSource(filtered))
	ranked := make([]types.PackageEntry, 0, len(filtered))
	seen := make(map[int]bool, len(matches))
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	for _, m := range matches {
		ranked = append(ranked, filtered[m.Index])
		seen[m.Index] = true
	}
	// Substring matches that fuzzy scoring skipped keep their index order.
	for i, e := range filtered {
		if !seen[i] {
			ranked = append(ranked, e)
		}
	}
	return ranked
}

func rankPlugins(entries []types.PluginEntry, query string) []types.PluginEntry {
	if query == "" {
		return append([]types.PluginEntry{}, entries...)
	}

	var filtered []types.PluginEntry
	for _, e := range entries {
		if matchesEntry(query, e.ID, e.Name, e.Description, e.Tags) {
			filtered = append(filtered, e)
		}
	}
	if len(filtered) == 0 {
		return []types.PluginEntry{}
	}

	matches := fuzzy.FindFrom(query, pluginSource(filtered))
	ranked := make([]types.PluginEntry, 0, len(filtered))
	seen := make(map[int]bool, len(matches))
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	for _, m := range matches {
		ranked = append(ranked, filtered[m.Index])
		seen[m.Index] = true
	}
	for i, e := range filtered {
		if !seen[i] {
			ranked = append(ranked, e)
		}
	}
	return ranked
}

func matchesEntry(query, id, name, description string, tags []string) bool {
	if strings.Contains(strings.ToLower(id), query) {
		return true
	}
	if strings.Contains(strings.ToLower(name), query) {
		return true
	}
	if strings.Contains(strings.ToLower(description), query) {
		return true
	}
	for _, tag := range tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}
	return false
}
