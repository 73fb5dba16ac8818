// Package types provides shared data structures for the plugin registry.
//
// This package defines the persisted documents and API payloads used across
// the registry, ensuring consistent JSON shapes between what is written to
// disk and what is served over HTTP.
//
// Core Types:
//   - RegistryIndex: The single summary document for the whole registry
//   - PackageEntry, PluginEntry: Per-entity index entries
//   - PackageInfo, PluginInfo: Per-version metadata documents
//   - PlatformBuild: One platform artifact of one entity version
//   - WebUIAsset: Descriptor for a plugin's browser entry point
//   - SearchResults: Index entries matching a search query
//
// All persisted documents use camelCase field names and unix-second
// timestamps.
package types
