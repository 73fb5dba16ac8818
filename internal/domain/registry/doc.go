// Package registry provides the file-based storage core of the plugin
// registry.
//
// The registry persists versioned packages and plugins as plain files
// under a single storage root: one authoritative index document, one
// metadata document per (entity, version), and one blob per published
// platform. There is no database and no transaction log.
//
// Components:
//   - Store: The facade composing index, version, and artifact storage
//   - DownloadCounter: Applies download increments off the request path
//
// Storage Structure:
//
//	root/index.json
//	root/packages/{id}/{version}/info.json, {platform}.tar.gz
//	root/plugins/{id}/{version}/info.json, {platform}.tar.gz, web.js, webMeta.json
//
// Consistency:
//   - All index mutations run as load-modify-save under a single store
//     mutex, so concurrent in-process callers never lose updates.
//   - Documents and blobs are written to a temporary sibling and renamed
//     into place, so readers never observe partial writes.
//   - The latest-version pointer only ever advances, per the version
//     ordering in internal/domain/semver.
//
// Example Usage:
//
//	store := registry.New("/data", logger)
//	err := store.Init()
//	err = store.PublishPackage(registry.PackagePublication{...})
//	info, err := store.GetPackageLatest("adi.core")
package registry
