// Package main is the entry point for the plugin registry server.
//
// The server stores versioned package and plugin artifacts on the local
// filesystem and exposes them over a REST API: a global index document,
// per-version metadata, platform tarballs, and plugin web assets.
//
// Configuration:
//   - Environment variables (12-factor)
//   - Optional YAML file via REGISTRY_CONFIG_FILE
//   - CLI flags (override env vars)
//
// Usage:
//
//	# Production mode
//	./server -port 8080 -data /data
//
//	# Development mode (colored logs, debug level)
//	./server -dev
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
