/*
Package http implements the registry's HTTP API handlers.

# Overview

Handlers translate gin requests into storage operations and map storage
errors onto status codes. All responses are JSON except artifact and web
asset downloads, which stream file contents.

# Endpoints

- GET / and GET /health: service documents
- GET /v1/index.json: full registry index
- GET /v1/search: substring filter with fuzzy ranking
- GET /v1/{packages,plugins}/:id/:version: version documents, where
  :version is "latest.json" or "<version>.json"
- GET /v1/{packages,plugins}/:id/:version/:platform: artifact downloads
  (":platform" carries a ".tar.gz" suffix; "web.js" for plugin assets)
- POST /v1/publish/{packages,plugins}/:id/:version/:platform: publishes
  ("web" as the platform publishes a plugin's web asset)

# Error mapping

- NotFound: 404
- EmptyPayload and input validation: 400
- CorruptData and unexpected faults: 500
*/
package http
