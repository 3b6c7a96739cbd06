// Package inspect exposes the asset manager to editor tooling over HTTP.
//
// # HTTP Endpoints
//
//   - GET /assets : Lists registry records (supports ?type=<guid>).
//   - GET /assets/:handle : Returns one registry record.
//   - GET /assets/:handle/dependents : Assets that reference the handle, transitively.
//   - GET /assets/:handle/dependencies : Assets the handle references directly.
//   - POST /assets/:handle/reload : Drops the cached instance and loads it again.
//   - POST /assets/:handle/unload : Drops the cached instance.
//   - POST /rescan : Walks the asset directories again.
package inspect
