// Package integrity validates the asset registry against the filesystem and
// the dependency graph.
//
// # Checks Provided
//
//   - Files: every file-backed registry entry exists on disk and its header
//     carries the registered handle and type.
//   - Dependencies: every graph edge connects two registered handles.
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks.
//   - GET /integrity/files : Runs the file check.
//   - GET /integrity/dependencies : Runs the dependency check.
package integrity
