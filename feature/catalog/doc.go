// Package catalog mirrors the asset registry into a SQL table.
//
// The catalog lets external tooling (build pipelines, dashboards) query which
// assets a project holds without reading the asset files. Rows are keyed by
// handle; memory assets never reach the table.
//
// # HTTP Endpoints
//
//   - GET /catalog/diff : Compares the registry with the table.
//   - POST /catalog/sync : Writes the registry into the table.
//   - GET /catalog/schema : Lists columns missing from the table.
package catalog
