// Package asset defines the identity model shared by the asset manager, the
// serializers and the dependency graph.
//
// # Handles
//
// A Handle is an opaque 64-bit identifier persisted in each asset file header.
// It is stable across sessions and independent of the file path. NullHandle (0)
// never identifies an asset.
//
// # Types
//
// Every concrete asset kind is described by one *Type value registered in a
// TypeRegistry under its GUID. The registry also resolves file extensions to
// types, which is how raw source files are mapped to a kind before they have
// a handle. Registration is first-wins per GUID.
//
// # Assets
//
// Asset is the interface the manager works with. Concrete kinds embed Base,
// which stores the handle, the name and the state flags and is safe for
// concurrent use. The flags carry data conditions instead of errors:
//
//   - FlagMissing: the backing file was not found.
//   - FlagInvalid: no serializer, a type mismatch or a decode failure.
//   - FlagQueued: a background decode is still running.
//
// # Metadata
//
// Metadata is the lightweight registry record for an asset. It is passed by
// value. Lookups for unknown handles return NullMetadata, so callers check
// IsValid instead of handling an error.
package asset
