// Package serializer dispatches asset encoding and decoding by type GUID.
//
// A Serializer converts one concrete asset kind between its in-memory form
// and its file payload. Serializers are registered once at startup in a
// Registry. The first registration for a GUID wins.
//
// GetSerializer panics when no serializer exists for a GUID: asking for one
// that was never registered is a configuration defect. Callers that can
// tolerate a missing serializer check HasSerializer first.
//
// # Asset Files
//
// Every asset file starts with the same header, written before the
// compression boundary so discovery scans can read it cheaply:
//
//	u32 AssetMagic | u64 handle | [16]byte type GUID | u32 version
//
// Each field carries its own binstream TypeHeader, giving HeaderSize bytes in
// total. WriteAssetFile and OpenAssetFile wrap the header handling so a
// serializer only deals with its payload.
package serializer
