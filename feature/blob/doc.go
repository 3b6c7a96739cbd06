// Package blob provides the built-in Blob asset type: an opaque payload with
// a content type, free-form tags and references to other assets.
//
// Blobs let a project track files the engine has no dedicated type for. The
// import command wraps raw files with FromFile, which guesses the content type
// from the file extension.
//
// # Format
//
// A Blob container carries the standard asset header followed by:
//
//	string ContentType | map[string]string Tags | []Handle References | []byte Data
//
// Tags are written in key order, so saving the same Blob twice yields
// identical bytes.
//
// # Dependencies
//
// Each entry of References becomes a dependency edge when the Blob loads.
// References to handles that are not registered stay in the payload without
// an edge, so a Blob can be loaded before the assets it points at.
//
// # Usage
//
//	err := blob.Register(types, serializers)
//	b := blob.FromFile("logo.png", data)
//	meta, err := manager.CreateAsset("UI", "logo", b)
//	err = manager.SaveAsset(b)
package blob
