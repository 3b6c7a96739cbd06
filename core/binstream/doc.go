// Package binstream implements the binary container format used by asset files.
//
// Every value written to a stream is prefixed with a TypeHeader holding a single
// little-endian uint32. For fixed-size values, strings, byte buffers and
// Serializable objects the header holds the payload size in bytes. For slices
// and maps it holds the element count.
//
// # Container Layout
//
// A stream persisted with WriteToDisk starts with a 13 byte prefix:
//
//	u32 ContainerMagic | u8 Compression | u64 compressed data offset
//
// The body follows the prefix. Bytes in [0, offset) are always stored as-is,
// which keeps the asset header readable without decompressing anything. Bytes
// in [offset, end) are compressed with the codec named in the prefix.
//
// # Reading
//
// A Reader is built from a path on an afero filesystem, optionally limited to
// a maximum number of body bytes. Limited readers are used by discovery scans
// that only need the header region. Errors are sticky: after the first failure
// every read returns the same error and IsStreamValid reports false.
//
// Truncated or corrupt input fails closed. A read whose declared size exceeds
// the remaining buffer returns ErrTruncated instead of reading past the end.
// A compressed region that would inflate past MaxDecodedSize returns ErrCorrupt.
//
// TryRead is the forward-compatibility guard. It compares the declared size
// with the size of the destination and returns false on a mismatch, skipping
// the payload so later reads stay aligned.
//
// # Usage
//
//	w := binstream.NewWriter()
//	_ = w.Write(uint32(7))
//	_ = w.Write("hello")
//	_ = binstream.WriteSlice(w, []float32{1, 2, 3})
//	err := w.WriteToDisk(fs, "foo.asset", binstream.CompressionZlib, 0)
//
//	r := binstream.NewReader(fs, "foo.asset")
//	var n uint32
//	var s string
//	_ = r.Read(&n)
//	_ = r.Read(&s)
//	floats, err := binstream.ReadSlice[float32](r)
package binstream
