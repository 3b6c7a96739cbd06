package binstream

import (
	"bytes"
	"cmp"
	"encoding/binary"
	"fmt"
	"maps"
	"path/filepath"
	"slices"

	"github.com/spf13/afero"
)

// Writer accumulates a stream body in memory.
type Writer struct {
	buf *bytes.Buffer
}

// NewWriter creates an empty Writer.
func NewWriter() *Writer {
	return &Writer{buf: &bytes.Buffer{}}
}

// Bytes returns the body written so far.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Len returns the number of body bytes written.
func (w *Writer) Len() int {
	return w.buf.Len()
}

// WriteTypeHeader writes a raw header.
func (w *Writer) WriteTypeHeader(size uint32) {
	var b [TypeHeaderSize]byte
	binary.LittleEndian.PutUint32(b[:], size)
	w.buf.Write(b[:])
}

// Write encodes one value with its header. Supported values are fixed-size
// values accepted by encoding/binary, strings, byte slices (written as an
// opaque sub-buffer) and Serializable implementations.
func (w *Writer) Write(v any) error {
	switch val := v.(type) {
	case Serializable:
		sub := NewWriter()
		if err := val.SerializeBinary(sub); err != nil {
			return err
		}
		w.WriteTypeHeader(uint32(sub.Len()))
		w.buf.Write(sub.Bytes())
		return nil
	case string:
		w.WriteTypeHeader(uint32(len(val)))
		w.buf.WriteString(val)
		return nil
	case []byte:
		w.WriteTypeHeader(uint32(len(val)))
		w.buf.Write(val)
		return nil
	}

	n := binary.Size(v)
	if n < 0 {
		return fmt.Errorf("%w: %T", ErrUnsupportedType, v)
	}
	w.WriteTypeHeader(uint32(n))
	return binary.Write(w.buf, binary.LittleEndian, v)
}

// WriteToDisk persists the body as a container at path.
// Bytes before offset are left uncompressed.
func (w *Writer) WriteToDisk(fs afero.Fs, path string, c Compression, offset int) error {
	out, err := Encode(w.Bytes(), c, offset)
	if err != nil {
		return err
	}
	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	if err := afero.WriteFile(fs, path, out, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// SizeOf returns the encoded size of v, header included.
func SizeOf(v any) (int, error) {
	w := NewWriter()
	if err := w.Write(v); err != nil {
		return 0, err
	}
	return w.Len(), nil
}

// WriteSlice writes a count-prefixed sequence. Elements of a fixed-size type
// are packed without individual headers; any other element carries its own.
func WriteSlice[T any](w *Writer, s []T) error {
	w.WriteTypeHeader(uint32(len(s)))
	if isPacked[T]() {
		if len(s) == 0 {
			return nil
		}
		return binary.Write(w.buf, binary.LittleEndian, s)
	}
	for i := range s {
		if err := w.Write(s[i]); err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
	}
	return nil
}

// WriteMap writes a count-prefixed map as key/value pairs in ascending key order.
func WriteMap[K cmp.Ordered, V any](w *Writer, m map[K]V) error {
	w.WriteTypeHeader(uint32(len(m)))
	for _, k := range slices.Sorted(maps.Keys(m)) {
		if err := w.Write(k); err != nil {
			return fmt.Errorf("key %v: %w", k, err)
		}
		if err := w.Write(m[k]); err != nil {
			return fmt.Errorf("value for %v: %w", k, err)
		}
	}
	return nil
}

// isPacked reports whether T is written as raw fixed-size data inside slices.
func isPacked[T any]() bool {
	var zero T
	if _, ok := any(zero).(Serializable); ok {
		return false
	}
	if _, ok := any(&zero).(Deserializable); ok {
		return false
	}
	return binary.Size(zero) > 0
}
