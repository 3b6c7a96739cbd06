package binstream

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/spf13/afero"
)

// Reader decodes a stream body. The zero position is the first body byte,
// right after the container prefix.
type Reader struct {
	buf         []byte
	head        int
	err         error
	compression Compression
	offset      uint64
	partial     bool
}

// NewReader opens the container at path and loads its whole body.
func NewReader(fs afero.Fs, path string) *Reader {
	return NewReaderLimit(fs, path, 0)
}

// NewReaderLimit opens the container at path and loads at most maxLoadSize
// body bytes. A maxLoadSize of zero loads everything.
func NewReaderLimit(fs afero.Fs, path string, maxLoadSize int) *Reader {
	f, err := fs.Open(path)
	if err != nil {
		return &Reader{err: fmt.Errorf("%w: %v", ErrInvalidStream, err)}
	}
	defer f.Close()

	head := make([]byte, PrefixSize)
	if _, err := io.ReadFull(f, head); err != nil {
		return &Reader{err: fmt.Errorf("%w: reading prefix of %s: %v", ErrInvalidStream, path, err)}
	}
	p, err := decodePrefix(head)
	if err != nil {
		return &Reader{err: err}
	}

	var body []byte
	partial := false
	if maxLoadSize > 0 {
		body, err = io.ReadAll(io.LimitReader(f, int64(maxLoadSize)+1))
		if len(body) > maxLoadSize {
			body = body[:maxLoadSize]
			partial = true
		}
	} else {
		body, err = io.ReadAll(f)
	}
	if err != nil {
		return &Reader{err: fmt.Errorf("%w: reading body of %s: %v", ErrInvalidStream, path, err)}
	}

	return newReader(p, body, partial)
}

// FromBytes parses a complete container held in memory.
func FromBytes(data []byte) *Reader {
	p, err := decodePrefix(data)
	if err != nil {
		return &Reader{err: err}
	}
	return newReader(p, data[PrefixSize:], false)
}

// NewBufferReader reads a bare body without container prefix, such as an
// opaque sub-buffer written with Writer.Write([]byte).
func NewBufferReader(body []byte) *Reader {
	return &Reader{buf: body}
}

func newReader(p prefix, body []byte, partial bool) *Reader {
	buf, err := decodeBody(p, body, partial)
	if err != nil {
		return &Reader{err: err, compression: p.compression, offset: p.offset}
	}
	return &Reader{buf: buf, compression: p.compression, offset: p.offset, partial: partial}
}

// IsStreamValid reports whether no error has occurred so far.
func (r *Reader) IsStreamValid() bool {
	return r.err == nil
}

// Err returns the sticky error, if any.
func (r *Reader) Err() error {
	return r.err
}

// Compression returns the codec named in the container prefix.
func (r *Reader) Compression() Compression {
	return r.compression
}

// CompressedOffset returns the compression boundary recorded in the prefix.
func (r *Reader) CompressedOffset() uint64 {
	return r.offset
}

// Partial reports whether the body was cut short by a load limit.
func (r *Reader) Partial() bool {
	return r.partial
}

// Bytes returns the decoded body.
func (r *Reader) Bytes() []byte {
	return r.buf
}

// Position returns the current read offset within the body.
func (r *Reader) Position() int {
	return r.head
}

// Remaining returns the number of unread body bytes.
func (r *Reader) Remaining() int {
	return len(r.buf) - r.head
}

// ResetHead rewinds to the start of the body.
func (r *Reader) ResetHead() {
	r.head = 0
}

func (r *Reader) fail(err error) error {
	if r.err == nil {
		r.err = err
	}
	return r.err
}

func (r *Reader) take(n int) ([]byte, error) {
	if r.err != nil {
		return nil, r.err
	}
	if n < 0 || n > r.Remaining() {
		return nil, r.fail(fmt.Errorf("%w: need %d bytes at %d, have %d", ErrTruncated, n, r.head, r.Remaining()))
	}
	b := r.buf[r.head : r.head+n]
	r.head += n
	return b, nil
}

// ReadTypeHeader reads the next header.
func (r *Reader) ReadTypeHeader() (TypeHeader, error) {
	b, err := r.take(TypeHeaderSize)
	if err != nil {
		return TypeHeader{}, err
	}
	return TypeHeader{Size: binary.LittleEndian.Uint32(b)}, nil
}

// Read decodes the next value into ptr, which must be a pointer to a value
// Writer.Write accepts. A size mismatch on a fixed-size value invalidates
// the reader.
func (r *Reader) Read(ptr any) error {
	h, err := r.ReadTypeHeader()
	if err != nil {
		return err
	}
	return r.readPayload(h, ptr)
}

func (r *Reader) readPayload(h TypeHeader, ptr any) error {
	switch p := ptr.(type) {
	case Deserializable:
		b, err := r.take(int(h.Size))
		if err != nil {
			return err
		}
		if err := p.DeserializeBinary(NewBufferReader(b)); err != nil {
			return r.fail(fmt.Errorf("decoding %T: %w", ptr, err))
		}
		return nil
	case *string:
		b, err := r.take(int(h.Size))
		if err != nil {
			return err
		}
		*p = string(b)
		return nil
	case *[]byte:
		b, err := r.take(int(h.Size))
		if err != nil {
			return err
		}
		*p = append([]byte(nil), b...)
		return nil
	}

	n := binary.Size(ptr)
	if n < 0 {
		return r.fail(fmt.Errorf("%w: %T", ErrUnsupportedType, ptr))
	}
	if int(h.Size) != n {
		return r.fail(fmt.Errorf("%w: declared %d, %T needs %d", ErrSizeMismatch, h.Size, ptr, n))
	}
	b, err := r.take(n)
	if err != nil {
		return err
	}
	if _, err := binary.Decode(b, binary.LittleEndian, ptr); err != nil {
		return r.fail(fmt.Errorf("decoding %T: %w", ptr, err))
	}
	return nil
}

// TryRead decodes the next value into ptr when its declared size matches
// the destination. On a mismatch the payload is skipped and false is returned
// without invalidating the reader.
func (r *Reader) TryRead(ptr any) bool {
	if r.err != nil {
		return false
	}
	start := r.head
	h, err := r.ReadTypeHeader()
	if err != nil {
		return false
	}

	switch ptr.(type) {
	case Deserializable, *string, *[]byte:
		return r.readPayload(h, ptr) == nil
	}

	if n := binary.Size(ptr); n < 0 || int(h.Size) != n {
		if int(h.Size) > r.Remaining() {
			r.head = start
			return false
		}
		r.head += int(h.Size)
		return false
	}
	return r.readPayload(h, ptr) == nil
}

// ReadSlice reads a sequence written by WriteSlice.
func ReadSlice[T any](r *Reader) ([]T, error) {
	h, err := r.ReadTypeHeader()
	if err != nil {
		return nil, err
	}
	count := int(h.Size)

	if isPacked[T]() {
		var zero T
		size := binary.Size(zero)
		if count > r.Remaining()/size {
			return nil, r.fail(fmt.Errorf("%w: %d elements of %d bytes", ErrTruncated, count, size))
		}
		out := make([]T, count)
		if count == 0 {
			return out, nil
		}
		b, err := r.take(count * size)
		if err != nil {
			return nil, err
		}
		if _, err := binary.Decode(b, binary.LittleEndian, out); err != nil {
			return nil, r.fail(fmt.Errorf("decoding []%T: %w", zero, err))
		}
		return out, nil
	}

	if count > r.Remaining()/TypeHeaderSize {
		return nil, r.fail(fmt.Errorf("%w: %d elements", ErrTruncated, count))
	}
	out := make([]T, count)
	for i := range out {
		if err := r.Read(&out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// ReadMap reads a map written by WriteMap.
func ReadMap[K comparable, V any](r *Reader) (map[K]V, error) {
	h, err := r.ReadTypeHeader()
	if err != nil {
		return nil, err
	}
	count := int(h.Size)
	if count > r.Remaining()/(2*TypeHeaderSize) {
		return nil, r.fail(fmt.Errorf("%w: %d entries", ErrTruncated, count))
	}

	out := make(map[K]V, count)
	for i := 0; i < count; i++ {
		var k K
		var v V
		if err := r.Read(&k); err != nil {
			return nil, err
		}
		if err := r.Read(&v); err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, nil
}
