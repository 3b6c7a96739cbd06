package binstream

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	// ContainerMagic identifies a binstream container.
	ContainerMagic uint32 = 5121
	// PrefixSize is the size of the container prefix in bytes.
	PrefixSize = 13
	// TypeHeaderSize is the encoded size of a TypeHeader.
	TypeHeaderSize = 4
)

var (
	// ErrInvalidStream is returned when the input is not a binstream container.
	ErrInvalidStream = errors.New("binstream: invalid stream")
	// ErrTruncated is returned when a read would go past the end of the buffer.
	ErrTruncated = errors.New("binstream: truncated stream")
	// ErrSizeMismatch is returned when a declared size differs from the destination size.
	ErrSizeMismatch = errors.New("binstream: size mismatch")
	// ErrUnsupportedType is returned for values the codec cannot encode.
	ErrUnsupportedType = errors.New("binstream: unsupported type")
	// ErrCorrupt is returned when a compressed region cannot be decoded.
	ErrCorrupt = errors.New("binstream: corrupt compressed data")
)

// TypeHeader precedes every value in a stream.
type TypeHeader struct {
	Size uint32
}

// Serializable is implemented by types that encode themselves.
// The encoding is wrapped in a TypeHeader holding its byte length.
type Serializable interface {
	SerializeBinary(w *Writer) error
}

// Deserializable is the reading counterpart of Serializable.
// The reader handed to DeserializeBinary is bounded to the value's payload.
type Deserializable interface {
	DeserializeBinary(r *Reader) error
}

type prefix struct {
	compression Compression
	offset      uint64
}

func encodePrefix(p prefix) []byte {
	out := make([]byte, PrefixSize)
	binary.LittleEndian.PutUint32(out[0:4], ContainerMagic)
	out[4] = byte(p.compression)
	binary.LittleEndian.PutUint64(out[5:13], p.offset)
	return out
}

func decodePrefix(b []byte) (prefix, error) {
	if len(b) < PrefixSize {
		return prefix{}, fmt.Errorf("%w: %d byte prefix", ErrInvalidStream, len(b))
	}
	if magic := binary.LittleEndian.Uint32(b[0:4]); magic != ContainerMagic {
		return prefix{}, fmt.Errorf("%w: bad magic %d", ErrInvalidStream, magic)
	}
	p := prefix{
		compression: Compression(b[4]),
		offset:      binary.LittleEndian.Uint64(b[5:13]),
	}
	if !p.compression.valid() {
		return prefix{}, fmt.Errorf("%w: unknown compression %d", ErrInvalidStream, b[4])
	}
	return p, nil
}

// Encode builds the full container for body: prefix, body[:offset] as-is and
// body[offset:] compressed with c.
func Encode(body []byte, c Compression, offset int) ([]byte, error) {
	if offset < 0 || offset > len(body) {
		return nil, fmt.Errorf("binstream: compression offset %d out of range [0,%d]", offset, len(body))
	}

	tail, err := compress(c, body[offset:])
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, PrefixSize+offset+len(tail))
	out = append(out, encodePrefix(prefix{compression: c, offset: uint64(offset)})...)
	out = append(out, body[:offset]...)
	out = append(out, tail...)
	return out, nil
}

// decodeBody reverses Encode on the bytes following the prefix. A partial body
// (limited read) of a compressed container yields only the plain region.
func decodeBody(p prefix, body []byte, partial bool) ([]byte, error) {
	if p.compression == CompressionNone {
		return body, nil
	}

	if p.offset > uint64(len(body)) {
		if partial {
			return body, nil
		}
		return nil, fmt.Errorf("%w: offset %d beyond body of %d bytes", ErrTruncated, p.offset, len(body))
	}

	plain := body[:p.offset]
	if partial {
		return plain, nil
	}

	tail, err := decompress(p.compression, body[p.offset:])
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(plain)+len(tail))
	out = append(out, plain...)
	return append(out, tail...), nil
}
