package binstream

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zlib"
)

// Compression selects the codec applied to the body past the compression offset.
type Compression uint8

const (
	// CompressionNone stores the body as-is.
	CompressionNone Compression = iota
	// CompressionZlib deflates the body with a zlib wrapper.
	CompressionZlib
	// CompressionSnappy encodes the body with snappy block format.
	CompressionSnappy
)

// MaxDecodedSize caps the decompressed size of a container body. Larger
// bodies are rejected with ErrCorrupt.
var MaxDecodedSize int64 = 256 << 20

func (c Compression) valid() bool {
	return c <= CompressionSnappy
}

// String returns the configuration name of the codec.
func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionZlib:
		return "zlib"
	case CompressionSnappy:
		return "snappy"
	default:
		return fmt.Sprintf("compression(%d)", uint8(c))
	}
}

// ParseCompression maps a configuration name to a Compression.
func ParseCompression(name string) (Compression, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none":
		return CompressionNone, nil
	case "zlib":
		return CompressionZlib, nil
	case "snappy":
		return CompressionSnappy, nil
	default:
		return CompressionNone, fmt.Errorf("unknown compression %q", name)
	}
}

func compress(c Compression, src []byte) ([]byte, error) {
	switch c {
	case CompressionNone:
		return src, nil
	case CompressionZlib:
		var buf bytes.Buffer
		zw := zlib.NewWriter(&buf)
		if _, err := zw.Write(src); err != nil {
			return nil, fmt.Errorf("zlib compress: %w", err)
		}
		if err := zw.Close(); err != nil {
			return nil, fmt.Errorf("zlib compress: %w", err)
		}
		return buf.Bytes(), nil
	case CompressionSnappy:
		return snappy.Encode(nil, src), nil
	default:
		return nil, fmt.Errorf("%w: compression %d", ErrUnsupportedType, uint8(c))
	}
}

func decompress(c Compression, src []byte) ([]byte, error) {
	switch c {
	case CompressionNone:
		return src, nil
	case CompressionZlib:
		zr, err := zlib.NewReader(bytes.NewReader(src))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		defer zr.Close()
		out, err := io.ReadAll(io.LimitReader(zr, MaxDecodedSize+1))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		if int64(len(out)) > MaxDecodedSize {
			return nil, fmt.Errorf("%w: body exceeds %d bytes", ErrCorrupt, MaxDecodedSize)
		}
		return out, nil
	case CompressionSnappy:
		n, err := snappy.DecodedLen(src)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		if int64(n) > MaxDecodedSize {
			return nil, fmt.Errorf("%w: body of %d bytes exceeds %d", ErrCorrupt, n, MaxDecodedSize)
		}
		out, err := snappy.Decode(nil, src)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: compression %d", ErrUnsupportedType, uint8(c))
	}
}
