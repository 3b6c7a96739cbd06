package serializer

import (
	"errors"
	"fmt"

	"asset-core/core/asset"
	"asset-core/core/binstream"

	"github.com/google/uuid"
)

const (
	// AssetMagic opens every asset file header ("ASET" little-endian).
	AssetMagic uint32 = 0x54455341
	// HeaderSize is the encoded size of Header.
	HeaderSize = 4*binstream.TypeHeaderSize + 4 + 8 + 16 + 4
)

var (
	// ErrNotAsset is returned when a stream does not start with AssetMagic.
	ErrNotAsset = errors.New("not an asset file")
	// ErrMissing is returned when an asset file does not exist.
	ErrMissing = errors.New("asset file missing")
	// ErrHeaderMismatch is returned when a file header disagrees with its metadata.
	ErrHeaderMismatch = errors.New("asset header does not match metadata")
	// ErrVersionMismatch is returned for files newer than the reading code.
	ErrVersionMismatch = errors.New("unsupported asset version")
)

// Header is the fixed, uncompressed prefix of an asset file body.
type Header struct {
	Handle  asset.Handle
	Type    uuid.UUID
	Version uint32
}

// WriteHeader writes h and returns the body offset where compression may start.
func WriteHeader(w *binstream.Writer, h Header) (int, error) {
	for _, v := range []any{AssetMagic, uint64(h.Handle), [16]byte(h.Type), h.Version} {
		if err := w.Write(v); err != nil {
			return 0, fmt.Errorf("failed to write asset header: %w", err)
		}
	}
	return w.Len(), nil
}

// ReadHeader reads the header at the reader's position. A stream without the
// magic number yields ErrNotAsset.
func ReadHeader(r *binstream.Reader) (Header, error) {
	var magic uint32
	if !r.TryRead(&magic) || magic != AssetMagic {
		if err := r.Err(); err != nil {
			return Header{}, err
		}
		return Header{}, ErrNotAsset
	}

	var (
		handle  uint64
		guid    [16]byte
		version uint32
	)
	if err := r.Read(&handle); err != nil {
		return Header{}, fmt.Errorf("failed to read asset handle: %w", err)
	}
	if err := r.Read(&guid); err != nil {
		return Header{}, fmt.Errorf("failed to read asset type: %w", err)
	}
	if err := r.Read(&version); err != nil {
		return Header{}, fmt.Errorf("failed to read asset version: %w", err)
	}

	return Header{Handle: asset.Handle(handle), Type: uuid.UUID(guid), Version: version}, nil
}
