package serializer

import (
	"fmt"

	"asset-core/core/asset"
	"asset-core/core/binstream"

	"github.com/spf13/afero"
)

// WriteAssetFile writes the header for meta followed by the payload produced
// by fn, compressing everything after the header with the host's codec.
func WriteAssetFile(host Host, meta asset.Metadata, version uint32, fn func(w *binstream.Writer) error) error {
	w := binstream.NewWriter()
	offset, err := WriteHeader(w, Header{Handle: meta.Handle, Type: meta.Type, Version: version})
	if err != nil {
		return err
	}
	if err := fn(w); err != nil {
		return fmt.Errorf("failed to encode %s: %w", meta.FilePath, err)
	}
	return w.WriteToDisk(host.Fs(), host.FilesystemPath(meta.FilePath), host.Compression(), offset)
}

// OpenAssetFile opens the file backing meta, validates its header against
// meta and a, and returns a reader positioned at the payload.
func OpenAssetFile(host Host, meta asset.Metadata, a asset.Asset) (*binstream.Reader, Header, error) {
	path := host.FilesystemPath(meta.FilePath)
	exists, err := afero.Exists(host.Fs(), path)
	if err != nil {
		return nil, Header{}, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if !exists {
		return nil, Header{}, fmt.Errorf("%w: %s", ErrMissing, path)
	}

	r := binstream.NewReader(host.Fs(), path)
	if !r.IsStreamValid() {
		return nil, Header{}, r.Err()
	}

	h, err := ReadHeader(r)
	if err != nil {
		return nil, Header{}, fmt.Errorf("%s: %w", path, err)
	}
	if h.Handle != meta.Handle || h.Type != meta.Type {
		return nil, h, fmt.Errorf("%w: %s has handle %s type %s", ErrHeaderMismatch, path, h.Handle, h.Type)
	}
	if h.Version > a.Version() {
		return nil, h, fmt.Errorf("%w: %s is version %d, newest readable is %d", ErrVersionMismatch, path, h.Version, a.Version())
	}
	return r, h, nil
}
