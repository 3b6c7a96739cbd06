package serializer_test

import (
	"path"
	"testing"

	"asset-core/core/asset"
	"asset-core/core/binstream"
	"asset-core/core/serializer"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pointGUID = uuid.MustParse("0b9e4c1a-3d6f-4e2b-8a7c-5f1e2d3c4b5a")

type point struct {
	asset.Base
	X int32
}

func (p *point) TypeGUID() uuid.UUID { return pointGUID }

type pointSerializer struct{}

func (pointSerializer) Serialize(host serializer.Host, meta asset.Metadata, a asset.Asset) error {
	p := a.(*point)
	return serializer.WriteAssetFile(host, meta, p.Version(), func(w *binstream.Writer) error {
		return w.Write(p.X)
	})
}

func (pointSerializer) Deserialize(host serializer.Host, meta asset.Metadata, a asset.Asset) error {
	r, _, err := serializer.OpenAssetFile(host, meta, a)
	if err != nil {
		return err
	}
	return r.Read(&a.(*point).X)
}

type memHost struct {
	fs          afero.Fs
	compression binstream.Compression
}

func (h *memHost) Fs() afero.Fs { return h.fs }
func (h *memHost) FilesystemPath(rel string) string { return path.Join("/project", rel) }
func (h *memHost) Compression() binstream.Compression { return h.compression }
func (h *memHost) GetAsset(asset.Handle) asset.Asset { return nil }
func (h *memHost) AddDependencyToAsset(_, _ asset.Handle) error { return nil }

func TestRegistry_FirstWins(t *testing.T) {
	reg := serializer.NewRegistry()
	first := pointSerializer{}

	require.NoError(t, reg.RegisterSerializer(pointGUID, first))
	err := reg.RegisterSerializer(pointGUID, &pointSerializer{})
	assert.ErrorIs(t, err, serializer.ErrSerializerRegistered)

	assert.True(t, reg.HasSerializer(pointGUID))
	assert.Equal(t, first, reg.GetSerializer(pointGUID))
	assert.Equal(t, []uuid.UUID{pointGUID}, reg.Registered())
	assert.Error(t, reg.RegisterSerializer(uuid.New(), nil))
}

func TestRegistry_GetSerializerPanics(t *testing.T) {
	reg := serializer.NewRegistry()
	assert.False(t, reg.HasSerializer(pointGUID))
	assert.Panics(t, func() { reg.GetSerializer(pointGUID) })
}

func TestHeader_RoundTrip(t *testing.T) {
	w := binstream.NewWriter()
	in := serializer.Header{Handle: 42, Type: pointGUID, Version: 3}
	offset, err := serializer.WriteHeader(w, in)
	require.NoError(t, err)
	assert.Equal(t, serializer.HeaderSize, offset)

	out, err := serializer.ReadHeader(binstream.NewBufferReader(w.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestReadHeader_NotAsset(t *testing.T) {
	w := binstream.NewWriter()
	require.NoError(t, w.Write(uint32(0xDEADBEEF)))
	_, err := serializer.ReadHeader(binstream.NewBufferReader(w.Bytes()))
	assert.ErrorIs(t, err, serializer.ErrNotAsset)

	w = binstream.NewWriter()
	require.NoError(t, w.Write("text"))
	_, err = serializer.ReadHeader(binstream.NewBufferReader(w.Bytes()))
	assert.ErrorIs(t, err, serializer.ErrNotAsset)
}

func TestAssetFile_RoundTrip(t *testing.T) {
	for _, c := range []binstream.Compression{binstream.CompressionNone, binstream.CompressionZlib, binstream.CompressionSnappy} {
		t.Run(c.String(), func(t *testing.T) {
			host := &memHost{fs: afero.NewMemMapFs(), compression: c}
			meta := asset.Metadata{Handle: 42, Type: pointGUID, FilePath: "foo.asset"}

			require.NoError(t, pointSerializer{}.Serialize(host, meta, &point{X: 5}))

			r := binstream.NewReaderLimit(host.fs, "/project/foo.asset", serializer.HeaderSize)
			h, err := serializer.ReadHeader(r)
			require.NoError(t, err)
			assert.Equal(t, serializer.Header{Handle: 42, Type: pointGUID, Version: 1}, h)

			got := &point{}
			require.NoError(t, pointSerializer{}.Deserialize(host, meta, got))
			assert.Equal(t, int32(5), got.X)
		})
	}
}

func TestOpenAssetFile_Errors(t *testing.T) {
	host := &memHost{fs: afero.NewMemMapFs()}
	meta := asset.Metadata{Handle: 42, Type: pointGUID, FilePath: "foo.asset"}

	t.Run("Missing", func(t *testing.T) {
		_, _, err := serializer.OpenAssetFile(host, meta, &point{})
		assert.ErrorIs(t, err, serializer.ErrMissing)
	})

	require.NoError(t, pointSerializer{}.Serialize(host, meta, &point{X: 1}))

	t.Run("HandleMismatch", func(t *testing.T) {
		other := meta
		other.Handle = 7
		_, _, err := serializer.OpenAssetFile(host, other, &point{})
		assert.ErrorIs(t, err, serializer.ErrHeaderMismatch)
	})

	t.Run("NewerVersion", func(t *testing.T) {
		err := serializer.WriteAssetFile(host, meta, 9, func(w *binstream.Writer) error { return nil })
		require.NoError(t, err)
		_, h, err := serializer.OpenAssetFile(host, meta, &point{})
		assert.ErrorIs(t, err, serializer.ErrVersionMismatch)
		assert.Equal(t, uint32(9), h.Version)
	})

	t.Run("NotAContainer", func(t *testing.T) {
		require.NoError(t, afero.WriteFile(host.fs, "/project/junk.asset", []byte("not an asset at all"), 0o644))
		junk := asset.Metadata{Handle: 1, Type: pointGUID, FilePath: "junk.asset"}
		_, _, err := serializer.OpenAssetFile(host, junk, &point{})
		assert.ErrorIs(t, err, binstream.ErrInvalidStream)
	})
}
