package blob_test

import (
	"context"
	"testing"

	"asset-core/core/asset"
	"asset-core/core/assets"
	"asset-core/core/jobs"
	"asset-core/core/serializer"
	"asset-core/core/vfs"
	"asset-core/feature/blob"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newManager(t *testing.T, fs afero.Fs) *assets.Manager {
	t.Helper()
	types := asset.NewTypeRegistry()
	serializers := serializer.NewRegistry()
	require.NoError(t, blob.Register(types, serializers))

	scheduler := jobs.New(jobs.Config{Workers: 2}, nil)
	t.Cleanup(scheduler.Close)

	cfg := assets.Config{ProjectDir: "/project", AssetsDir: "Assets", Extension: ".asset", Compression: "snappy"}
	mgr, err := assets.NewManager(cfg, types, serializers, vfs.New(fs, vfs.NewLocalBin("/recycle")), scheduler, zap.NewNop())
	require.NoError(t, err)
	return mgr
}

func TestRegister_Twice(t *testing.T) {
	types := asset.NewTypeRegistry()
	serializers := serializer.NewRegistry()
	require.NoError(t, blob.Register(types, serializers))
	assert.ErrorIs(t, blob.Register(types, serializers), asset.ErrTypeRegistered)
}

func TestFromFile(t *testing.T) {
	b := blob.FromFile("notes.txt", []byte("hi"))
	assert.Contains(t, b.ContentType, "text/plain")
	assert.Equal(t, "application/octet-stream", blob.FromFile("data.unknownext", nil).ContentType)
}

func TestBlob_RoundTrip(t *testing.T) {
	fs := afero.NewMemMapFs()
	writer := newManager(t, fs)

	texture := blob.FromFile("wood.png", []byte{1, 2, 3})
	_, err := writer.CreateAsset("Textures", "wood", texture)
	require.NoError(t, err)
	require.NoError(t, writer.SaveAsset(texture))

	material := &blob.Blob{
		Data:        []byte("shader=lit"),
		ContentType: "text/plain",
		Tags:        map[string]string{"kind": "material", "lod": "0"},
		References:  []asset.Handle{texture.Handle(), 999},
	}
	meta, err := writer.CreateAsset("Materials", "wood", material)
	require.NoError(t, err)
	assert.Equal(t, "Materials/wood.blob", meta.FilePath)
	require.NoError(t, writer.SaveAsset(material))

	reader := newManager(t, fs)
	report, err := reader.Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, report.Registered)

	got, ok := assets.Get[*blob.Blob](reader, material.Handle())
	require.True(t, ok)
	require.True(t, got.IsValid())
	assert.Equal(t, material.Data, got.Data)
	assert.Equal(t, material.Tags, got.Tags)
	assert.Equal(t, material.References, got.References)
	assert.Equal(t, []asset.Handle{texture.Handle()}, reader.GetDependencies(material.Handle()))
	assert.Equal(t, []asset.Handle{material.Handle()}, reader.GetAssetsDependentOn(texture.Handle()))
}
