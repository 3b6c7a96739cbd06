package asset_test

import (
	"sync"
	"testing"

	"asset-core/core/asset"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var meshGUID = uuid.MustParse("6f1b7f3e-8f2a-4c55-9b0e-2f3a1d4c5e6f")

type mesh struct {
	asset.Base
}

func (m *mesh) TypeGUID() uuid.UUID { return meshGUID }

func TestHandle(t *testing.T) {
	seen := make(map[asset.Handle]struct{})
	for i := 0; i < 1000; i++ {
		h := asset.NewHandle()
		require.True(t, h.IsValid())
		seen[h] = struct{}{}
	}
	assert.Len(t, seen, 1000)

	h, err := asset.ParseHandle("42")
	require.NoError(t, err)
	assert.Equal(t, asset.Handle(42), h)
	assert.Equal(t, "42", h.String())

	_, err = asset.ParseHandle("abc")
	assert.Error(t, err)
	assert.False(t, asset.NullHandle.IsValid())
}

func TestBase_Flags(t *testing.T) {
	m := &mesh{}
	assert.True(t, m.IsValid())
	assert.Equal(t, uint32(1), m.Version())

	m.SetFlag(asset.FlagQueued, true)
	m.SetFlag(asset.FlagMissing, true)
	assert.True(t, m.HasFlag(asset.FlagQueued))
	assert.False(t, m.IsValid())
	assert.Equal(t, "missing|queued", m.Flags().String())

	m.SetFlag(asset.FlagQueued, false)
	assert.Equal(t, asset.FlagMissing, m.Flags())

	m.SetFlag(asset.FlagMissing, false)
	assert.True(t, m.IsValid())
	assert.Equal(t, "none", m.Flags().String())
}

func TestBase_ConcurrentFlags(t *testing.T) {
	m := &mesh{}
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			m.SetFlag(asset.FlagInvalid, true)
		}()
		go func() {
			defer wg.Done()
			m.SetFlag(asset.FlagMissing, true)
		}()
	}
	wg.Wait()
	assert.Equal(t, asset.FlagInvalid|asset.FlagMissing, m.Flags())
}

func TestTypeRegistry(t *testing.T) {
	reg := asset.NewTypeRegistry()
	first := &asset.Type{GUID: meshGUID, Name: "Mesh", Extensions: []string{".mesh", "FBX"}, New: func() asset.Asset { return &mesh{} }}
	second := &asset.Type{GUID: meshGUID, Name: "Other"}

	require.NoError(t, reg.Register(first))
	err := reg.Register(second)
	assert.ErrorIs(t, err, asset.ErrTypeRegistered)

	got, ok := reg.Lookup(meshGUID)
	require.True(t, ok)
	assert.Same(t, first, got)

	byExt, ok := reg.ByExtension("fbx")
	require.True(t, ok)
	assert.Same(t, first, byExt)
	_, ok = reg.ByExtension(".png")
	assert.False(t, ok)

	assert.Len(t, reg.Types(), 1)
	assert.Error(t, reg.Register(&asset.Type{}))
}

func TestTypeRegistry_MustLookupPanics(t *testing.T) {
	reg := asset.NewTypeRegistry()
	assert.Panics(t, func() { reg.MustLookup(uuid.New()) })
}

func TestMetadata_IsValid(t *testing.T) {
	assert.False(t, asset.NullMetadata.IsValid())
	assert.True(t, asset.Metadata{Handle: 1}.IsValid())
}
