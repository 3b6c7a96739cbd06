package assets_test

import (
	"testing"

	"asset-core/core/asset"
	"asset-core/core/assets"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryQueries(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.mgr.AddAssetToRegistry("Props/box.asset", 1, crateGUID))
	require.NoError(t, f.mgr.AddAssetToRegistry("/Props/../Props/crate.asset", 2, crateGUID))
	require.NoError(t, f.mgr.AddAssetToRegistry("Other/box.asset", 3, crateGUID))
	require.NoError(t, f.mgr.AddAssetToRegistry("lit.shader", 4, shaderGUID))

	assert.ErrorIs(t, f.mgr.AddAssetToRegistry("Props/box.asset", 5, crateGUID), assets.ErrPathTaken)
	assert.ErrorIs(t, f.mgr.AddAssetToRegistry("null.asset", asset.NullHandle, crateGUID), assets.ErrInvalidAsset)

	assert.Equal(t, asset.NullMetadata, f.mgr.GetMetadata(99))
	assert.False(t, f.mgr.GetMetadata(99).IsValid())
	assert.Equal(t, asset.Handle(2), f.mgr.GetHandleFromPath("Props/crate.asset"))
	assert.True(t, f.mgr.PathExistsInRegistry("Props/box.asset"))
	assert.Equal(t, shaderGUID, f.mgr.GetTypeFromHandle(4))

	typ, ok := f.mgr.GetTypeFromPath("lit.shader")
	require.True(t, ok)
	assert.Equal(t, shaderGUID, typ)
	typ, ok = f.mgr.GetTypeFromPath("new/unregistered.SHADER")
	require.True(t, ok)
	assert.Equal(t, shaderGUID, typ)
	_, ok = f.mgr.GetTypeFromPath("notes.txt")
	assert.False(t, ok)

	assert.Equal(t, []asset.Handle{1, 2, 3}, f.mgr.GetAllAssetsOfType(crateGUID))
	assert.Equal(t, "Other/box.asset", f.mgr.GetFilePathFromFilename("box.asset"))
	assert.Empty(t, f.mgr.GetFilePathFromFilename("none.asset"))

	snap := f.mgr.Snapshot()
	require.Len(t, snap, 4)
	assert.Equal(t, "Other/box.asset", snap[0].FilePath)
	assert.Equal(t, "lit.shader", snap[3].FilePath)
}

func TestGetOrAddAssetToRegistry(t *testing.T) {
	f := newFixture(t)

	h := f.mgr.GetOrAddAssetToRegistry("a.asset", crateGUID)
	require.True(t, h.IsValid())
	assert.Equal(t, h, f.mgr.GetOrAddAssetToRegistry("a.asset", crateGUID))
	assert.True(t, f.mgr.InGraph(h))
}

func TestRegistryRemovals(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.mgr.AddAssetToRegistry("Tex/a.asset", 1, crateGUID))
	require.NoError(t, f.mgr.AddAssetToRegistry("Tex/sub/b.asset", 2, crateGUID))
	require.NoError(t, f.mgr.AddAssetToRegistry("Textures/c.asset", 3, crateGUID))

	assert.Equal(t, 2, f.mgr.RemoveFolderFromRegistry("Tex"))
	assert.False(t, f.mgr.ExistsInRegistry(1))
	assert.False(t, f.mgr.InGraph(2))
	assert.True(t, f.mgr.ExistsInRegistry(3))

	assert.True(t, f.mgr.MoveAssetInRegistry("Textures/c.asset", "Art/c.asset"))
	assert.False(t, f.mgr.MoveAssetInRegistry("Textures/c.asset", "Art/c.asset"))
	assert.Equal(t, "Art/c.asset", f.mgr.GetMetadata(3).FilePath)

	assert.True(t, f.mgr.RemoveAssetFromRegistry(3))
	assert.False(t, f.mgr.RemoveAssetFromRegistry(3))
	assert.Empty(t, f.mgr.Snapshot())
}

func TestDependencyEdges(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.mgr.AddAssetToRegistry("a.asset", 1, crateGUID))
	require.NoError(t, f.mgr.AddAssetToRegistry("b.asset", 2, crateGUID))

	require.NoError(t, f.mgr.AddDependencyToAsset(1, 2))
	assert.Error(t, f.mgr.AddDependencyToAsset(1, 99))
	assert.Len(t, f.mgr.DependencyEdges(), 1)

	f.mgr.RemoveDependencyFromAsset(1, 2)
	assert.Empty(t, f.mgr.DependencyEdges())
}

func TestChangeQueue(t *testing.T) {
	f := newFixture(t)

	var got []assets.ChangeEvent
	id := f.mgr.RegisterChangedCallback(crateGUID, func(h asset.Handle, state asset.ChangedState) {
		got = append(got, assets.ChangeEvent{Handle: h, Type: crateGUID, State: state})
		if state == asset.ChangedRemoved {
			// requeued events wait for the next tick
			f.mgr.QueueAssetChanged(h+100, crateGUID, asset.ChangedUpdated)
		}
	})
	f.mgr.RegisterChangedCallback(uuid.New(), func(asset.Handle, asset.ChangedState) {
		t.Fatal("callback of another type invoked")
	})

	f.mgr.QueueAssetChanged(1, crateGUID, asset.ChangedUpdated)
	f.mgr.QueueAssetChanged(2, crateGUID, asset.ChangedRemoved)
	f.mgr.QueueAssetChanged(3, shaderGUID, asset.ChangedUpdated)
	assert.Equal(t, 3, f.mgr.PendingChanges())
	assert.Empty(t, got)

	assert.Equal(t, 3, f.mgr.Update())
	assert.Equal(t, []assets.ChangeEvent{
		{Handle: 1, Type: crateGUID, State: asset.ChangedUpdated},
		{Handle: 2, Type: crateGUID, State: asset.ChangedRemoved},
	}, got)
	assert.Equal(t, 1, f.mgr.PendingChanges())

	assert.Equal(t, 1, f.mgr.Update())
	assert.Len(t, got, 3)
	assert.Zero(t, f.mgr.Update())

	assert.True(t, f.mgr.UnregisterChangedCallback(crateGUID, id))
	assert.False(t, f.mgr.UnregisterChangedCallback(crateGUID, id))
	f.mgr.QueueAssetChanged(1, crateGUID, asset.ChangedUpdated)
	f.mgr.Update()
	assert.Len(t, got, 3)
}
