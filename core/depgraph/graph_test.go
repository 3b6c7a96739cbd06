package depgraph

import (
	"sync"
	"testing"

	"asset-core/core/asset"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type recorder struct {
	asset.Base
	mu    sync.Mutex
	calls []asset.ChangedState
	from  []asset.Handle
}

func (r *recorder) TypeGUID() uuid.UUID { return uuid.Nil }

func (r *recorder) OnDependencyChanged(dep asset.Handle, state asset.ChangedState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, state)
	r.from = append(r.from, dep)
}

func TestAddAssetToGraph_Idempotent(t *testing.T) {
	g := New(nil)
	first := g.AddAssetToGraph(10)
	second := g.AddAssetToGraph(10)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, g.Len())
	assert.Equal(t, InvalidNode, g.AddAssetToGraph(asset.NullHandle))
}

func TestNodeIDs_StableAcrossRemoval(t *testing.T) {
	g := New(nil)
	a := g.AddAssetToGraph(1)
	b := g.AddAssetToGraph(2)
	c := g.AddAssetToGraph(3)

	require.True(t, g.RemoveAssetFromGraph(2))
	assert.False(t, g.RemoveAssetFromGraph(2))

	idA, _ := g.NodeID(1)
	idC, _ := g.NodeID(3)
	assert.Equal(t, a, idA)
	assert.Equal(t, c, idC)

	// freed slot is reused
	d := g.AddAssetToGraph(4)
	assert.Equal(t, b, d)
	assert.False(t, g.Contains(2))
}

func TestAddDependency_RequiresBothEndpoints(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	g := New(zap.New(core))
	g.AddAssetToGraph(1)

	err := g.AddDependencyToAsset(1, 2)
	assert.ErrorIs(t, err, ErrNodeNotFound)
	assert.Equal(t, 1, logs.Len())
	assert.False(t, g.Contains(2), "missing endpoints are not auto-inserted")

	assert.ErrorIs(t, g.AddDependencyToAsset(1, 1), ErrSelfDependency)
}

func TestDependencies_And_Dependents(t *testing.T) {
	g := New(nil)
	for h := asset.Handle(1); h <= 4; h++ {
		g.AddAssetToGraph(h)
	}
	// material(1) -> shader(2) -> include(3); scene(4) -> material(1)
	require.NoError(t, g.AddDependencyToAsset(1, 2))
	require.NoError(t, g.AddDependencyToAsset(2, 3))
	require.NoError(t, g.AddDependencyToAsset(4, 1))
	require.NoError(t, g.AddDependencyToAsset(4, 1))

	assert.Equal(t, []asset.Handle{2}, g.GetDependencies(1))
	assert.Equal(t, []asset.Handle{1, 2, 4}, g.GetAssetsDependentOn(3))
	assert.Equal(t, []asset.Handle{4}, g.GetAssetsDependentOn(1))
	assert.Empty(t, g.GetAssetsDependentOn(4))
	assert.Equal(t, []Edge{{1, 2}, {2, 3}, {4, 1}}, g.Edges())

	g.RemoveDependencyFromAsset(4, 1)
	assert.Empty(t, g.GetAssetsDependentOn(1))
}

func TestRemoveAssetFromGraph_DropsEdges(t *testing.T) {
	g := New(nil)
	g.AddAssetToGraph(1)
	g.AddAssetToGraph(2)
	g.AddAssetToGraph(3)
	require.NoError(t, g.AddDependencyToAsset(1, 2))
	require.NoError(t, g.AddDependencyToAsset(2, 3))

	g.RemoveAssetFromGraph(2)
	assert.Empty(t, g.GetDependencies(1))
	assert.Empty(t, g.GetAssetsDependentOn(3))
	assert.Empty(t, g.Edges())
}

func TestOnAssetChanged(t *testing.T) {
	g := New(nil)
	g.AddAssetToGraph(1) // A
	g.AddAssetToGraph(2) // B
	require.NoError(t, g.AddDependencyToAsset(1, 2))

	t.Run("LoadedDependentNotifiedOnce", func(t *testing.T) {
		a := &recorder{}
		n := g.OnAssetChanged(2, asset.ChangedUpdated, func(h asset.Handle) asset.Asset {
			if h == 1 {
				return a
			}
			return nil
		})
		assert.Equal(t, 1, n)
		assert.Equal(t, []asset.ChangedState{asset.ChangedUpdated}, a.calls)
		assert.Equal(t, []asset.Handle{2}, a.from)
	})

	t.Run("UnloadedDependentSkipped", func(t *testing.T) {
		n := g.OnAssetChanged(2, asset.ChangedUpdated, func(asset.Handle) asset.Asset { return nil })
		assert.Zero(t, n)
	})

	t.Run("CycleVisitsEachOnce", func(t *testing.T) {
		require.NoError(t, g.AddDependencyToAsset(2, 1))
		recs := map[asset.Handle]*recorder{1: {}, 2: {}}
		n := g.OnAssetChanged(2, asset.ChangedRemoved, func(h asset.Handle) asset.Asset { return recs[h] })
		assert.Equal(t, 1, n)
		assert.Len(t, recs[1].calls, 1)
		assert.Empty(t, recs[2].calls)
	})
}

func TestOnAssetChanged_CallbackMayReenter(t *testing.T) {
	g := New(nil)
	g.AddAssetToGraph(1)
	g.AddAssetToGraph(2)
	require.NoError(t, g.AddDependencyToAsset(1, 2))

	g.OnAssetChanged(2, asset.ChangedUpdated, func(h asset.Handle) asset.Asset {
		// structural edit while propagating must not deadlock
		g.AddAssetToGraph(3)
		return nil
	})
	assert.True(t, g.Contains(3))
}

func TestGraph_Concurrent(t *testing.T) {
	g := New(nil)
	var wg sync.WaitGroup
	for i := 1; i <= 50; i++ {
		wg.Add(1)
		go func(h asset.Handle) {
			defer wg.Done()
			g.AddAssetToGraph(h)
			g.AddAssetToGraph(h + 1000)
			_ = g.AddDependencyToAsset(h, h+1000)
			_ = g.GetAssetsDependentOn(h + 1000)
		}(asset.Handle(i))
	}
	wg.Wait()
	assert.Equal(t, 100, g.Len())
	assert.Len(t, g.Edges(), 50)
}
