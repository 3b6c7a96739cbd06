package depgraph

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"
	"sync"

	"asset-core/core/asset"

	"go.uber.org/zap"
)

// NodeID is a stable index into the node arena.
type NodeID uint32

// InvalidNode is returned for the null handle.
const InvalidNode NodeID = math.MaxUint32

var (
	// ErrNodeNotFound is returned when an edge endpoint is not in the graph.
	ErrNodeNotFound = errors.New("asset not in dependency graph")
	// ErrSelfDependency is returned for an edge from a node to itself.
	ErrSelfDependency = errors.New("asset cannot depend on itself")
)

// Edge is a depender→dependency pair.
type Edge struct {
	From asset.Handle `json:"from"`
	To   asset.Handle `json:"to"`
}

// Resolver returns the loaded instance for h, or nil when h is not loaded.
type Resolver func(h asset.Handle) asset.Asset

type node struct {
	handle       asset.Handle
	live         bool
	dependencies map[NodeID]struct{}
	dependents   map[NodeID]struct{}
}

// Graph is a directed graph over asset handles.
type Graph struct {
	mu     sync.RWMutex
	nodes  []node
	free   []NodeID
	index  map[asset.Handle]NodeID
	logger *zap.Logger
}

// New creates an empty graph.
func New(logger *zap.Logger) *Graph {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Graph{
		index:  make(map[asset.Handle]NodeID),
		logger: logger,
	}
}

// AddAssetToGraph inserts h and returns its node. Calling it again for the
// same handle returns the existing node.
func (g *Graph) AddAssetToGraph(h asset.Handle) NodeID {
	if !h.IsValid() {
		return InvalidNode
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if id, ok := g.index[h]; ok {
		return id
	}

	n := node{
		handle:       h,
		live:         true,
		dependencies: make(map[NodeID]struct{}),
		dependents:   make(map[NodeID]struct{}),
	}

	var id NodeID
	if last := len(g.free) - 1; last >= 0 {
		id = g.free[last]
		g.free = g.free[:last]
		g.nodes[id] = n
	} else {
		id = NodeID(len(g.nodes))
		g.nodes = append(g.nodes, n)
	}
	g.index[h] = id
	return id
}

// AddDependencyToAsset records that h depends on dependency. Both must already
// be in the graph; missing endpoints are not inserted.
func (g *Graph) AddDependencyToAsset(h, dependency asset.Handle) error {
	if h == dependency {
		return fmt.Errorf("%w: %s", ErrSelfDependency, h)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	from, okFrom := g.index[h]
	to, okTo := g.index[dependency]
	if !okFrom || !okTo {
		g.logger.Warn("Dependency endpoint missing from graph",
			zap.Stringer("asset", h),
			zap.Stringer("dependency", dependency),
			zap.Bool("asset_found", okFrom),
			zap.Bool("dependency_found", okTo))
		return fmt.Errorf("%w: %s -> %s", ErrNodeNotFound, h, dependency)
	}

	g.nodes[from].dependencies[to] = struct{}{}
	g.nodes[to].dependents[from] = struct{}{}
	return nil
}

// RemoveDependencyFromAsset drops the edge h→dependency if present.
func (g *Graph) RemoveDependencyFromAsset(h, dependency asset.Handle) {
	g.mu.Lock()
	defer g.mu.Unlock()

	from, okFrom := g.index[h]
	to, okTo := g.index[dependency]
	if !okFrom || !okTo {
		return
	}
	delete(g.nodes[from].dependencies, to)
	delete(g.nodes[to].dependents, from)
}

// RemoveAssetFromGraph deletes h and every edge touching it.
func (g *Graph) RemoveAssetFromGraph(h asset.Handle) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	id, ok := g.index[h]
	if !ok {
		return false
	}

	n := &g.nodes[id]
	for dep := range n.dependencies {
		delete(g.nodes[dep].dependents, id)
	}
	for dep := range n.dependents {
		delete(g.nodes[dep].dependencies, id)
	}

	g.nodes[id] = node{}
	g.free = append(g.free, id)
	delete(g.index, h)
	return true
}

// Contains reports whether h has a node.
func (g *Graph) Contains(h asset.Handle) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.index[h]
	return ok
}

// NodeID returns the node of h.
func (g *Graph) NodeID(h asset.Handle) (NodeID, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	id, ok := g.index[h]
	return id, ok
}

// Len returns the number of live nodes.
func (g *Graph) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.index)
}

// GetDependencies returns the direct dependencies of h, sorted.
func (g *Graph) GetDependencies(h asset.Handle) []asset.Handle {
	g.mu.RLock()
	defer g.mu.RUnlock()

	id, ok := g.index[h]
	if !ok {
		return nil
	}
	return g.handlesOf(g.nodes[id].dependencies)
}

// GetAssetsDependentOn returns every asset that references h directly or
// transitively, sorted. h itself is never included.
func (g *Graph) GetAssetsDependentOn(h asset.Handle) []asset.Handle {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.dependentsLocked(h)
}

// Edges returns all edges, ordered by depender then dependency.
func (g *Graph) Edges() []Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var out []Edge
	for i := range g.nodes {
		n := &g.nodes[i]
		if !n.live {
			continue
		}
		for dep := range n.dependencies {
			out = append(out, Edge{From: n.handle, To: g.nodes[dep].handle})
		}
	}
	slices.SortFunc(out, func(a, b Edge) int {
		return cmp.Or(cmp.Compare(a.From, b.From), cmp.Compare(a.To, b.To))
	})
	return out
}

// OnAssetChanged notifies every loaded transitive dependent of h exactly once.
// resolve maps a handle to its loaded instance; dependents it returns nil for
// are skipped. It returns the number of notified assets.
func (g *Graph) OnAssetChanged(h asset.Handle, state asset.ChangedState, resolve Resolver) int {
	g.mu.RLock()
	dependents := g.dependentsLocked(h)
	g.mu.RUnlock()

	notified := 0
	for _, dep := range dependents {
		a := resolve(dep)
		if a == nil {
			continue
		}
		a.OnDependencyChanged(h, state)
		notified++
	}
	return notified
}

func (g *Graph) dependentsLocked(h asset.Handle) []asset.Handle {
	start, ok := g.index[h]
	if !ok {
		return nil
	}

	visited := map[NodeID]struct{}{start: {}}
	stack := []NodeID{start}
	var out []asset.Handle
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for dep := range g.nodes[id].dependents {
			if _, seen := visited[dep]; seen {
				continue
			}
			visited[dep] = struct{}{}
			out = append(out, g.nodes[dep].handle)
			stack = append(stack, dep)
		}
	}
	slices.Sort(out)
	return out
}

func (g *Graph) handlesOf(ids map[NodeID]struct{}) []asset.Handle {
	out := make([]asset.Handle, 0, len(ids))
	for id := range ids {
		out = append(out, g.nodes[id].handle)
	}
	slices.Sort(out)
	return out
}
