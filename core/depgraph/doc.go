// Package depgraph tracks which assets reference which others.
//
// Nodes map 1:1 to asset handles and live in an arena slice addressed by a
// NodeID. A NodeID never changes while its node is alive. Freed slots are
// reused for later nodes. Edges point from a depender to its dependency and
// are stored in both directions so dependents can be found without a scan.
//
// The graph drives change propagation only. Loading an asset never loads its
// dependencies.
//
// # Propagation
//
// OnAssetChanged walks the reverse edges from the changed handle, collecting
// every transitive dependent once, even across cycles. The walk runs under the
// read lock. The callbacks run after the lock is released, so an asset reacting
// to a change may call back into the graph.
//
// # Locking
//
// A single RWMutex guards the graph: queries take the read lock, structural
// edits the write lock. It is independent of every asset manager lock.
package depgraph
