// Package assets implements the asset Manager: the registry of known assets,
// the cache of loaded instances, discovery, and every operation that loads,
// saves or relocates an asset.
//
// # State
//
// The Manager owns five independent lock domains:
//
//   - registry: handle → asset.Metadata
//   - cache: handle → loaded asset.Asset (memory-only assets in a side map)
//   - dependency graph (depgraph.Graph, its own lock)
//   - deferred change queue
//   - changed callbacks
//
// No method holds two of them at once. Serializers, graph propagation and
// change callbacks run with no Manager lock held, so they may call back into
// the Manager (e.g. a material loading its shader).
//
// # Loading
//
// LoadAsset and GetAsset are synchronous. A cached instance is returned
// directly. Otherwise the decode runs inside a singleflight group keyed by the
// handle, so concurrent callers share one Deserialize call.
//
// QueueAsset is the asynchronous variant. It publishes an instance carrying
// asset.FlagQueued into the cache before submitting the decode to the
// scheduler. Every caller that arrives while the decode is pending receives
// that same instance. The flag is cleared once loading finished. A LoadAsset
// call that finds a queued instance joins or performs its decode and returns
// it fully loaded.
//
// Data problems never surface as errors from the load path. They are reported
// through the instance flags: FlagMissing when the file is gone, FlagInvalid
// for unknown metadata, missing serializers, type mismatches and decode
// failures.
//
// # Mutations
//
// Save, Remove, Rename, Move and MoveFolder always update the registry before
// touching the filesystem. Move, Rename and MoveFolder roll the registry back
// when the filesystem operation fails. Remove sends files to the recycle bin.
//
// # Change Notifications
//
// Removed and Updated events for asset types are appended to a queue and
// dispatched by Update, which the host calls once per tick. Callbacks are
// registered per type GUID and run outside every lock.
//
// # Paths
//
// Registry paths are slash separated and relative. Paths whose first segment
// is "Engine" or "Editor" resolve against Config.EngineDir; everything else
// resolves against Config.ProjectDir/Config.AssetsDir.
package assets
