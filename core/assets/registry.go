package assets

import (
	"fmt"
	"path"
	"sort"

	"asset-core/core/asset"

	"github.com/google/uuid"
)

// GetMetadata returns the metadata of h, or asset.NullMetadata.
func (m *Manager) GetMetadata(h asset.Handle) asset.Metadata {
	meta, _ := m.metadata(h)
	return meta
}

// GetMetadataFromPath returns the metadata registered at rel, or asset.NullMetadata.
func (m *Manager) GetMetadataFromPath(rel string) asset.Metadata {
	rel = cleanRel(rel)

	m.registryMu.RLock()
	defer m.registryMu.RUnlock()
	for _, meta := range m.registry {
		if meta.FilePath == rel {
			return meta
		}
	}
	return asset.NullMetadata
}

// GetHandleFromPath returns the handle registered at rel, or asset.NullHandle.
func (m *Manager) GetHandleFromPath(rel string) asset.Handle {
	return m.GetMetadataFromPath(rel).Handle
}

// GetTypeFromHandle returns the registered type of h, or uuid.Nil.
func (m *Manager) GetTypeFromHandle(h asset.Handle) uuid.UUID {
	return m.GetMetadata(h).Type
}

// GetTypeFromPath resolves rel through the registry first and the extension
// table second.
func (m *Manager) GetTypeFromPath(rel string) (uuid.UUID, bool) {
	if meta := m.GetMetadataFromPath(rel); meta.IsValid() {
		return meta.Type, true
	}
	if t, ok := m.types.ByExtension(path.Ext(rel)); ok {
		return t.GUID, true
	}
	return uuid.Nil, false
}

// ExistsInRegistry reports whether h is registered.
func (m *Manager) ExistsInRegistry(h asset.Handle) bool {
	_, ok := m.metadata(h)
	return ok
}

// PathExistsInRegistry reports whether an asset is registered at rel.
func (m *Manager) PathExistsInRegistry(rel string) bool {
	return m.GetMetadataFromPath(rel).IsValid()
}

// IsLoaded reports whether h has finished loading.
func (m *Manager) IsLoaded(h asset.Handle) bool {
	return m.GetMetadata(h).IsLoaded
}

// IsMemoryAsset reports whether h has no backing file.
func (m *Manager) IsMemoryAsset(h asset.Handle) bool {
	return m.GetMetadata(h).IsMemoryAsset
}

// GetAllAssetsOfType returns every registered handle of typ, sorted.
func (m *Manager) GetAllAssetsOfType(typ uuid.UUID) []asset.Handle {
	m.registryMu.RLock()
	var out []asset.Handle
	for h, meta := range m.registry {
		if meta.Type == typ {
			out = append(out, h)
		}
	}
	m.registryMu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// GetCachedAssetsOfType returns the loaded instances of typ, ordered by handle.
func (m *Manager) GetCachedAssetsOfType(typ uuid.UUID) []asset.Asset {
	m.cacheMu.RLock()
	var out []asset.Asset
	for _, src := range []map[asset.Handle]asset.Asset{m.cache, m.memory} {
		for _, a := range src {
			if a.TypeGUID() == typ && !a.HasFlag(asset.FlagQueued) {
				out = append(out, a)
			}
		}
	}
	m.cacheMu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Handle() < out[j].Handle() })
	return out
}

// GetFilePathFromFilename finds the registry path of a file name such as
// "crate.asset". Ties resolve to the lexically smallest path.
func (m *Manager) GetFilePathFromFilename(name string) string {
	m.registryMu.RLock()
	defer m.registryMu.RUnlock()

	found := ""
	for _, meta := range m.registry {
		if path.Base(meta.FilePath) != name {
			continue
		}
		if found == "" || meta.FilePath < found {
			found = meta.FilePath
		}
	}
	return found
}

// Snapshot returns a copy of the registry ordered by path.
func (m *Manager) Snapshot() []asset.Metadata {
	m.registryMu.RLock()
	out := make([]asset.Metadata, 0, len(m.registry))
	for _, meta := range m.registry {
		out = append(out, meta)
	}
	m.registryMu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].FilePath != out[j].FilePath {
			return out[i].FilePath < out[j].FilePath
		}
		return out[i].Handle < out[j].Handle
	})
	return out
}

// AddAssetToRegistry registers h of type typ at rel.
func (m *Manager) AddAssetToRegistry(rel string, h asset.Handle, typ uuid.UUID) error {
	if !h.IsValid() {
		return fmt.Errorf("%w: null handle for %s", ErrInvalidAsset, rel)
	}
	rel = cleanRel(rel)

	m.registryMu.Lock()
	for other, meta := range m.registry {
		if meta.FilePath == rel && other != h {
			m.registryMu.Unlock()
			return fmt.Errorf("%w: %s belongs to %s", ErrPathTaken, rel, other)
		}
	}
	meta := m.registry[h]
	meta.Handle = h
	meta.Type = typ
	meta.FilePath = rel
	m.registry[h] = meta
	m.registryMu.Unlock()

	m.graph.AddAssetToGraph(h)
	return nil
}

// GetOrAddAssetToRegistry returns the handle registered at rel, registering a
// new one of type typ when the path is unknown.
func (m *Manager) GetOrAddAssetToRegistry(rel string, typ uuid.UUID) asset.Handle {
	if h := m.GetHandleFromPath(rel); h.IsValid() {
		return h
	}
	h := asset.NewHandle()
	if err := m.AddAssetToRegistry(rel, h, typ); err != nil {
		// lost a race for the same path
		return m.GetHandleFromPath(rel)
	}
	return h
}

// RemoveAssetFromRegistry forgets h without touching its file.
func (m *Manager) RemoveAssetFromRegistry(h asset.Handle) bool {
	m.registryMu.Lock()
	_, ok := m.registry[h]
	delete(m.registry, h)
	m.registryMu.Unlock()
	if !ok {
		return false
	}

	m.evict(h, nil)
	m.graph.RemoveAssetFromGraph(h)
	return true
}

// RemoveFolderFromRegistry forgets every asset under dir and returns how many
// were removed. Files are not touched.
func (m *Manager) RemoveFolderFromRegistry(dir string) int {
	dir = cleanRel(dir)

	m.registryMu.Lock()
	var removed []asset.Handle
	for h, meta := range m.registry {
		if _, ok := underDir(meta.FilePath, dir); ok {
			removed = append(removed, h)
			delete(m.registry, h)
		}
	}
	m.registryMu.Unlock()

	for _, h := range removed {
		m.evict(h, nil)
		m.graph.RemoveAssetFromGraph(h)
	}
	return len(removed)
}

// MoveAssetInRegistry repoints the asset at src to dst without touching files.
func (m *Manager) MoveAssetInRegistry(src, dst string) bool {
	src, dst = cleanRel(src), cleanRel(dst)

	m.registryMu.Lock()
	defer m.registryMu.Unlock()
	for h, meta := range m.registry {
		if meta.FilePath == src {
			meta.FilePath = dst
			m.registry[h] = meta
			return true
		}
	}
	return false
}

func (m *Manager) metadata(h asset.Handle) (asset.Metadata, bool) {
	m.registryMu.RLock()
	defer m.registryMu.RUnlock()
	meta, ok := m.registry[h]
	return meta, ok
}

func (m *Manager) updateMetadata(h asset.Handle, fn func(meta *asset.Metadata)) bool {
	m.registryMu.Lock()
	defer m.registryMu.Unlock()
	meta, ok := m.registry[h]
	if !ok {
		return false
	}
	fn(&meta)
	m.registry[h] = meta
	return true
}

// updatePath moves h from old to rel unless rel belongs to another asset.
func (m *Manager) updatePath(h asset.Handle, old, rel string) error {
	m.registryMu.Lock()
	defer m.registryMu.Unlock()

	meta, ok := m.registry[h]
	if !ok || meta.FilePath != old {
		return fmt.Errorf("%w: %s", ErrNotRegistered, h)
	}
	for other, o := range m.registry {
		if o.FilePath == rel && other != h {
			return fmt.Errorf("%w: %s", ErrPathTaken, rel)
		}
	}
	meta.FilePath = rel
	m.registry[h] = meta
	return nil
}
