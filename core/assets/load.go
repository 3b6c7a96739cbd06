package assets

import (
	"errors"

	"asset-core/core/asset"
	"asset-core/core/serializer"

	"go.uber.org/zap"
)

// LoadAsset returns the loaded instance of h. When h is not cached yet dst is
// filled and published; dst may be nil to construct an instance from the
// type registry. Failures are reported through the returned instance's flags.
// It returns nil only when no instance could be constructed.
func (m *Manager) LoadAsset(h asset.Handle, dst asset.Asset) asset.Asset {
	if a, ok := m.cachedAsset(h); ok && !a.HasFlag(asset.FlagQueued) {
		return a
	}
	return m.loadOnce(h, dst)
}

// GetAsset loads h into a new instance of its registered type.
func (m *Manager) GetAsset(h asset.Handle) asset.Asset {
	return m.LoadAsset(h, nil)
}

// GetAssetByPath loads the asset registered at rel. It returns nil when
// nothing is registered there.
func (m *Manager) GetAssetByPath(rel string) asset.Asset {
	h := m.GetHandleFromPath(rel)
	if !h.IsValid() {
		return nil
	}
	return m.GetAsset(h)
}

// Get loads h and asserts its concrete type.
func Get[T asset.Asset](m *Manager, h asset.Handle) (T, bool) {
	var zero T
	a := m.GetAsset(h)
	if a == nil {
		return zero, false
	}
	t, ok := a.(T)
	return t, ok
}

// QueueAsset starts loading h in the background and returns immediately. The
// returned instance carries asset.FlagQueued until the load has finished;
// concurrent callers receive the same instance. It returns nil when h is not
// registered or its type cannot be constructed.
func (m *Manager) QueueAsset(h asset.Handle) asset.Asset {
	if a, ok := m.cachedAsset(h); ok {
		return a
	}

	meta, ok := m.metadata(h)
	if !ok {
		return nil
	}
	inst := m.newInstance(meta.Type)
	if inst == nil {
		return nil
	}
	inst.SetHandle(h)
	inst.SetName(stem(meta.FilePath))
	inst.SetFlag(asset.FlagQueued, true)

	m.cacheMu.Lock()
	if existing, ok := m.cache[h]; ok {
		m.cacheMu.Unlock()
		return existing
	}
	m.cache[h] = inst
	m.cacheMu.Unlock()

	m.updateMetadata(h, func(meta *asset.Metadata) { meta.IsQueued = true })

	m.scheduler.Submit(func() {
		if a := m.loadOnce(h, inst); a != nil {
			m.QueueAssetChanged(h, meta.Type, asset.ChangedUpdated)
		}
	})
	return inst
}

// Unload drops the cached instance of h. The metadata stays registered.
func (m *Manager) Unload(h asset.Handle) bool {
	if !m.ExistsInRegistry(h) {
		return false
	}

	m.cacheMu.Lock()
	_, ok := m.cache[h]
	delete(m.cache, h)
	m.cacheMu.Unlock()
	if !ok {
		return false
	}

	m.updateMetadata(h, func(meta *asset.Metadata) {
		meta.IsLoaded = false
		meta.IsQueued = false
	})
	return true
}

// ReloadAsset unloads h and loads it again from disk.
func (m *Manager) ReloadAsset(h asset.Handle) asset.Asset {
	m.Unload(h)
	a := m.GetAsset(h)
	if a != nil && a.IsValid() {
		m.QueueAssetChanged(h, a.TypeGUID(), asset.ChangedUpdated)
	}
	return a
}

// ReloadAssetByPath reloads the asset registered at rel.
func (m *Manager) ReloadAssetByPath(rel string) asset.Asset {
	h := m.GetHandleFromPath(rel)
	if !h.IsValid() {
		return nil
	}
	return m.ReloadAsset(h)
}

func (m *Manager) loadOnce(h asset.Handle, dst asset.Asset) asset.Asset {
	v, _, _ := m.loads.Do(h.String(), func() (any, error) {
		target, loaded := m.claim(h, dst)
		if loaded {
			return target, nil
		}
		if target != nil && target.HasFlag(asset.FlagQueued) {
			m.updateMetadata(h, func(meta *asset.Metadata) { meta.IsQueued = true })
		}
		return m.decode(h, target), nil
	})
	a, _ := v.(asset.Asset)
	return a
}

// claim picks the instance a load of h decodes into. A Queued instance already
// in the cache is adopted; otherwise dst (or a new instance) is published as
// Queued before decoding so QueueAsset and later callers share it. loaded
// reports that h needs no decode.
func (m *Manager) claim(h asset.Handle, dst asset.Asset) (target asset.Asset, loaded bool) {
	meta, registered := m.metadata(h)

	m.cacheMu.Lock()
	defer m.cacheMu.Unlock()
	if a, ok := m.memory[h]; ok {
		return a, true
	}
	if a, ok := m.cache[h]; ok {
		return a, !a.HasFlag(asset.FlagQueued)
	}
	if !registered {
		return dst, false
	}

	if dst == nil {
		if dst = m.newInstance(meta.Type); dst == nil {
			return nil, false
		}
	} else if dst.TypeGUID() != meta.Type {
		// decode rejects it; never expose a mismatched instance.
		return dst, false
	}
	dst.SetHandle(h)
	dst.SetName(stem(meta.FilePath))
	dst.SetFlag(asset.FlagQueued, true)
	m.cache[h] = dst
	return dst, false
}

// decode runs the slow load path for h into target.
func (m *Manager) decode(h asset.Handle, target asset.Asset) asset.Asset {
	meta, registered := m.metadata(h)
	if target == nil {
		if !registered {
			return nil
		}
		if target = m.newInstance(meta.Type); target == nil {
			return nil
		}
	}

	fail := func(flag asset.Flag, reason string, err error) asset.Asset {
		target.SetFlag(flag, true)
		target.SetFlag(asset.FlagQueued, false)
		m.evict(h, target)
		m.updateMetadata(h, func(meta *asset.Metadata) { meta.IsQueued = false })
		m.logger.Warn("Failed to load asset",
			zap.Stringer("handle", h),
			zap.String("path", meta.FilePath),
			zap.String("reason", reason),
			zap.Error(err))
		return target
	}

	if !registered {
		return fail(asset.FlagInvalid, "not registered", nil)
	}
	if target.TypeGUID() != meta.Type {
		return fail(asset.FlagInvalid, "type mismatch", nil)
	}
	if !m.serializers.HasSerializer(meta.Type) {
		return fail(asset.FlagInvalid, "no serializer", nil)
	}

	m.graph.AddAssetToGraph(h)
	target.SetHandle(h)
	target.SetName(stem(meta.FilePath))

	if err := m.serializers.GetSerializer(meta.Type).Deserialize(m, meta, target); err != nil {
		if errors.Is(err, serializer.ErrMissing) {
			return fail(asset.FlagMissing, "missing file", err)
		}
		return fail(asset.FlagInvalid, "deserialize", err)
	}

	m.updateMetadata(h, func(meta *asset.Metadata) {
		meta.IsLoaded = true
		meta.IsQueued = false
	})
	target.SetFlag(asset.FlagQueued, false)
	m.graph.OnAssetChanged(h, asset.ChangedUpdated, m.loadedAsset)
	m.publish(h, target)

	m.logger.Debug("Loaded asset", zap.Stringer("handle", h), zap.String("path", meta.FilePath))
	return target
}

func (m *Manager) cachedAsset(h asset.Handle) (asset.Asset, bool) {
	m.cacheMu.RLock()
	defer m.cacheMu.RUnlock()
	if a, ok := m.memory[h]; ok {
		return a, true
	}
	a, ok := m.cache[h]
	return a, ok
}

// loadedAsset resolves h for dependency propagation: only fully loaded
// instances are notified.
func (m *Manager) loadedAsset(h asset.Handle) asset.Asset {
	a, ok := m.cachedAsset(h)
	if !ok || a.HasFlag(asset.FlagQueued) {
		return nil
	}
	return a
}

func (m *Manager) publish(h asset.Handle, a asset.Asset) {
	m.cacheMu.Lock()
	m.cache[h] = a
	m.cacheMu.Unlock()
}

// evict removes h from the cache. A non-nil a only evicts that instance.
func (m *Manager) evict(h asset.Handle, a asset.Asset) {
	m.cacheMu.Lock()
	defer m.cacheMu.Unlock()
	if cur, ok := m.cache[h]; ok && (a == nil || cur == a) {
		delete(m.cache, h)
	}
	if a == nil {
		delete(m.memory, h)
	}
}
