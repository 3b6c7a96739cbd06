package assets

import (
	"errors"
	"fmt"
	"os"
	"path"
	"strings"

	"asset-core/core/asset"

	"go.uber.org/zap"
)

// SaveAsset serializes a to the path it is registered at. An asset without a
// handle receives a new one and a path derived from its name.
func (m *Manager) SaveAsset(a asset.Asset) error {
	if meta, ok := m.metadata(a.Handle()); ok {
		return m.save(a, meta.FilePath)
	}
	if a.Name() == "" {
		return fmt.Errorf("%w: unnamed asset has no path", ErrInvalidAsset)
	}
	return m.save(a, a.Name()+m.extensionFor(a.TypeGUID()))
}

// SaveAssetAs serializes a to rel and registers it there.
func (m *Manager) SaveAssetAs(a asset.Asset, rel string) error {
	return m.save(a, rel)
}

func (m *Manager) save(a asset.Asset, rel string) error {
	if a == nil || !a.IsValid() {
		return ErrInvalidAsset
	}
	typ := a.TypeGUID()
	if _, ok := m.types.Lookup(typ); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownType, typ)
	}
	if !m.serializers.HasSerializer(typ) {
		return fmt.Errorf("%w: %s", ErrNoSerializer, typ)
	}
	if !a.Handle().IsValid() {
		a.SetHandle(asset.NewHandle())
	}
	h := a.Handle()
	rel = cleanRel(rel)

	m.registryMu.Lock()
	prev, existed := m.registry[h]
	if existed && prev.IsMemoryAsset {
		m.registryMu.Unlock()
		return fmt.Errorf("%w: %s", ErrMemoryAsset, h)
	}
	if existed && prev.Type != typ {
		m.registryMu.Unlock()
		return fmt.Errorf("%w: %s", ErrTypeMismatch, h)
	}
	for other, meta := range m.registry {
		if meta.FilePath == rel && other != h {
			m.registryMu.Unlock()
			return fmt.Errorf("%w: %s", ErrPathTaken, rel)
		}
	}
	meta := asset.Metadata{Handle: h, Type: typ, FilePath: rel, IsLoaded: true}
	m.registry[h] = meta
	m.registryMu.Unlock()

	m.graph.AddAssetToGraph(h)

	if err := m.serializers.GetSerializer(typ).Serialize(m, meta, a); err != nil {
		m.registryMu.Lock()
		if existed {
			m.registry[h] = prev
		} else {
			delete(m.registry, h)
		}
		m.registryMu.Unlock()
		if !existed {
			m.graph.RemoveAssetFromGraph(h)
		}
		return fmt.Errorf("failed to save %s: %w", rel, err)
	}

	if a.Name() == "" {
		a.SetName(stem(rel))
	}
	a.SetFlag(asset.FlagMissing|asset.FlagInvalid|asset.FlagQueued, false)
	m.publish(h, a)
	m.graph.OnAssetChanged(h, asset.ChangedUpdated, m.loadedAsset)
	m.QueueAssetChanged(h, typ, asset.ChangedUpdated)

	m.logger.Debug("Saved asset", zap.Stringer("handle", h), zap.String("path", rel))
	return nil
}

// CreateAsset registers a as a new asset at dir/name and caches it. Nothing is
// written until the asset is saved.
func (m *Manager) CreateAsset(dir, name string, a asset.Asset) (asset.Metadata, error) {
	if a == nil {
		return asset.NullMetadata, ErrInvalidAsset
	}
	name = strings.ReplaceAll(name, ":", "")
	if name == "" {
		return asset.NullMetadata, fmt.Errorf("%w: empty name", ErrInvalidAsset)
	}
	typ := a.TypeGUID()
	if _, ok := m.types.Lookup(typ); !ok {
		return asset.NullMetadata, fmt.Errorf("%w: %s", ErrUnknownType, typ)
	}

	h := asset.NewHandle()
	rel := joinRel(dir, name+m.extensionFor(typ))
	if err := m.AddAssetToRegistry(rel, h, typ); err != nil {
		return asset.NullMetadata, err
	}
	m.updateMetadata(h, func(meta *asset.Metadata) { meta.IsLoaded = true })

	a.SetHandle(h)
	a.SetName(name)
	m.publish(h, a)
	return m.GetMetadata(h), nil
}

// CreateMemoryAsset registers a without a backing file.
func (m *Manager) CreateMemoryAsset(name string, a asset.Asset) asset.Handle {
	h := asset.NewHandle()
	a.SetHandle(h)
	a.SetName(name)

	m.registryMu.Lock()
	m.registry[h] = asset.Metadata{
		Handle:        h,
		Type:          a.TypeGUID(),
		IsLoaded:      true,
		IsMemoryAsset: true,
	}
	m.registryMu.Unlock()

	m.cacheMu.Lock()
	m.memory[h] = a
	m.cacheMu.Unlock()

	m.graph.AddAssetToGraph(h)
	return h
}

// RemoveAsset forgets h, notifies its dependents and sends its file to the
// recycle bin.
func (m *Manager) RemoveAsset(h asset.Handle) error {
	m.registryMu.Lock()
	meta, ok := m.registry[h]
	delete(m.registry, h)
	m.registryMu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotRegistered, h)
	}

	m.evict(h, nil)
	m.graph.OnAssetChanged(h, asset.ChangedRemoved, m.loadedAsset)
	m.QueueAssetChanged(h, meta.Type, asset.ChangedRemoved)
	m.graph.RemoveAssetFromGraph(h)

	if meta.IsMemoryAsset {
		return nil
	}
	p := m.FilesystemPath(meta.FilePath)
	if !m.fs.Exists(p) {
		m.logger.Debug("Removed asset without file", zap.Stringer("handle", h), zap.String("path", meta.FilePath))
		return nil
	}
	if err := m.fs.MoveToRecycleBin(p); err != nil {
		return fmt.Errorf("failed to recycle %s: %w", meta.FilePath, err)
	}
	m.logger.Info("Removed asset", zap.Stringer("handle", h), zap.String("path", meta.FilePath))
	return nil
}

// RemoveAssetByPath removes the asset registered at rel.
func (m *Manager) RemoveAssetByPath(rel string) error {
	h := m.GetHandleFromPath(rel)
	if !h.IsValid() {
		return fmt.Errorf("%w: %s", ErrNotRegistered, rel)
	}
	return m.RemoveAsset(h)
}

// RenameAsset renames the file of h within its directory. newName keeps the
// current extension when it has none.
func (m *Manager) RenameAsset(h asset.Handle, newName string) error {
	meta, ok := m.metadata(h)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotRegistered, h)
	}
	if meta.IsMemoryAsset {
		return fmt.Errorf("%w: %s", ErrMemoryAsset, h)
	}
	newName = strings.ReplaceAll(newName, ":", "")
	if newName == "" || strings.ContainsAny(newName, `/\`) {
		return fmt.Errorf("%w: invalid name %q", ErrInvalidAsset, newName)
	}
	if path.Ext(newName) == "" {
		newName += path.Ext(meta.FilePath)
	}

	old := meta.FilePath
	rel := joinRel(path.Dir(old), newName)
	if err := m.updatePath(h, old, rel); err != nil {
		return err
	}
	oldName := ""
	if a, ok := m.cachedAsset(h); ok {
		oldName = a.Name()
		a.SetName(stem(rel))
	}

	if err := m.fs.Rename(m.FilesystemPath(old), newName); err != nil {
		_ = m.updatePath(h, rel, old)
		if a, ok := m.cachedAsset(h); ok && oldName != "" {
			a.SetName(oldName)
		}
		return fmt.Errorf("failed to rename %s: %w", old, err)
	}
	return nil
}

// MoveAsset moves the file of h into targetDir.
func (m *Manager) MoveAsset(h asset.Handle, targetDir string) error {
	meta, ok := m.metadata(h)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotRegistered, h)
	}
	if meta.IsMemoryAsset {
		return fmt.Errorf("%w: %s", ErrMemoryAsset, h)
	}

	old := meta.FilePath
	rel := joinRel(targetDir, path.Base(old))
	if rel == old {
		return nil
	}
	if err := m.updatePath(h, old, rel); err != nil {
		return err
	}
	if err := m.fs.Move(m.FilesystemPath(old), m.FilesystemPath(rel)); err != nil {
		_ = m.updatePath(h, rel, old)
		return fmt.Errorf("failed to move %s: %w", old, err)
	}
	return nil
}

// MoveFolder moves srcDir to dstDir on disk and repoints every asset under
// it. Matching is segment aligned: moving "Tex" leaves "Textures" alone.
func (m *Manager) MoveFolder(srcDir, dstDir string) error {
	srcDir, dstDir = cleanRel(srcDir), cleanRel(dstDir)
	if srcDir == "" || srcDir == dstDir {
		return fmt.Errorf("invalid folder move %q -> %q", srcDir, dstDir)
	}
	if _, inside := underDir(dstDir, srcDir); inside {
		return fmt.Errorf("cannot move %s into itself", srcDir)
	}

	m.registryMu.Lock()
	moved := make(map[asset.Handle]string)
	for h, meta := range m.registry {
		if rest, ok := underDir(meta.FilePath, srcDir); ok && !meta.IsMemoryAsset {
			moved[h] = meta.FilePath
			meta.FilePath = joinRel(dstDir, rest)
			m.registry[h] = meta
		}
	}
	m.registryMu.Unlock()

	err := m.fs.Move(m.FilesystemPath(srcDir), m.FilesystemPath(dstDir))
	if err == nil {
		m.logger.Info("Moved folder",
			zap.String("from", srcDir),
			zap.String("to", dstDir),
			zap.Int("assets", len(moved)))
		return nil
	}

	m.registryMu.Lock()
	for h, old := range moved {
		if meta, ok := m.registry[h]; ok {
			meta.FilePath = old
			m.registry[h] = meta
		}
	}
	m.registryMu.Unlock()
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("folder %s does not exist: %w", srcDir, err)
	}
	return fmt.Errorf("failed to move %s: %w", srcDir, err)
}

// RenameAssetFolder renames the last segment of dir to newName.
func (m *Manager) RenameAssetFolder(dir, newName string) error {
	dir = cleanRel(dir)
	if dir == "" {
		return fmt.Errorf("%w: cannot rename the asset root", ErrInvalidAsset)
	}
	newName = strings.ReplaceAll(newName, ":", "")
	if newName == "" || newName == "." || newName == ".." || strings.ContainsAny(newName, `/\`) {
		return fmt.Errorf("%w: invalid folder name %q", ErrInvalidAsset, newName)
	}
	return m.MoveFolder(dir, joinRel(path.Dir(dir), newName))
}
