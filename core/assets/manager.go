package assets

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"asset-core/core/asset"
	"asset-core/core/binstream"
	"asset-core/core/depgraph"
	"asset-core/core/jobs"
	"asset-core/core/serializer"
	"asset-core/core/vfs"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Errors returned by Manager operations.
var (
	ErrNotRegistered = errors.New("asset not registered")
	ErrInvalidAsset  = errors.New("invalid asset")
	ErrNoSerializer  = errors.New("no serializer for asset type")
	ErrUnknownType   = errors.New("unknown asset type")
	ErrTypeMismatch  = errors.New("asset type does not match metadata")
	ErrPathTaken     = errors.New("path already registered")
	ErrMemoryAsset   = errors.New("memory assets have no file")
)

// Scheduler runs background tasks.
type Scheduler interface {
	Submit(fn func()) *jobs.Future
}

// Manager indexes, loads and mutates assets.
type Manager struct {
	cfg         Config
	compression binstream.Compression
	types       *asset.TypeRegistry
	serializers *serializer.Registry
	graph       *depgraph.Graph
	fs          vfs.FileSystem
	scheduler   Scheduler
	logger      *zap.Logger

	registryMu sync.RWMutex
	registry   map[asset.Handle]asset.Metadata

	cacheMu sync.RWMutex
	cache   map[asset.Handle]asset.Asset
	memory  map[asset.Handle]asset.Asset

	loads singleflight.Group

	changedMu sync.Mutex
	changed   []ChangeEvent

	callbacksMu sync.RWMutex
	callbacks   map[uuid.UUID][]callbackEntry
}

// NewManager creates a Manager. Types and serializers must be registered by
// the caller; the Manager only reads them.
func NewManager(cfg Config, types *asset.TypeRegistry, serializers *serializer.Registry, fs vfs.FileSystem, scheduler Scheduler, logger *zap.Logger) (*Manager, error) {
	compression, err := cfg.CompressionMode()
	if err != nil {
		return nil, err
	}
	if cfg.Extension == "" {
		cfg.Extension = ".asset"
	}
	if !strings.HasPrefix(cfg.Extension, ".") {
		cfg.Extension = "." + cfg.Extension
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Manager{
		cfg:         cfg,
		compression: compression,
		types:       types,
		serializers: serializers,
		graph:       depgraph.New(logger),
		fs:          fs,
		scheduler:   scheduler,
		logger:      logger,
		registry:    make(map[asset.Handle]asset.Metadata),
		cache:       make(map[asset.Handle]asset.Asset),
		memory:      make(map[asset.Handle]asset.Asset),
		callbacks:   make(map[uuid.UUID][]callbackEntry),
	}, nil
}

// Config returns the configuration the Manager was built with.
func (m *Manager) Config() Config {
	return m.cfg
}

// Types returns the type registry.
func (m *Manager) Types() *asset.TypeRegistry {
	return m.types
}

// Fs returns the filesystem asset files are read from.
func (m *Manager) Fs() afero.Fs {
	return m.fs.Fs()
}

// Compression returns the codec new files are written with.
func (m *Manager) Compression() binstream.Compression {
	return m.compression
}

// IsEngineAsset reports whether rel lives in the engine or editor folders.
func (m *Manager) IsEngineAsset(rel string) bool {
	first, _, _ := strings.Cut(cleanRel(rel), "/")
	return strings.EqualFold(first, "engine") || strings.EqualFold(first, "editor")
}

// ContextPath returns the directory rel is resolved against.
func (m *Manager) ContextPath(rel string) string {
	if m.cfg.EngineDir != "" && m.IsEngineAsset(rel) {
		return filepath.Clean(m.cfg.EngineDir)
	}
	return m.assetsRoot()
}

// FilesystemPath resolves a registry path to a filesystem path.
func (m *Manager) FilesystemPath(rel string) string {
	return filepath.Join(m.ContextPath(rel), filepath.FromSlash(cleanRel(rel)))
}

// RelativePath turns a filesystem path into a registry path.
func (m *Manager) RelativePath(abs string) (string, error) {
	if m.cfg.EngineDir != "" {
		if rel, err := filepath.Rel(m.cfg.EngineDir, abs); err == nil && m.IsEngineAsset(filepath.ToSlash(rel)) {
			return cleanRel(filepath.ToSlash(rel)), nil
		}
	}
	rel, err := filepath.Rel(m.assetsRoot(), abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s is outside the asset directories", abs)
	}
	return cleanRel(filepath.ToSlash(rel)), nil
}

func (m *Manager) assetsRoot() string {
	return filepath.Join(m.cfg.ProjectDir, m.cfg.AssetsDir)
}

// AddDependencyToAsset records that h references dependency. Both must be
// registered already.
func (m *Manager) AddDependencyToAsset(h, dependency asset.Handle) error {
	return m.graph.AddDependencyToAsset(h, dependency)
}

// RemoveDependencyFromAsset drops the edge h→dependency.
func (m *Manager) RemoveDependencyFromAsset(h, dependency asset.Handle) {
	m.graph.RemoveDependencyFromAsset(h, dependency)
}

// GetAssetsDependentOn returns every asset that references h, transitively.
func (m *Manager) GetAssetsDependentOn(h asset.Handle) []asset.Handle {
	return m.graph.GetAssetsDependentOn(h)
}

// GetDependencies returns the assets h references directly.
func (m *Manager) GetDependencies(h asset.Handle) []asset.Handle {
	return m.graph.GetDependencies(h)
}

// DependencyEdges returns every edge of the dependency graph.
func (m *Manager) DependencyEdges() []depgraph.Edge {
	return m.graph.Edges()
}

// InGraph reports whether h has a dependency graph node.
func (m *Manager) InGraph(h asset.Handle) bool {
	return m.graph.Contains(h)
}

// ValidateAssetType panics when a is not of the type registered for h.
func (m *Manager) ValidateAssetType(h asset.Handle, a asset.Asset) {
	meta := m.GetMetadata(h)
	if meta.IsValid() && a.TypeGUID() != meta.Type {
		panic(fmt.Sprintf("assets: %s is registered as %s but instance is %s", h, meta.Type, a.TypeGUID()))
	}
}

func (m *Manager) newInstance(typ uuid.UUID) asset.Asset {
	t, ok := m.types.Lookup(typ)
	if !ok || t.New == nil {
		m.logger.Warn("No constructor for asset type", zap.Stringer("type", typ))
		return nil
	}
	return t.New()
}

func (m *Manager) extensionFor(typ uuid.UUID) string {
	if t, ok := m.types.Lookup(typ); ok && len(t.Extensions) > 0 {
		return t.Extensions[0]
	}
	return m.cfg.Extension
}

func cleanRel(p string) string {
	p = path.Clean(filepath.ToSlash(p))
	p = strings.TrimPrefix(p, "/")
	if p == "." {
		return ""
	}
	return p
}

func joinRel(dir, name string) string {
	return cleanRel(path.Join(cleanRel(dir), name))
}

// underDir returns p relative to dir when p lies inside dir.
func underDir(p, dir string) (string, bool) {
	if dir == "" {
		return p, true
	}
	if rest, ok := strings.CutPrefix(p, dir+"/"); ok {
		return rest, true
	}
	return "", false
}

func stem(p string) string {
	base := path.Base(p)
	return strings.TrimSuffix(base, path.Ext(base))
}
