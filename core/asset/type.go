package asset

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// ErrTypeRegistered is returned when a GUID is registered twice.
var ErrTypeRegistered = errors.New("asset type already registered")

// Type describes one concrete asset kind.
type Type struct {
	// GUID identifies the kind on disk and in the registries.
	GUID uuid.UUID
	// Name is a human readable label.
	Name string
	// Extensions lists the file extensions (with dot) resolved to this kind.
	// The first one is used when creating new files.
	Extensions []string
	// Source marks kinds backed by raw source files (e.g. an imported mesh)
	// rather than engine asset containers.
	Source bool
	// New constructs an empty instance.
	New func() Asset
}

// TypeRegistry maps GUIDs and extensions to Type descriptors.
type TypeRegistry struct {
	mu     sync.RWMutex
	byGUID map[uuid.UUID]*Type
	byExt  map[string]*Type
}

// NewTypeRegistry creates an empty registry.
func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{
		byGUID: make(map[uuid.UUID]*Type),
		byExt:  make(map[string]*Type),
	}
}

// Register adds t. The first registration of a GUID wins; later ones return
// ErrTypeRegistered and leave the registry untouched. Extensions already
// claimed by another type keep their first owner.
func (r *TypeRegistry) Register(t *Type) error {
	if t == nil || t.GUID == uuid.Nil {
		return fmt.Errorf("asset type must have a non-nil GUID")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.byGUID[t.GUID]; ok {
		return fmt.Errorf("%w: %s (%s)", ErrTypeRegistered, t.GUID, existing.Name)
	}
	r.byGUID[t.GUID] = t
	for _, ext := range t.Extensions {
		key := normalizeExt(ext)
		if _, taken := r.byExt[key]; !taken {
			r.byExt[key] = t
		}
	}
	return nil
}

// Lookup returns the type registered for guid.
func (r *TypeRegistry) Lookup(guid uuid.UUID) (*Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byGUID[guid]
	return t, ok
}

// MustLookup is Lookup for callers that treat an unknown GUID as a
// configuration defect. It panics when guid is not registered.
func (r *TypeRegistry) MustLookup(guid uuid.UUID) *Type {
	t, ok := r.Lookup(guid)
	if !ok {
		panic(fmt.Sprintf("asset: type %s is not registered", guid))
	}
	return t
}

// ByExtension resolves a file extension, with or without the leading dot.
// Matching is case-insensitive.
func (r *TypeRegistry) ByExtension(ext string) (*Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byExt[normalizeExt(ext)]
	return t, ok
}

// Types returns every registered type ordered by name.
func (r *TypeRegistry) Types() []*Type {
	r.mu.RLock()
	out := make([]*Type, 0, len(r.byGUID))
	for _, t := range r.byGUID {
		out = append(out, t)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
