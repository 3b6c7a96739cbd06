package serializer

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"asset-core/core/asset"
	"asset-core/core/binstream"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// ErrSerializerRegistered is returned when a GUID already has a serializer.
var ErrSerializerRegistered = errors.New("serializer already registered")

// Host is the part of the asset manager a serializer may call back into.
// Calls are made without any manager lock held.
type Host interface {
	// Fs is the filesystem asset files live on.
	Fs() afero.Fs
	// FilesystemPath resolves a registry path to a filesystem path.
	FilesystemPath(rel string) string
	// Compression is the codec new files are written with.
	Compression() binstream.Compression
	// GetAsset loads a nested asset.
	GetAsset(h asset.Handle) asset.Asset
	// AddDependencyToAsset records that h references dependency.
	AddDependencyToAsset(h, dependency asset.Handle) error
}

// Serializer encodes and decodes one asset kind.
type Serializer interface {
	Serialize(host Host, meta asset.Metadata, a asset.Asset) error
	Deserialize(host Host, meta asset.Metadata, a asset.Asset) error
}

// Registry maps type GUIDs to serializers.
type Registry struct {
	mu          sync.RWMutex
	serializers map[uuid.UUID]Serializer
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{serializers: make(map[uuid.UUID]Serializer)}
}

// RegisterSerializer registers s for guid unless guid already has one.
func (r *Registry) RegisterSerializer(guid uuid.UUID, s Serializer) error {
	if s == nil {
		return fmt.Errorf("nil serializer for %s", guid)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.serializers[guid]; ok {
		return fmt.Errorf("%w: %s", ErrSerializerRegistered, guid)
	}
	r.serializers[guid] = s
	return nil
}

// HasSerializer reports whether guid has a serializer.
func (r *Registry) HasSerializer(guid uuid.UUID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.serializers[guid]
	return ok
}

// GetSerializer returns the serializer for guid and panics if there is none.
func (r *Registry) GetSerializer(guid uuid.UUID) Serializer {
	r.mu.RLock()
	s, ok := r.serializers[guid]
	r.mu.RUnlock()
	if !ok {
		panic(fmt.Sprintf("serializer: no serializer registered for %s", guid))
	}
	return s
}

// Registered lists the GUIDs with a serializer, sorted.
func (r *Registry) Registered() []uuid.UUID {
	r.mu.RLock()
	out := make([]uuid.UUID, 0, len(r.serializers))
	for guid := range r.serializers {
		out = append(out, guid)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}
