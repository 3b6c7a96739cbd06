package inspect

import (
	"context"
	"errors"

	"asset-core/core/asset"
	"asset-core/core/assets"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrNotFound is returned for handles missing from the registry.
var ErrNotFound = errors.New("asset not found")

// Service answers inspection queries against a Manager.
type Service struct {
	manager *assets.Manager
	logger  *zap.Logger
}

// NewService creates a new inspect service.
func NewService(manager *assets.Manager, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{manager: manager, logger: logger}
}

// List returns registry records, optionally restricted to one type.
func (s *Service) List(typ uuid.UUID) []asset.Metadata {
	all := s.manager.Snapshot()
	if typ == uuid.Nil {
		return all
	}
	out := make([]asset.Metadata, 0, len(all))
	for _, m := range all {
		if m.Type == typ {
			out = append(out, m)
		}
	}
	return out
}

// Get returns the record of h.
func (s *Service) Get(h asset.Handle) (asset.Metadata, error) {
	meta := s.manager.GetMetadata(h)
	if !meta.IsValid() {
		return asset.NullMetadata, ErrNotFound
	}
	return meta, nil
}

func (s *Service) Dependents(h asset.Handle) ([]asset.Handle, error) {
	if !s.manager.ExistsInRegistry(h) {
		return nil, ErrNotFound
	}
	return nonNil(s.manager.GetAssetsDependentOn(h)), nil
}

func (s *Service) Dependencies(h asset.Handle) ([]asset.Handle, error) {
	if !s.manager.ExistsInRegistry(h) {
		return nil, ErrNotFound
	}
	return nonNil(s.manager.GetDependencies(h)), nil
}

// Reload reloads h and returns the flags of the new instance.
func (s *Service) Reload(h asset.Handle) (asset.Flag, error) {
	if !s.manager.ExistsInRegistry(h) {
		return 0, ErrNotFound
	}
	a := s.manager.ReloadAsset(h)
	if a == nil {
		return 0, ErrNotFound
	}
	return a.Flags(), nil
}

// Unload drops the cached instance of h and reports whether one existed.
func (s *Service) Unload(h asset.Handle) (bool, error) {
	if !s.manager.ExistsInRegistry(h) {
		return false, ErrNotFound
	}
	return s.manager.Unload(h), nil
}

func (s *Service) Rescan(ctx context.Context) (assets.ScanReport, error) {
	return s.manager.Scan(ctx)
}

func nonNil(hs []asset.Handle) []asset.Handle {
	if hs == nil {
		return []asset.Handle{}
	}
	return hs
}
