package catalog

import (
	"context"
	"fmt"
	"sort"

	"asset-core/core/asset"
	"asset-core/core/database"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const batchSize = 500

// Source provides the registry records to catalog.
type Source interface {
	Snapshot() []asset.Metadata
}

// SyncResult summarizes one Sync.
type SyncResult struct {
	Upserted int   `json:"upserted"`
	Deleted  int64 `json:"deleted"`
}

// Move is an asset whose catalogued path differs from the registry.
type Move struct {
	Handle       string `json:"handle"`
	CatalogPath  string `json:"catalog_path"`
	RegistryPath string `json:"registry_path"`
}

// Report is the difference between the registry and the catalog.
type Report struct {
	// Missing holds registered handles without a row.
	Missing []string `json:"missing"`
	// Stale holds rows whose handle is no longer registered.
	Stale []string `json:"stale"`
	Moved []Move   `json:"moved"`
}

// InSync reports whether the catalog matches the registry.
func (r Report) InSync() bool {
	return len(r.Missing) == 0 && len(r.Stale) == 0 && len(r.Moved) == 0
}

// Service reads and writes the catalog table.
type Service struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewService creates a new catalog service.
func NewService(db *gorm.DB, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{db: db, logger: logger}
}

// Migrate creates or updates the catalog table.
func (s *Service) Migrate() error {
	if err := s.db.AutoMigrate(&AssetRecord{}); err != nil {
		return fmt.Errorf("failed to migrate %s: %w", TableName, err)
	}
	return nil
}

// CheckSchema returns the catalog columns missing from the database.
func (s *Service) CheckSchema() ([]string, error) {
	return database.MissingColumns(s.db, TableName, Columns)
}

// Sync upserts a row per file-backed asset and deletes rows for handles that
// are no longer registered, in one transaction. Both steps run in chunks of
// batchSize so large registries stay under the driver's placeholder limit.
func (s *Service) Sync(ctx context.Context, metas []asset.Metadata) (SyncResult, error) {
	records := toRecords(metas)
	registered := make(map[string]struct{}, len(records))
	for _, r := range records {
		registered[r.Handle] = struct{}{}
	}

	var result SyncResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(records) > 0 {
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "handle"}},
				DoUpdates: clause.AssignmentColumns([]string{"type", "path", "updated_at"}),
			}).CreateInBatches(records, batchSize).Error
			if err != nil {
				return fmt.Errorf("upsert: %w", err)
			}
		}

		var existing []string
		if err := tx.Model(&AssetRecord{}).Pluck("handle", &existing).Error; err != nil {
			return fmt.Errorf("list handles: %w", err)
		}
		stale := make([]string, 0)
		for _, h := range existing {
			if _, ok := registered[h]; !ok {
				stale = append(stale, h)
			}
		}

		for start := 0; start < len(stale); start += batchSize {
			chunk := stale[start:min(start+batchSize, len(stale))]
			res := tx.Where("handle IN ?", chunk).Delete(&AssetRecord{})
			if res.Error != nil {
				return fmt.Errorf("delete stale: %w", res.Error)
			}
			result.Deleted += res.RowsAffected
		}
		return nil
	})
	if err != nil {
		return SyncResult{}, fmt.Errorf("catalog sync failed: %w", err)
	}

	result.Upserted = len(records)
	s.logger.Info("Catalog synced",
		zap.Int("upserted", result.Upserted),
		zap.Int64("deleted", result.Deleted))
	return result, nil
}

// Diff compares metas with the catalog rows.
func (s *Service) Diff(ctx context.Context, metas []asset.Metadata) (Report, error) {
	var rows []AssetRecord
	if err := s.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return Report{}, fmt.Errorf("failed to read %s: %w", TableName, err)
	}

	catalogued := make(map[string]AssetRecord, len(rows))
	for _, r := range rows {
		catalogued[r.Handle] = r
	}

	report := Report{Missing: []string{}, Stale: []string{}, Moved: []Move{}}
	registered := make(map[string]struct{}, len(metas))
	for _, r := range toRecords(metas) {
		registered[r.Handle] = struct{}{}
		row, ok := catalogued[r.Handle]
		switch {
		case !ok:
			report.Missing = append(report.Missing, r.Handle)
		case row.Path != r.Path:
			report.Moved = append(report.Moved, Move{Handle: r.Handle, CatalogPath: row.Path, RegistryPath: r.Path})
		}
	}
	for _, r := range rows {
		if _, ok := registered[r.Handle]; !ok {
			report.Stale = append(report.Stale, r.Handle)
		}
	}

	sort.Strings(report.Missing)
	sort.Strings(report.Stale)
	sort.Slice(report.Moved, func(i, j int) bool { return report.Moved[i].Handle < report.Moved[j].Handle })
	return report, nil
}

func toRecords(metas []asset.Metadata) []AssetRecord {
	records := make([]AssetRecord, 0, len(metas))
	for _, m := range metas {
		if m.IsMemoryAsset || !m.IsValid() {
			continue
		}
		records = append(records, AssetRecord{
			Handle: m.Handle.String(),
			Type:   m.Type.String(),
			Path:   m.FilePath,
		})
	}
	return records
}
