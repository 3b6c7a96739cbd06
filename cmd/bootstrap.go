package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"asset-core/core/asset"
	"asset-core/core/assets"
	"asset-core/core/config"
	"asset-core/core/database"
	"asset-core/core/jobs"
	"asset-core/core/logger"
	"asset-core/core/serializer"
	"asset-core/core/storage"
	"asset-core/core/vfs"
	"asset-core/feature/blob"
	"asset-core/feature/catalog"

	"github.com/spf13/afero"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// project holds everything a command needs to work on a project.
type project struct {
	cfg       *config.Config
	logger    *zap.Logger
	scheduler *jobs.Scheduler
	manager   *assets.Manager
	objectBin *vfs.ObjectBin
}

// bootstrap loads the configuration and builds the asset manager. The
// registry is empty until scan is called.
func bootstrap(ctx context.Context) (*project, error) {
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	types := asset.NewTypeRegistry()
	serializers := serializer.NewRegistry()
	if err := blob.Register(types, serializers); err != nil {
		return nil, err
	}

	p := &project{cfg: cfg, logger: logg}
	bin, err := p.recycleBin(ctx)
	if err != nil {
		return nil, err
	}

	p.scheduler = jobs.New(cfg.Jobs, logg)
	p.manager, err = assets.NewManager(cfg.Assets, types, serializers, vfs.New(afero.NewOsFs(), bin), p.scheduler, logg)
	if err != nil {
		p.scheduler.Close()
		return nil, err
	}
	return p, nil
}

func (p *project) recycleBin(ctx context.Context) (vfs.RecycleBin, error) {
	if p.cfg.Recycle.Mode != vfs.ModeObject {
		dir := p.cfg.Recycle.Dir
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(p.cfg.Assets.ProjectDir, dir)
		}
		return vfs.NewLocalBin(dir), nil
	}

	client, err := storage.Open(ctx, p.cfg.Storage)
	if err != nil {
		return nil, err
	}
	p.objectBin = vfs.NewObjectBin(client, p.cfg.Storage.Bucket, p.cfg.Recycle.Prefix, p.cfg.Storage.Timeout(), p.logger)
	return p.objectBin, nil
}

// scan runs discovery over the project.
func (p *project) scan(ctx context.Context) (assets.ScanReport, error) {
	report, err := p.manager.Scan(ctx)
	if err != nil {
		return report, fmt.Errorf("scan failed: %w", err)
	}
	return report, nil
}

// openCatalog connects the catalog database, or returns nil when none is configured.
func (p *project) openCatalog() (*catalog.Service, *gorm.DB, error) {
	if !p.cfg.Database.Enabled() {
		return nil, nil, nil
	}
	db, err := database.Connect(p.cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	svc := catalog.NewService(db, p.logger)
	if err := svc.Migrate(); err != nil {
		return nil, nil, err
	}
	return svc, db, nil
}

func (p *project) close() {
	p.scheduler.Close()
	_ = p.logger.Sync()
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
