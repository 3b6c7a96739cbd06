package assets

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"asset-core/core/asset"
	"asset-core/core/binstream"
	"asset-core/core/jobs"
	"asset-core/core/serializer"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// ScanReport summarizes a discovery pass.
type ScanReport struct {
	Files      int           `json:"files"`
	Registered int           `json:"registered"`
	Skipped    int           `json:"skipped"`
	Duration   time.Duration `json:"duration"`
}

// Scan walks the engine, editor and project asset directories and registers
// every file that carries an asset header. Only the header of each file is
// read. Bad files are logged and skipped; the error is non-nil only when ctx
// is cancelled or a root cannot be walked.
func (m *Manager) Scan(ctx context.Context) (ScanReport, error) {
	start := time.Now()
	var report ScanReport
	var registered, skipped atomic.Int64
	var futures []*jobs.Future

	visit := func(p string, info os.FileInfo, err error) error {
		if err != nil {
			m.logger.Warn("Failed to walk path", zap.String("path", p), zap.Error(err))
			return nil
		}
		if info.IsDir() || !m.isContainerFile(p) {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		report.Files++
		futures = append(futures, m.scheduler.Submit(func() {
			if _, ok := m.scanFile(p); ok {
				registered.Add(1)
			} else {
				skipped.Add(1)
			}
		}))
		return nil
	}

	var walkErr error
	for _, root := range m.scanRoots() {
		exists, err := afero.DirExists(m.Fs(), root)
		if err != nil || !exists {
			m.logger.Debug("Skipping missing asset directory", zap.String("dir", root))
			continue
		}
		if err := afero.Walk(m.Fs(), root, visit); err != nil {
			walkErr = err
			break
		}
	}

	// in-flight tasks finish even when the walk was cut short
	if err := jobs.WaitAll(futures); err != nil {
		m.logger.Warn("Scan task failed", zap.Error(err))
	}

	for _, meta := range m.Snapshot() {
		m.graph.AddAssetToGraph(meta.Handle)
	}

	report.Registered = int(registered.Load())
	report.Skipped = int(skipped.Load())
	report.Duration = time.Since(start)

	if walkErr != nil {
		return report, walkErr
	}
	m.logger.Info("Asset scan complete",
		zap.Int("files", report.Files),
		zap.Int("registered", report.Registered),
		zap.Int("skipped", report.Skipped),
		zap.Duration("duration", report.Duration))
	return report, nil
}

// isContainerFile reports whether p has the container extension or the
// extension of a non-source asset type.
func (m *Manager) isContainerFile(p string) bool {
	ext := filepath.Ext(p)
	if strings.EqualFold(ext, m.cfg.Extension) {
		return true
	}
	t, ok := m.types.ByExtension(ext)
	return ok && !t.Source
}

func (m *Manager) scanRoots() []string {
	var roots []string
	if m.cfg.EngineDir != "" {
		roots = append(roots,
			filepath.Join(m.cfg.EngineDir, "Engine"),
			filepath.Join(m.cfg.EngineDir, "Editor"))
	}
	return append(roots, m.assetsRoot())
}

// scanFile registers the asset at p and reports whether it was added.
func (m *Manager) scanFile(p string) (asset.Handle, bool) {
	r := binstream.NewReaderLimit(m.Fs(), p, serializer.HeaderSize)
	if !r.IsStreamValid() {
		m.logger.Warn("Skipping unreadable file", zap.String("path", p), zap.Error(r.Err()))
		return asset.NullHandle, false
	}

	header, err := serializer.ReadHeader(r)
	if err != nil {
		if !errors.Is(err, serializer.ErrNotAsset) {
			m.logger.Warn("Skipping file with broken header", zap.String("path", p), zap.Error(err))
		} else {
			m.logger.Debug("Skipping non-asset file", zap.String("path", p))
		}
		return asset.NullHandle, false
	}
	if !header.Handle.IsValid() {
		m.logger.Debug("Skipping asset with null handle", zap.String("path", p))
		return asset.NullHandle, false
	}

	rel, err := m.RelativePath(p)
	if err != nil {
		m.logger.Warn("Skipping file outside asset directories", zap.String("path", p), zap.Error(err))
		return asset.NullHandle, false
	}

	m.registryMu.Lock()
	meta, exists := m.registry[header.Handle]
	if exists && meta.FilePath != rel {
		m.registryMu.Unlock()
		m.logger.Warn("Duplicate asset handle",
			zap.Stringer("handle", header.Handle),
			zap.String("path", rel),
			zap.String("registered", meta.FilePath))
		return asset.NullHandle, false
	}
	meta.Handle = header.Handle
	meta.Type = header.Type
	meta.FilePath = rel
	m.registry[header.Handle] = meta
	m.registryMu.Unlock()
	return header.Handle, true
}

// Register scans a single file written by an external tool and adds it to
// the registry and the dependency graph.
func (m *Manager) Register(p string) (asset.Handle, bool) {
	h, ok := m.scanFile(p)
	if ok {
		m.graph.AddAssetToGraph(h)
	}
	return h, ok
}
