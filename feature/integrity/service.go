package integrity

import (
	"context"
	"errors"
	"fmt"

	"asset-core/core/asset"
	"asset-core/core/assets"
	"asset-core/core/binstream"
	"asset-core/core/serializer"

	"github.com/sourcegraph/conc/iter"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Problem kinds reported by the checks.
const (
	ProblemMissing    = "missing"
	ProblemUnreadable = "unreadable"
	ProblemMismatch   = "mismatch"
	ProblemDangling   = "dangling"
)

// Issue is one failed check.
type Issue struct {
	Handle  asset.Handle `json:"handle"`
	Path    string       `json:"path,omitempty"`
	Problem string       `json:"problem"`
	Detail  string       `json:"detail,omitempty"`
}

// Report is the result of one check.
type Report struct {
	Checked int     `json:"checked"`
	Issues  []Issue `json:"issues"`
}

// OK reports whether the check found nothing.
func (r Report) OK() bool {
	return len(r.Issues) == 0
}

// Service runs integrity checks against a Manager.
type Service struct {
	manager *assets.Manager
	logger  *zap.Logger
}

// NewService creates a new integrity service.
func NewService(manager *assets.Manager, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{manager: manager, logger: logger}
}

// CheckFiles reads the header of every file-backed asset.
func (s *Service) CheckFiles(ctx context.Context) (Report, error) {
	var metas []asset.Metadata
	for _, m := range s.manager.Snapshot() {
		if !m.IsMemoryAsset {
			metas = append(metas, m)
		}
	}

	results := iter.Map(metas, func(m *asset.Metadata) *Issue {
		if ctx.Err() != nil {
			return nil
		}
		return s.checkFile(*m)
	})
	if err := ctx.Err(); err != nil {
		return Report{}, err
	}

	report := Report{Checked: len(metas), Issues: []Issue{}}
	for _, issue := range results {
		if issue != nil {
			report.Issues = append(report.Issues, *issue)
		}
	}
	if !report.OK() {
		s.logger.Warn("File integrity issues found", zap.Int("issues", len(report.Issues)))
	}
	return report, nil
}

func (s *Service) checkFile(m asset.Metadata) *Issue {
	p := s.manager.FilesystemPath(m.FilePath)
	issue := &Issue{Handle: m.Handle, Path: m.FilePath}

	exists, err := afero.Exists(s.manager.Fs(), p)
	if err != nil || !exists {
		issue.Problem = ProblemMissing
		return issue
	}

	r := binstream.NewReaderLimit(s.manager.Fs(), p, serializer.HeaderSize)
	if !r.IsStreamValid() {
		issue.Problem = ProblemUnreadable
		issue.Detail = r.Err().Error()
		return issue
	}
	header, err := serializer.ReadHeader(r)
	if err != nil {
		issue.Problem = ProblemUnreadable
		if errors.Is(err, serializer.ErrNotAsset) {
			issue.Detail = "no asset header"
		} else {
			issue.Detail = err.Error()
		}
		return issue
	}
	if header.Handle != m.Handle || header.Type != m.Type {
		issue.Problem = ProblemMismatch
		issue.Detail = fmt.Sprintf("file has handle %s type %s", header.Handle, header.Type)
		return issue
	}
	return nil
}

// CheckDependencies verifies that every graph edge joins registered assets.
func (s *Service) CheckDependencies() Report {
	edges := s.manager.DependencyEdges()
	report := Report{Checked: len(edges), Issues: []Issue{}}
	for _, e := range edges {
		for _, h := range []asset.Handle{e.From, e.To} {
			if s.manager.ExistsInRegistry(h) {
				continue
			}
			report.Issues = append(report.Issues, Issue{
				Handle:  h,
				Problem: ProblemDangling,
				Detail:  fmt.Sprintf("edge %s -> %s", e.From, e.To),
			})
		}
	}
	if !report.OK() {
		s.logger.Warn("Dangling dependency edges found", zap.Int("issues", len(report.Issues)))
	}
	return report
}
