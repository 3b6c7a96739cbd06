package jobs

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/sourcegraph/conc/panics"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// ErrClosed is reported by futures of tasks submitted after Close.
var ErrClosed = errors.New("scheduler closed")

// Future tracks one submitted task.
type Future struct {
	done chan struct{}
	err  error
}

// Done is closed when the task has finished.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the task has finished and returns the recovered panic,
// if any, as an error.
func (f *Future) Wait() error {
	<-f.done
	return f.err
}

// WaitAll waits for every future and joins their errors.
func WaitAll(futures []*Future) error {
	var errs []error
	for _, f := range futures {
		if err := f.Wait(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Scheduler executes tasks on a bounded number of goroutines.
type Scheduler struct {
	sem     *semaphore.Weighted
	wg      sync.WaitGroup
	closed  atomic.Bool
	pending atomic.Int64
	logger  *zap.Logger
}

// New creates a scheduler.
func New(cfg Config, logger *zap.Logger) *Scheduler {
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		sem:    semaphore.NewWeighted(int64(workers)),
		logger: logger,
	}
}

// Submit schedules fn and returns immediately.
func (s *Scheduler) Submit(fn func()) *Future {
	f := &Future{done: make(chan struct{})}
	if s.closed.Load() {
		f.err = ErrClosed
		close(f.done)
		return f
	}

	s.wg.Add(1)
	s.pending.Add(1)
	go func() {
		defer close(f.done)
		defer s.wg.Done()
		defer s.pending.Add(-1)

		// Acquire only fails on a cancelled context.
		_ = s.sem.Acquire(context.Background(), 1)
		defer s.sem.Release(1)

		var pc panics.Catcher
		pc.Try(fn)
		if r := pc.Recovered(); r != nil {
			f.err = r.AsError()
			s.logger.Error("Background task panicked", zap.Error(f.err))
		}
	}()
	return f
}

// Pending returns the number of tasks that have not finished yet.
func (s *Scheduler) Pending() int {
	return int(s.pending.Load())
}

// Wait blocks until every submitted task has finished.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

// Close rejects further submissions and waits for running tasks.
func (s *Scheduler) Close() {
	s.closed.Store(true)
	s.wg.Wait()
}
