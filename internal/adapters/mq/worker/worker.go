// Package worker drains the save queue and writes state to the store.
//
// Persistence failures are logged and counted; the in-memory engine state
// stays valid, so a failed save is retried naturally by the next auto-save
// pass rather than by the worker itself.
package worker

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/revgate/revgate/internal/adapters/mq/queue"
	"github.com/revgate/revgate/internal/adapters/repository"
	"github.com/revgate/revgate/internal/domain/ledger"
	"github.com/revgate/revgate/pkg/logger"
	"github.com/revgate/revgate/pkg/metrics"
)

// Worker shutdown constants.
const (
	poolShutdownTimeout = 30 * time.Second
)

// Saver is the subset of the store the workers write through.
type Saver interface {
	SaveProfile(ctx context.Context, profile ledger.Profile) error
	SaveProgress(ctx context.Context, progress repository.SavedProgress) error
}

// Queue defines how workers receive save requests.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.SaveRequest
}

// Worker persists save requests until stopped.
type Worker struct {
	queue Queue
	saver Saver
	name  string

	// Shutdown control
	shutdown chan struct{}
	done     chan struct{}

	// Logging
	logger logger.Logger
}

// NewWorker creates a worker with configuration options.
func NewWorker(q Queue, saver Saver, opts ...Option) *Worker {
	w := &Worker{
		queue:    q,
		saver:    saver,
		name:     "saver",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("saver"),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run starts the worker loop until ctx is canceled or Shutdown is called.
func (w *Worker) Run(ctx context.Context) {
	defer close(w.done)

	requests := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case r, ok := <-requests:
			if !ok {
				return
			}
			w.persist(ctx, r)
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *Worker) Shutdown(ctx context.Context) error {
	close(w.shutdown)

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// persist writes one save request to the store.
func (w *Worker) persist(ctx context.Context, r queue.SaveRequest) {
	var err error
	switch {
	case r.Profile != nil:
		err = w.saver.SaveProfile(ctx, *r.Profile)
	case r.Progress != nil:
		err = w.saver.SaveProgress(ctx, *r.Progress)
	default:
		return // empty request, nothing to do
	}

	if err != nil {
		metrics.RecordAutosaveFailure()
		w.logger.Error(ctx, "save failed", logger.Error(err))
		return
	}
	metrics.RecordAutosaveSuccess()
}

// Pool manages multiple save workers.
type Pool struct {
	workers []*Worker
	logger  logger.Logger
}

// NewPool creates a pool of workerCount workers over the same queue.
func NewPool(workerCount int, q Queue, saver Saver) *Pool {
	if workerCount < 1 {
		workerCount = 1
	}

	pool := &Pool{
		workers: make([]*Worker, workerCount),
		logger:  logger.Get().Named("saver-pool"),
	}
	for i := 0; i < workerCount; i++ {
		pool.workers[i] = NewWorker(q, saver, WithName("saver-"+strconv.Itoa(i)))
	}

	metrics.UpdateWorkerCount(workerCount)
	return pool
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Stop shuts down all workers, bounded by the pool shutdown timeout.
func (p *Pool) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), poolShutdownTimeout)
	defer cancel()

	for _, w := range p.workers {
		if err := w.Shutdown(ctx); err != nil {
			p.logger.Warn(ctx, "worker did not stop cleanly", logger.Error(err))
		}
	}
	metrics.UpdateWorkerCount(0)
}
