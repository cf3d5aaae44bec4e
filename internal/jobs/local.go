package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/TemirB/shopping-cart/internal/pkg/pool"
)

var (
	ErrNotStarted      = errors.New("transport not started")
	ErrTransportClosed = errors.New("transport closed")
)

// LocalTransport runs jobs in-process on a fixed worker pool.
type LocalTransport struct {
	workers int
	logger  *zap.Logger

	mu   sync.RWMutex
	pool *pool.Pool
	proc Processor
	ctx  context.Context

	// queued holds jobs accepted by Publish that no worker has picked up yet.
	qmu    sync.Mutex
	queued map[uuid.UUID]Job
}

func NewLocalTransport(workers int, logger *zap.Logger) *LocalTransport {
	return &LocalTransport{
		workers: workers,
		logger:  logger,
		queued:  make(map[uuid.UUID]Job),
	}
}

// Start spawns the workers. Jobs run with ctx, so cancelling it stops retries
// of in-flight jobs.
func (t *LocalTransport) Start(ctx context.Context, p Processor) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.pool != nil {
		return
	}
	t.pool = pool.New(t.workers)
	t.proc = p
	t.ctx = ctx
	t.logger.Info("local job workers started", zap.Int("workers", t.workers))
}

func (t *LocalTransport) Publish(ctx context.Context, job Job) error {
	t.mu.RLock()
	p, proc, wctx := t.pool, t.proc, t.ctx
	t.mu.RUnlock()
	if p == nil {
		return ErrNotStarted
	}

	t.qmu.Lock()
	t.queued[job.ID] = job
	t.qmu.Unlock()

	err := p.Submit(ctx, func() {
		if !t.take(job.ID) {
			return
		}
		proc.Process(wctx, job)
	})
	if err != nil {
		t.take(job.ID)
		return err
	}
	return nil
}

// Close stops the workers and waits for running jobs. Jobs that never
// started are failed with ErrTransportClosed first, so their waiters do not
// sit out the running ones.
func (t *LocalTransport) Close() {
	t.mu.RLock()
	p, proc := t.pool, t.proc
	t.mu.RUnlock()
	if p == nil {
		return
	}
	p.Close()

	t.qmu.Lock()
	dropped := t.queued
	t.queued = make(map[uuid.UUID]Job)
	t.qmu.Unlock()

	r, ok := proc.(Resolver)
	for id, job := range dropped {
		t.logger.Warn("job dropped on shutdown",
			zap.String("job_id", id.String()),
			zap.String("kind", string(job.Kind)),
		)
		if ok {
			r.Resolve(id, Result{
				State: StateFailed,
				Err:   fmt.Errorf("%w: job %s not started", ErrTransportClosed, id),
			})
		}
	}
	p.Wait()
}

// take removes id from the queued set and reports whether it was there.
func (t *LocalTransport) take(id uuid.UUID) bool {
	t.qmu.Lock()
	defer t.qmu.Unlock()
	if _, ok := t.queued[id]; !ok {
		return false
	}
	delete(t.queued, id)
	return true
}
