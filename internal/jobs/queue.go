package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:generate mockgen -source internal/jobs/queue.go -destination=internal/jobs/queue_mock_test.go -package=jobs

// Transport carries an enqueued job to a worker that eventually calls
// Processor.Process with it.
type Transport interface {
	Publish(ctx context.Context, job Job) error
}

type Processor interface {
	Process(ctx context.Context, job Job) Result
}

type Queue struct {
	runner    *Runner
	transport Transport
	results   ResultBus
	logger    *zap.Logger
	now       func() time.Time

	mu      sync.Mutex
	pending map[uuid.UUID]*Handle
}

type QueueOption func(*Queue)

// WithResults forwards results of jobs enqueued by another process to bus.
// It is needed whenever several processes consume one transport.
func WithResults(bus ResultBus) QueueOption {
	return func(q *Queue) { q.results = bus }
}

func NewQueue(runner *Runner, transport Transport, logger *zap.Logger, opts ...QueueOption) *Queue {
	q := &Queue{
		runner:    runner,
		transport: transport,
		logger:    logger,
		now:       time.Now,
		pending:   make(map[uuid.UUID]*Handle),
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Enqueue registers a pending handle for job and publishes it. The returned
// handle resolves once some worker has processed the job.
func (q *Queue) Enqueue(ctx context.Context, job Job) (*Handle, error) {
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	if job.EnqueuedAt.IsZero() {
		job.EnqueuedAt = q.now()
	}
	if err := job.validate(); err != nil {
		return nil, err
	}

	h := newHandle(job)
	q.mu.Lock()
	q.pending[job.ID] = h
	q.mu.Unlock()

	if err := q.transport.Publish(ctx, job); err != nil {
		q.forget(job.ID)
		return nil, fmt.Errorf("publish job %s: %w", job.ID, err)
	}
	q.logger.Debug("job enqueued",
		zap.String("job_id", job.ID.String()),
		zap.String("kind", string(job.Kind)),
	)
	return h, nil
}

// Process runs job and resolves its handle when this process enqueued it.
// Otherwise the result goes to the result bus, unless ctx was cancelled: an
// interrupted job is redelivered and must not resolve a remote waiter yet.
func (q *Queue) Process(ctx context.Context, job Job) Result {
	res := q.runner.Run(ctx, job)

	if q.Resolve(job.ID, res) {
		return res
	}
	if q.results == nil || ctx.Err() != nil {
		q.logger.Debug("no local waiter for job", zap.String("job_id", job.ID.String()))
		return res
	}
	if err := q.results.Publish(ctx, job.ID, res); err != nil {
		q.logger.Warn("job result not forwarded",
			zap.String("job_id", job.ID.String()),
			zap.Error(err),
		)
	}
	return res
}

// Resolve settles the pending handle of job id with res. It reports false
// when no such handle is pending here.
func (q *Queue) Resolve(id uuid.UUID, res Result) bool {
	h := q.forget(id)
	if h == nil {
		return false
	}
	return h.resolve(res)
}

// Pending reports how many enqueued jobs have not been processed yet.
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

func (q *Queue) forget(id uuid.UUID) *Handle {
	q.mu.Lock()
	defer q.mu.Unlock()
	h, ok := q.pending[id]
	if !ok {
		return nil
	}
	delete(q.pending, id)
	return h
}
