package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/TemirB/shopping-cart/internal/config"
	"github.com/TemirB/shopping-cart/internal/domain"
	"github.com/TemirB/shopping-cart/internal/observability"
	"github.com/TemirB/shopping-cart/internal/pkg/retry"
)

//go:generate mockgen -source internal/domain/repo.go -destination=internal/jobs/store_mock_test.go -package=jobs

// Runner executes a job against the store. Every failure is retried up to
// policy.Attempts times; attempts never overlap.
type Runner struct {
	store   domain.CartStore
	policy  config.Retry
	logger  *zap.Logger
	metrics observability.Metrics
}

func NewRunner(store domain.CartStore, policy config.Retry, logger *zap.Logger, metrics observability.Metrics) *Runner {
	if metrics == nil {
		metrics = observability.NewNoop()
	}
	return &Runner{
		store:   store,
		policy:  policy,
		logger:  logger,
		metrics: metrics,
	}
}

func (r *Runner) Run(ctx context.Context, job Job) Result {
	start := time.Now()
	var line *domain.CartLine

	attempts, err := retry.Do(ctx, r.policy, func(attempt int) error {
		l, err := r.execute(ctx, job)
		if err != nil {
			r.logger.Warn("job attempt failed",
				zap.String("job_id", job.ID.String()),
				zap.String("kind", string(job.Kind)),
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
			return err
		}
		line = l
		return nil
	})

	res := Result{State: StateSuccess, Line: line, Attempts: attempts}
	if err != nil {
		res.State = StateFailed
		res.Line = nil
		if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
			res.Err = err
		} else {
			res.Err = fmt.Errorf("%w: %w", domain.ErrJobRetryExhausted, err)
		}
		r.logger.Error("job failed",
			zap.String("job_id", job.ID.String()),
			zap.String("kind", string(job.Kind)),
			zap.Int("attempts", attempts),
			zap.Error(res.Err),
		)
	} else {
		r.logger.Info("job done",
			zap.String("job_id", job.ID.String()),
			zap.String("kind", string(job.Kind)),
			zap.Int("attempts", attempts),
		)
	}

	r.metrics.ObserveJob(string(job.Kind), string(res.State), attempts, observability.SinceMs(start))
	return res
}

func (r *Runner) execute(ctx context.Context, job Job) (*domain.CartLine, error) {
	switch job.Kind {
	case KindAdd:
		item, err := r.store.FindMarketItem(ctx, job.Name)
		if err != nil {
			return nil, err
		}
		l, err := r.store.InsertCartLine(ctx, item.Name, job.Quantity, item.Price)
		if err != nil {
			return nil, err
		}
		return &l, nil
	case KindRemove:
		return nil, r.store.DeleteCartLine(ctx, job.LineID)
	default:
		return nil, fmt.Errorf("%w: unknown job kind %q", domain.ErrInvalidInput, job.Kind)
	}
}
