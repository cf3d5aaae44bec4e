package rates

import (
	"context"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/TemirB/shopping-cart/internal/domain"
	"github.com/TemirB/shopping-cart/internal/observability"
)

//go:generate mockgen -source internal/rates/cache.go -destination=internal/rates/cache_mock_test.go -package=rates

// Source fetches the conversion rate from the base currency to code.
type Source interface {
	Rate(ctx context.Context, code string) (decimal.Decimal, error)
}

// SharedStore is an optional second cache level shared between processes.
// A miss is (zero, false, nil).
type SharedStore interface {
	Get(ctx context.Context, code string) (decimal.Decimal, bool, error)
	Set(ctx context.Context, code string, rate decimal.Decimal) error
}

const defaultFetchTimeout = 10 * time.Second

// Cache memoizes rates per currency code for the lifetime of the process.
// Entries are never expired or invalidated.
type Cache struct {
	lru          *lru.Cache[string, decimal.Decimal]
	source       Source
	shared       SharedStore
	flights      singleflight.Group
	fetchTimeout time.Duration
	logger       *zap.Logger
	metrics      observability.Metrics
}

type Option func(*Cache)

// WithShared puts store behind the in-process cache.
func WithShared(store SharedStore) Option {
	return func(c *Cache) { c.shared = store }
}

func WithMetrics(m observability.Metrics) Option {
	return func(c *Cache) { c.metrics = m }
}

// WithFetchTimeout bounds a shared fetch, which outlives the caller that
// started it.
func WithFetchTimeout(d time.Duration) Option {
	return func(c *Cache) {
		if d > 0 {
			c.fetchTimeout = d
		}
	}
}

func New(size int, source Source, logger *zap.Logger, opts ...Option) (*Cache, error) {
	l, err := lru.New[string, decimal.Decimal](size)
	if err != nil {
		return nil, err
	}
	c := &Cache{
		lru:          l,
		source:       source,
		fetchTimeout: defaultFetchTimeout,
		logger:       logger,
		metrics:      observability.NewNoop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Rate returns the cached rate for code, fetching it once on first use.
// Concurrent first lookups of the same code share a single fetch. The fetch
// does not inherit any caller's cancellation; each caller stops waiting when
// its own ctx is done.
func (c *Cache) Rate(ctx context.Context, code string) (decimal.Decimal, error) {
	code, err := domain.NormalizeCurrency(code)
	if err != nil {
		return decimal.Zero, err
	}

	if rate, ok := c.lru.Get(code); ok {
		c.metrics.IncRateCacheHit()
		return rate, nil
	}
	c.metrics.IncRateCacheMiss()

	ch := c.flights.DoChan(code, func() (any, error) {
		// another flight may have finished between the lookup above and now
		if rate, ok := c.lru.Get(code); ok {
			return rate, nil
		}
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.fetchTimeout)
		defer cancel()
		return c.load(fctx, code)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return decimal.Zero, res.Err
		}
		return res.Val.(decimal.Decimal), nil
	case <-ctx.Done():
		return decimal.Zero, ctx.Err()
	}
}

func (c *Cache) load(ctx context.Context, code string) (decimal.Decimal, error) {
	if c.shared != nil {
		rate, ok, err := c.shared.Get(ctx, code)
		if err != nil {
			c.logger.Warn("shared rate cache read failed",
				zap.String("currency", code),
				zap.Error(err),
			)
		}
		if ok {
			c.lru.Add(code, rate)
			return rate, nil
		}
	}

	rate, err := c.source.Rate(ctx, code)
	if err != nil {
		c.logger.Error("rate lookup failed",
			zap.String("currency", code),
			zap.Error(err),
		)
		return decimal.Zero, err
	}
	if !rate.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: non-positive rate %s for %s", domain.ErrRateSourceUnavailable, rate, code)
	}

	c.lru.Add(code, rate)
	c.logger.Info("currency rate cached",
		zap.String("currency", code),
		zap.String("rate", rate.String()),
	)

	if c.shared != nil {
		if err := c.shared.Set(ctx, code, rate); err != nil {
			c.logger.Warn("shared rate cache write failed",
				zap.String("currency", code),
				zap.Error(err),
			)
		}
	}
	return rate, nil
}

// Len is the number of cached currency codes.
func (c *Cache) Len() int { return c.lru.Len() }
