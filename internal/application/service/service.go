package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/TemirB/shopping-cart/internal/domain"
	"github.com/TemirB/shopping-cart/internal/jobs"
	"github.com/TemirB/shopping-cart/internal/observability"
	"github.com/TemirB/shopping-cart/internal/receipt"
)

//go:generate mockgen -source internal/application/service/service.go -destination=internal/application/service/service_mock_test.go -package=service

type Queue interface {
	Enqueue(ctx context.Context, job jobs.Job) (*jobs.Handle, error)
}

type Waiter interface {
	Wait(ctx context.Context, h *jobs.Handle) (jobs.Result, error)
}

type Calculator interface {
	Compute(ctx context.Context, lines []domain.CartLine, currency string) (receipt.Receipt, error)
}

// Cart is the shopping cart use-case layer. Mutations go through the job
// queue and block until the job is terminal; reads hit the store directly.
type Cart struct {
	store   domain.CartStore
	queue   Queue
	waiter  Waiter
	calc    Calculator
	logger  *zap.Logger
	metrics observability.Metrics
}

func NewCart(store domain.CartStore, queue Queue, waiter Waiter, calc Calculator, logger *zap.Logger, metrics observability.Metrics) *Cart {
	if metrics == nil {
		metrics = observability.NewNoop()
	}
	return &Cart{
		store:   store,
		queue:   queue,
		waiter:  waiter,
		calc:    calc,
		logger:  logger,
		metrics: metrics,
	}
}

func (c *Cart) MarketItems(ctx context.Context) ([]domain.MarketItem, error) {
	items, err := c.store.ListMarketItems(ctx)
	if err != nil {
		c.logger.Error("Can't list market items", zap.Error(err))
		return nil, err
	}
	return items, nil
}

func (c *Cart) AddItem(ctx context.Context, name string, quantity int) (domain.CartLine, error) {
	l, _, err := c.AddItemWithStats(ctx, name, quantity)
	return l, err
}

func (c *Cart) AddItemWithStats(ctx context.Context, name string, quantity int) (domain.CartLine, MutationStats, error) {
	var st MutationStats

	job, err := jobs.NewAddItem(name, quantity)
	if err != nil {
		return domain.CartLine{}, st, err
	}

	res, err := c.run(ctx, job, &st)
	if err != nil {
		c.logger.Error("Add item failed",
			zap.String("name", job.Name),
			zap.Int("quantity", quantity),
			zap.Int("attempts", st.Attempts),
			zap.Error(err),
		)
		return domain.CartLine{}, st, err
	}

	var line domain.CartLine
	if res.Line != nil {
		line = *res.Line
	}
	c.logger.Info("Item added",
		zap.Int64("line_id", line.ID),
		zap.String("name", line.Name),
		zap.Int("quantity", line.Quantity),
		zap.String("price", line.Price.String()),
		zap.Float64("wait_ms", st.WaitMs),
	)
	return line, st, nil
}

func (c *Cart) RemoveItem(ctx context.Context, id int64) error {
	_, err := c.RemoveItemWithStats(ctx, id)
	return err
}

func (c *Cart) RemoveItemWithStats(ctx context.Context, id int64) (MutationStats, error) {
	var st MutationStats

	if _, err := c.run(ctx, jobs.NewRemoveItem(id), &st); err != nil {
		c.logger.Error("Remove item failed",
			zap.Int64("line_id", id),
			zap.Int("attempts", st.Attempts),
			zap.Error(err),
		)
		return st, err
	}
	c.logger.Info("Item removed", zap.Int64("line_id", id), zap.Float64("wait_ms", st.WaitMs))
	return st, nil
}

func (c *Cart) run(ctx context.Context, job jobs.Job, st *MutationStats) (jobs.Result, error) {
	t0 := time.Now()
	h, err := c.queue.Enqueue(ctx, job)
	if err != nil {
		return jobs.Result{}, fmt.Errorf("enqueue %s: %w", job.Kind, err)
	}
	res, err := c.waiter.Wait(ctx, h)
	st.WaitMs = observability.SinceMs(t0)
	st.Attempts = res.Attempts
	return res, err
}

func (c *Cart) Receipt(ctx context.Context, currency string) (receipt.Receipt, error) {
	r, _, err := c.ReceiptWithStats(ctx, currency)
	return r, err
}

func (c *Cart) ReceiptWithStats(ctx context.Context, currency string) (receipt.Receipt, ReceiptStats, error) {
	var st ReceiptStats

	tStore := time.Now()
	lines, err := c.store.ListCartLines(ctx)
	if err != nil {
		c.logger.Error("Can't list cart lines", zap.Error(err))
		return receipt.Receipt{}, st, err
	}
	st.StoreMs = observability.SinceMs(tStore)
	st.Lines = len(lines)

	tCompute := time.Now()
	r, err := c.calc.Compute(ctx, lines, currency)
	if err != nil {
		c.logger.Error("Can't compute receipt",
			zap.String("currency", currency),
			zap.Int("lines", len(lines)),
			zap.Error(err),
		)
		return receipt.Receipt{}, st, err
	}
	st.ComputeMs = observability.SinceMs(tCompute)

	c.metrics.ObserveReceipt(r.Currency, st.Lines, st.StoreMs+st.ComputeMs)
	c.logger.Info("Receipt computed",
		zap.String("currency", r.Currency),
		zap.Int("lines", st.Lines),
		zap.String("total", r.Total.StringFixed(2)),
		zap.Float64("store_ms", st.StoreMs),
		zap.Float64("compute_ms", st.ComputeMs),
	)
	return r, st, nil
}

// UpdateItem sets the market price of name. Lines already in the cart keep
// their captured price. An unknown name is logged and ignored.
func (c *Cart) UpdateItem(ctx context.Context, name string, price decimal.Decimal) error {
	if price.IsNegative() {
		return fmt.Errorf("%w: negative price %s for %q", domain.ErrInvalidInput, price, name)
	}

	err := c.store.UpdateMarketItemPrice(ctx, name, price)
	if errors.Is(err, domain.ErrNotFound) {
		c.logger.Warn("No market item to update", zap.String("name", name))
		return nil
	}
	if err != nil {
		c.logger.Error("Price update failed", zap.String("name", name), zap.Error(err))
		return err
	}
	c.logger.Info("Price updated", zap.String("name", name), zap.String("price", price.String()))
	return nil
}
