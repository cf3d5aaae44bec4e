package rates

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/TemirB/shopping-cart/internal/config"
	"github.com/TemirB/shopping-cart/internal/domain"
	"github.com/TemirB/shopping-cart/internal/pkg/circuit"
)

// latestResponse matches the Frankfurter /latest payload.
type latestResponse struct {
	Base  string                     `json:"base"`
	Date  string                     `json:"date"`
	Rates map[string]decimal.Decimal `json:"rates"`
}

// HTTPSource asks a Frankfurter-compatible API for base→code rates.
type HTTPSource struct {
	client  *resty.Client
	base    string
	breaker *circuit.Breaker
	logger  *zap.Logger
}

func NewHTTPSource(cfg config.Rates, brk *circuit.Breaker, logger *zap.Logger) *HTTPSource {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json")

	return &HTTPSource{
		client:  client,
		base:    cfg.BaseCurrency,
		breaker: brk,
		logger:  logger,
	}
}

// Rate asks the source for the base→code rate. Only transport errors and 5xx
// answers count against the breaker; a code the source does not know, or a
// call abandoned by its caller, leaves it untouched.
func (s *HTTPSource) Rate(ctx context.Context, code string) (decimal.Decimal, error) {
	if code == s.base {
		return decimal.NewFromInt(1), nil
	}

	if err := s.breaker.Allow(); err != nil {
		s.logger.Warn("rate source circuit open", zap.String("currency", code))
		return decimal.Zero, fmt.Errorf("%w: %v", domain.ErrRateSourceUnavailable, err)
	}

	rate, err := s.fetch(ctx, code)
	switch {
	case err == nil, errors.Is(err, domain.ErrUnknownCurrency):
		s.breaker.Success()
	case ctx.Err() != nil:
		s.breaker.Release()
		return decimal.Zero, ctx.Err()
	default:
		s.breaker.Failure()
	}
	return rate, err
}

func (s *HTTPSource) fetch(ctx context.Context, code string) (decimal.Decimal, error) {
	var out latestResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"base":    s.base,
			"symbols": code,
		}).
		SetResult(&out).
		Get("/latest")
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", domain.ErrRateSourceUnavailable, err)
	}

	switch status := resp.StatusCode(); {
	case status == http.StatusOK:
	case status >= http.StatusInternalServerError, status == http.StatusTooManyRequests:
		return decimal.Zero, fmt.Errorf("%w: %s/%s returned %d",
			domain.ErrRateSourceUnavailable, s.base, code, status)
	default:
		return decimal.Zero, fmt.Errorf("%w: %s (source answered %d)", domain.ErrUnknownCurrency, code, status)
	}

	rate, ok := out.Rates[code]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: no %s rate in response", domain.ErrUnknownCurrency, code)
	}

	s.logger.Debug("rate fetched",
		zap.String("base", s.base),
		zap.String("currency", code),
		zap.String("rate", rate.String()),
		zap.String("date", out.Date),
	)
	return rate, nil
}
