// Package receipt converts cart lines into a priced receipt in a requested
// currency.
package receipt

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/TemirB/shopping-cart/internal/domain"
)

const places = 2

//go:generate mockgen -source internal/receipt/calculator.go -destination=internal/receipt/calculator_mock_test.go -package=receipt

type RateProvider interface {
	Rate(ctx context.Context, code string) (decimal.Decimal, error)
}

// LineView is the read-only projection of a cart line. The persisted unit
// price is copied, never overwritten.
type LineView struct {
	ID             int64           `json:"id"`
	Name           string          `json:"name"`
	Quantity       int             `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	ConvertedPrice decimal.Decimal `json:"converted_price"`
	CreatedAt      time.Time       `json:"date_created"`
}

type Receipt struct {
	Currency string          `json:"currency"`
	Rate     decimal.Decimal `json:"rate"`
	Lines    []LineView      `json:"lines"`
	Total    decimal.Decimal `json:"total"`
}

type Calculator struct {
	rates RateProvider
}

func NewCalculator(rates RateProvider) *Calculator {
	return &Calculator{rates: rates}
}

// Compute prices every line as round(unit*rate*qty, 2) and totals the rounded
// values. Lines come back oldest first. A rate failure aborts the receipt.
func (c *Calculator) Compute(ctx context.Context, lines []domain.CartLine, currency string) (Receipt, error) {
	code, err := domain.NormalizeCurrency(currency)
	if err != nil {
		return Receipt{}, err
	}

	out := Receipt{
		Currency: code,
		Lines:    []LineView{},
		Total:    decimal.Zero,
	}
	if len(lines) == 0 {
		return out, nil
	}

	rate, err := c.rates.Rate(ctx, code)
	if err != nil {
		return Receipt{}, err
	}
	out.Rate = rate

	ordered := make([]domain.CartLine, len(lines))
	copy(ordered, lines)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].CreatedAt.Equal(ordered[j].CreatedAt) {
			return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
		}
		return ordered[i].ID < ordered[j].ID
	})

	total := decimal.Zero
	out.Lines = make([]LineView, 0, len(ordered))
	for _, l := range ordered {
		converted := LinePrice(l.Price, rate, l.Quantity)
		total = total.Add(converted)
		out.Lines = append(out.Lines, LineView{
			ID:             l.ID,
			Name:           l.Name,
			Quantity:       l.Quantity,
			UnitPrice:      l.Price,
			ConvertedPrice: converted,
			CreatedAt:      l.CreatedAt,
		})
	}
	out.Total = total.Round(places)
	return out, nil
}

// LinePrice is round(unit*rate*quantity, 2), half away from zero.
func LinePrice(unit, rate decimal.Decimal, quantity int) decimal.Decimal {
	return unit.Mul(rate).Mul(decimal.NewFromInt(int64(quantity))).Round(places)
}
