package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartLine is one row of the cart. Price is the market unit price captured
// when the line was added and is never rewritten afterwards.
type CartLine struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	CreatedAt time.Time       `json:"date_created"`
}

type MarketItem struct {
	ID    int64           `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}
