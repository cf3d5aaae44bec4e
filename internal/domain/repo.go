package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// CartStore is the persistence boundary of the cart. Every method is a single
// statement against the backing store: it either commits fully or not at all.
type CartStore interface {
	FindMarketItem(ctx context.Context, name string) (MarketItem, error)
	ListMarketItems(ctx context.Context) ([]MarketItem, error)
	UpdateMarketItemPrice(ctx context.Context, name string, price decimal.Decimal) error

	InsertCartLine(ctx context.Context, name string, quantity int, price decimal.Decimal) (CartLine, error)
	ListCartLines(ctx context.Context) ([]CartLine, error)
	DeleteCartLine(ctx context.Context, id int64) error
}
