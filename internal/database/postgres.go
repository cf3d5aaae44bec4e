package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/TemirB/shopping-cart/internal/config"
	"github.com/TemirB/shopping-cart/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Repo is the Postgres CartStore. Prices travel as text so NUMERIC values keep
// their exact scale on the way in and out.
type Repo struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

func (r *Repo) FindMarketItem(ctx context.Context, name string) (domain.MarketItem, error) {
	var (
		it    domain.MarketItem
		price string
	)
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, price::text
		FROM market_items WHERE name=$1
	`, name).Scan(&it.ID, &it.Name, &price)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.MarketItem{}, fmt.Errorf("market item %q: %w", name, domain.ErrNotFound)
	}
	if err != nil {
		return domain.MarketItem{}, err
	}
	if it.Price, err = decimal.NewFromString(price); err != nil {
		return domain.MarketItem{}, fmt.Errorf("parse price of %q: %w", name, err)
	}
	return it, nil
}

func (r *Repo) ListMarketItems(ctx context.Context) ([]domain.MarketItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, price::text
		FROM market_items
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.MarketItem
	for rows.Next() {
		var (
			it    domain.MarketItem
			price string
		)
		if err := rows.Scan(&it.ID, &it.Name, &price); err != nil {
			return nil, err
		}
		if it.Price, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("parse price of %q: %w", it.Name, err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *Repo) UpdateMarketItemPrice(ctx context.Context, name string, price decimal.Decimal) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE market_items SET price=$2::numeric WHERE name=$1
	`, name, price.String())
	if err != nil {
		return fmt.Errorf("%w: update price of %q: %w", domain.ErrStoreWrite, name, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("market item %q: %w", name, domain.ErrNotFound)
	}
	return nil
}

func (r *Repo) InsertCartLine(ctx context.Context, name string, quantity int, price decimal.Decimal) (domain.CartLine, error) {
	line := domain.CartLine{Name: name, Quantity: quantity, Price: price}
	err := r.pool.QueryRow(ctx, `
		INSERT INTO cart_lines (name, quantity, price)
		VALUES ($1, $2, $3::numeric)
		RETURNING id, date_created
	`, name, quantity, price.String()).Scan(&line.ID, &line.CreatedAt)
	if err != nil {
		return domain.CartLine{}, fmt.Errorf("%w: insert %q: %w", domain.ErrStoreWrite, name, err)
	}
	return line, nil
}

func (r *Repo) ListCartLines(ctx context.Context) ([]domain.CartLine, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, quantity, price::text, date_created
		FROM cart_lines
		ORDER BY date_created, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []domain.CartLine
	for rows.Next() {
		var (
			l     domain.CartLine
			price string
		)
		if err := rows.Scan(&l.ID, &l.Name, &l.Quantity, &price, &l.CreatedAt); err != nil {
			return nil, err
		}
		if l.Price, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("parse price of line %d: %w", l.ID, err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func (r *Repo) DeleteCartLine(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM cart_lines WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("%w: delete line %d: %w", domain.ErrStoreWrite, id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("cart line %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

// Seed inserts catalogue items that are not present yet. Existing prices are
// left alone so a restart never overrides an /update.
func (r *Repo) Seed(ctx context.Context, items []config.SeedItem) error {
	batch := &pgx.Batch{}
	for _, it := range items {
		batch.Queue(`
			INSERT INTO market_items (name, price) VALUES ($1, $2::numeric)
			ON CONFLICT (name) DO NOTHING
		`, it.Name, it.Price.String())
	}
	if batch.Len() == 0 {
		return nil
	}
	return r.pool.SendBatch(ctx, batch).Close()
}
