package database

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/TemirB/shopping-cart/internal/config"
	"github.com/TemirB/shopping-cart/internal/domain"
)

// Memory is a mutex-guarded CartStore. Ids are assigned sequentially and
// never reused.
type Memory struct {
	mu       sync.RWMutex
	items    map[string]domain.MarketItem
	lines    map[int64]domain.CartLine
	nextItem int64
	nextLine int64
	now      func() time.Time
}

func NewMemory(seed []config.SeedItem) *Memory {
	m := &Memory{
		items: make(map[string]domain.MarketItem, len(seed)),
		lines: make(map[int64]domain.CartLine),
		now:   time.Now,
	}
	for _, it := range seed {
		if _, ok := m.items[it.Name]; ok {
			continue
		}
		m.nextItem++
		m.items[it.Name] = domain.MarketItem{ID: m.nextItem, Name: it.Name, Price: it.Price}
	}
	return m
}

func (m *Memory) FindMarketItem(_ context.Context, name string) (domain.MarketItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	it, ok := m.items[name]
	if !ok {
		return domain.MarketItem{}, fmt.Errorf("market item %q: %w", name, domain.ErrNotFound)
	}
	return it, nil
}

func (m *Memory) ListMarketItems(_ context.Context) ([]domain.MarketItem, error) {
	m.mu.RLock()
	out := make([]domain.MarketItem, 0, len(m.items))
	for _, it := range m.items {
		out = append(out, it)
	}
	m.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) UpdateMarketItemPrice(_ context.Context, name string, price decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.items[name]
	if !ok {
		return fmt.Errorf("market item %q: %w", name, domain.ErrNotFound)
	}
	it.Price = price
	m.items[name] = it
	return nil
}

func (m *Memory) InsertCartLine(_ context.Context, name string, quantity int, price decimal.Decimal) (domain.CartLine, error) {
	if quantity <= 0 {
		return domain.CartLine{}, fmt.Errorf("%w: quantity %d", domain.ErrStoreWrite, quantity)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextLine++
	l := domain.CartLine{
		ID:        m.nextLine,
		Name:      name,
		Quantity:  quantity,
		Price:     price,
		CreatedAt: m.now(),
	}
	m.lines[l.ID] = l
	return l, nil
}

func (m *Memory) ListCartLines(_ context.Context) ([]domain.CartLine, error) {
	m.mu.RLock()
	out := make([]domain.CartLine, 0, len(m.lines))
	for _, l := range m.lines {
		out = append(out, l)
	}
	m.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *Memory) DeleteCartLine(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.lines[id]; !ok {
		return fmt.Errorf("cart line %d: %w", id, domain.ErrNotFound)
	}
	delete(m.lines, id)
	return nil
}
