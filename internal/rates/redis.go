package rates

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// RedisStore keeps rates under rate:<base>:<code> with no expiry.
type RedisStore struct {
	client *redis.Client
	base   string
}

func NewRedisStore(client *redis.Client, base string) *RedisStore {
	return &RedisStore{client: client, base: base}
}

func (r *RedisStore) Get(ctx context.Context, code string) (decimal.Decimal, bool, error) {
	val, err := r.client.Get(ctx, r.key(code)).Result()
	if errors.Is(err, redis.Nil) {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("redis get failed: %w", err)
	}

	rate, err := decimal.NewFromString(val)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("parse cached rate %q: %w", val, err)
	}
	return rate, true, nil
}

func (r *RedisStore) Set(ctx context.Context, code string, rate decimal.Decimal) error {
	if err := r.client.Set(ctx, r.key(code), rate.String(), 0).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisStore) key(code string) string {
	return fmt.Sprintf("rate:%s:%s", r.base, code)
}
