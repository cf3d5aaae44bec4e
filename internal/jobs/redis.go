package jobs

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisResults is a ResultBus over one Redis pub/sub channel. Every
// subscriber sees every result and keeps those it has a pending handle for.
type RedisResults struct {
	client  *redis.Client
	channel string
	logger  *zap.Logger
}

func NewRedisResults(client *redis.Client, channel string, logger *zap.Logger) *RedisResults {
	return &RedisResults{client: client, channel: channel, logger: logger}
}

func (b *RedisResults) Publish(ctx context.Context, jobID uuid.UUID, res Result) error {
	payload, err := encodeResult(jobID, res)
	if err != nil {
		return err
	}
	if err := b.client.Publish(ctx, b.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish job result: %w", err)
	}
	return nil
}

// ResultSubscription is an active subscription to the result channel.
type ResultSubscription struct {
	sub    *redis.PubSub
	logger *zap.Logger
}

// Subscribe returns once Redis has confirmed the subscription, so results
// published afterwards are not missed.
func (b *RedisResults) Subscribe(ctx context.Context) (*ResultSubscription, error) {
	sub := b.client.Subscribe(ctx, b.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("subscribe %s: %w", b.channel, err)
	}
	b.logger.Info("job result subscription active", zap.String("channel", b.channel))
	return &ResultSubscription{sub: sub, logger: b.logger}, nil
}

// Serve hands every received result to r until ctx is done.
func (s *ResultSubscription) Serve(ctx context.Context, r Resolver) error {
	defer s.sub.Close()

	ch := s.sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			id, res, err := decodeResult([]byte(msg.Payload))
			if err != nil {
				s.logger.Warn("dropping malformed job result", zap.Error(err))
				continue
			}
			if r.Resolve(id, res) {
				s.logger.Debug("job resolved from result bus", zap.String("job_id", id.String()))
			}
		}
	}
}
