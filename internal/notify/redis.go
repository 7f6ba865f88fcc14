package notify

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// RedisSubscriber raises the signal for every message published on the
// channel. Used when several API instances share one datastore without
// LISTEN/NOTIFY.
type RedisSubscriber struct {
	client  *redis.Client
	channel string
	logger  *zap.Logger
}

func NewRedisSubscriber(client *redis.Client, channel string, logger *zap.Logger) *RedisSubscriber {
	return &RedisSubscriber{client: client, channel: channel, logger: logger}
}

// Run blocks until ctx is done or the subscription is closed.
func (r *RedisSubscriber) Run(ctx context.Context, sig *Signal) error {
	pubsub := r.client.Subscribe(ctx, r.channel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", r.channel, err)
	}
	r.logger.Info("subscribed to booking changes", zap.String("channel", r.channel))

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			r.logger.Debug("booking change published", zap.String("payload", msg.Payload))
			sig.Notify()
		}
	}
}

// RedisPublisher announces local writes to the other instances.
type RedisPublisher struct {
	client  *redis.Client
	channel string
}

func NewRedisPublisher(client *redis.Client, channel string) *RedisPublisher {
	return &RedisPublisher{client: client, channel: channel}
}

func (p *RedisPublisher) Publish(ctx context.Context, event string) error {
	if err := p.client.Publish(ctx, p.channel, event).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", p.channel, err)
	}
	return nil
}
