package events

import (
	"context"
	"fmt"

	"github.com/jaineet17/AWS-File-Processing-System/internal/logging"
	"github.com/redis/go-redis/v9"
)

// RedisOptions configures the Redis pub/sub bus.
type RedisOptions struct {
	Addr    string
	Channel string
}

type redisPublisher interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
}

// RedisBus uses Redis pub/sub. Delivery is at-most-once: events published
// while no trigger is subscribed are lost.
type RedisBus struct {
	client  *redis.Client
	pub     redisPublisher
	channel string
	logger  logging.Logger
}

func NewRedisBus(o RedisOptions, logger logging.Logger) *RedisBus {
	client := redis.NewClient(&redis.Options{Addr: o.Addr})
	return &RedisBus{
		client:  client,
		pub:     client,
		channel: o.Channel,
		logger:  logger.With("module", "redis_bus", "channel", o.Channel),
	}
}

func (b *RedisBus) Publish(ctx context.Context, ev WriteEvent) error {
	payload, err := Encode(ev)
	if err != nil {
		return err
	}
	if err := b.pub.Publish(ctx, b.channel, payload).Err(); err != nil {
		return fmt.Errorf("publishing to redis: %w", err)
	}
	return nil
}

func (b *RedisBus) Subscribe(ctx context.Context, h Handler) error {
	ps := b.client.Subscribe(ctx, b.channel)
	defer ps.Close()

	if _, err := ps.Receive(ctx); err != nil {
		return fmt.Errorf("subscribing to %s: %w", b.channel, err)
	}
	b.logger.Info(ctx, "subscribed")

	ch := ps.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			b.deliver(ctx, msg.Payload, h)
		}
	}
}

func (b *RedisBus) deliver(ctx context.Context, payload string, h Handler) {
	ev, err := Decode([]byte(payload))
	if err != nil {
		b.logger.Error(ctx, "skipping undecodable message", "error", err)
		return
	}
	if err := h(ctx, ev); err != nil {
		b.logger.Error(ctx, "event handler failed", "record_id", ev.RecordID, "error", err)
	}
}

func (b *RedisBus) Close() error {
	return b.client.Close()
}
