package feed

import (
	"civicchain/backend/internal/models"
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DefaultChannel is the Redis channel complaint events travel on.
const DefaultChannel = "civicchain:feed"

// RedisBridge publishes events to Redis and relays every event received on
// the channel (including this instance's own) into the local hub.
type RedisBridge struct {
	Redis   *redis.Client
	Channel string
	Hub     Publisher
	logger  *zap.Logger
}

func NewRedisBridge(rdb *redis.Client, hub Publisher, logger *zap.Logger) *RedisBridge {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisBridge{Redis: rdb, Channel: DefaultChannel, Hub: hub, logger: logger}
}

// Publish sends event to every instance subscribed to the channel.
func (b *RedisBridge) Publish(ctx context.Context, event models.FeedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal feed event: %w", err)
	}
	if err := b.Redis.Publish(ctx, b.Channel, payload).Err(); err != nil {
		return fmt.Errorf("publish feed event: %w", err)
	}
	return nil
}

// Listen subscribes to the channel and forwards messages to the hub until ctx
// is cancelled.
func (b *RedisBridge) Listen(ctx context.Context) {
	pubsub := b.Redis.Subscribe(ctx, b.Channel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if err := b.HandlePayload(ctx, msg.Payload); err != nil {
				b.logger.Warn("dropping feed message", zap.Error(err))
			}
		}
	}
}

// HandlePayload decodes one Redis message and hands it to the hub.
func (b *RedisBridge) HandlePayload(ctx context.Context, payload string) error {
	var event models.FeedEvent
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		return fmt.Errorf("decode feed event: %w", err)
	}
	return b.Hub.Publish(ctx, event)
}
