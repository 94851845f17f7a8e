package events

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RedisPublisher appends events to a Redis stream so external consumers
// (notification workers, audit tooling) can pick them up.
type RedisPublisher struct {
	client *redis.Client
	stream string
	logger *zerolog.Logger
}

func NewRedisPublisher(client *redis.Client, stream string, logger *zerolog.Logger) *RedisPublisher {
	return &RedisPublisher{client: client, stream: stream, logger: logger}
}

// PublishJSON encodes the payload and appends it to the stream.
func (p *RedisPublisher) PublishJSON(eventType string, payload any) error {
	event, err := NewEvent(eventType, payload)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]any{
			"id":         event.ID,
			"type":       event.Type,
			"payload":    string(event.Payload),
			"created_at": event.CreatedAt.Format(time.RFC3339),
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("publish event %s: %w", eventType, err)
	}

	p.logger.Debug().Str("type", eventType).Str("event_id", event.ID).Msg("Event published")
	return nil
}
