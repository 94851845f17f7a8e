package events

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_PublishJSONNotifiesSubscribers(t *testing.T) {
	bus := NewBus()

	var got []Event
	bus.Subscribe("reservation.created", func(e Event) error {
		got = append(got, e)
		return nil
	})
	bus.Subscribe("reservation.deleted", func(e Event) error {
		t.Fatal("wrong event type delivered")
		return nil
	})

	err := bus.PublishJSON("reservation.created", map[string]any{"space_id": 1})
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, "reservation.created", got[0].Type)
	assert.NotEmpty(t, got[0].ID)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(got[0].Payload, &payload))
	assert.Equal(t, float64(1), payload["space_id"])
}

func TestBus_NoSubscribers(t *testing.T) {
	bus := NewBus()
	assert.NoError(t, bus.PublishJSON("reservation.created", struct{}{}))
}

func TestRedisPublisher_AppendsToStream(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	logger := zerolog.Nop()
	pub := NewRedisPublisher(client, "reservas:events", &logger)

	err := pub.PublishJSON("reservation.created", map[string]any{"office_id": 7})
	require.NoError(t, err)

	entries, err := client.XRange(context.Background(), "reservas:events", "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, entries, 1)

	assert.Equal(t, "reservation.created", entries[0].Values["type"])
	assert.NotEmpty(t, entries[0].Values["id"])
	assert.Contains(t, entries[0].Values["payload"], `"office_id":7`)
}

func TestRedisPublisher_ServerDown(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	mr.Close()

	logger := zerolog.Nop()
	pub := NewRedisPublisher(client, "reservas:events", &logger)
	assert.Error(t, pub.PublishJSON("reservation.created", struct{}{}))
}
