package ws

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusDeliversToHub(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR не задан")
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { rdb.Close() })

	hub := NewHub(log)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	// Клиент без соединения: сообщения читаются прямо из канала Send.
	topic := "outlet:" + uuid.NewString()
	client := &Client{Hub: hub, Send: make(chan []byte, 64), Topic: topic}
	go hub.Run(ctx)
	hub.register <- client

	bus := NewBus(rdb, hub, "walkin-test:", log)
	go bus.Listen(ctx)

	require.Eventually(t, func() bool {
		_ = bus.Broadcast(ctx, topic, map[string]string{"event_type": "entry_created"})
		select {
		case msg := <-client.Send:
			assert.JSONEq(t, `{"event_type":"entry_created"}`, string(msg))
			return true
		default:
			return false
		}
	}, 3*time.Second, 100*time.Millisecond)
}
