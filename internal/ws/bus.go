package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/go-redis/redis/v8"
)

const DefaultPrefix = "walkin:"

// Bus рассылает события через Redis pub/sub, чтобы их получили
// подписчики всех экземпляров сервиса.
type Bus struct {
	rdb    *redis.Client
	hub    *Hub
	prefix string
	log    *slog.Logger
}

func NewBus(rdb *redis.Client, hub *Hub, prefix string, log *slog.Logger) *Bus {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if log == nil {
		log = slog.Default()
	}
	return &Bus{rdb: rdb, hub: hub, prefix: prefix, log: log.With("component", "ws-bus")}
}

func (b *Bus) Broadcast(ctx context.Context, topic string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, b.prefix+topic, raw).Err()
}

// Listen передаёт сообщения из Redis в хаб до отмены ctx.
func (b *Bus) Listen(ctx context.Context) error {
	sub := b.rdb.PSubscribe(ctx, b.prefix+"*")
	defer sub.Close()
	if _, err := sub.Receive(ctx); err != nil {
		return err
	}
	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			b.hub.Deliver(strings.TrimPrefix(msg.Channel, b.prefix), []byte(msg.Payload))
		}
	}
}
