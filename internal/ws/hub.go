package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
)

// Hub хранит подключения клиентов, сгруппированные по топику.
type Hub struct {
	clients    map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan Message
	done       chan struct{} // Закрывается, когда Run завершился
	mu         sync.RWMutex
	log        *slog.Logger
}

// Message: сообщение для рассылки подписчикам топика.
type Message struct {
	Topic   string
	Payload []byte
}

func NewHub(log *slog.Logger) *Hub {
	if log == nil {
		log = slog.Default()
	}
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan Message, 256),
		done:       make(chan struct{}),
		log:        log.With("component", "ws"),
	}
}

// Run обрабатывает каналы хаба до отмены ctx. Повторно не запускается.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.Topic] == nil {
				h.clients[client.Topic] = make(map[*Client]bool)
			}
			h.clients[client.Topic][client] = true
			h.mu.Unlock()
		case client := <-h.unregister:
			h.mu.Lock()
			h.remove(client)
			h.mu.Unlock()
		case msg := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients[msg.Topic] {
				select {
				case client.Send <- msg.Payload:
				default:
					// медленный клиент
					h.remove(client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Done закрывается после остановки Run.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

// join регистрирует клиента. false: хаб уже остановлен.
func (h *Hub) join(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) leave(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) remove(client *Client) {
	clients, ok := h.clients[client.Topic]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}
	delete(clients, client)
	close(client.Send)
	if len(clients) == 0 {
		delete(h.clients, client.Topic)
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, clients := range h.clients {
		for client := range clients {
			h.remove(client)
		}
	}
}

// Deliver рассылает готовое сообщение локальным подписчикам.
func (h *Hub) Deliver(topic string, payload []byte) {
	select {
	case h.broadcast <- Message{Topic: topic, Payload: payload}:
	default:
		h.log.Warn("очередь рассылки переполнена, сообщение отброшено", "topic", topic)
	}
}

// Broadcast публикует событие подписчикам этого процесса.
func (h *Hub) Broadcast(_ context.Context, topic string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	h.Deliver(topic, raw)
	return nil
}

// Count: число подключений к топику.
func (h *Hub) Count(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[topic])
}
