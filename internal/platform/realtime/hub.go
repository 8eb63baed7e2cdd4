// Package realtime pushes in-app notifications to connected SockJS sessions.
package realtime

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"
)

type Client struct {
	ID       string
	TenantID string
	UserID   string
	Send     chan []byte
}

type Event struct {
	Type      string    `json:"type"`
	Payload   any       `json:"payload"`
	CreatedAt time.Time `json:"createdAt"`
}

type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

func NewHub() *Hub {
	return &Hub{clients: make(map[string]*Client)}
}

func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client.ID] = client
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client.ID]; !ok {
		return
	}
	delete(h.clients, client.ID)
	close(client.Send)
}

func (h *Hub) Connected() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// PublishToUser delivers an event to every session of a user and returns the
// number of sessions reached. Slow sessions drop the message.
func (h *Hub) PublishToUser(tenantID, userID string, event Event) int {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	payload, err := json.Marshal(event)
	if err != nil {
		slog.Warn("realtime marshal failed", "err", err)
		return 0
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	delivered := 0
	for _, client := range h.clients {
		if client.TenantID != tenantID || client.UserID != userID {
			continue
		}
		select {
		case client.Send <- payload:
			delivered++
		default:
			slog.Warn("realtime drop message", "client_id", client.ID)
		}
	}
	return delivered
}
