package realtime

import "peoplehub/internal/domain/notifications"

// Publisher adapts the hub to the notifications push hook.
type Publisher struct {
	Hub *Hub
}

func (p Publisher) Push(tenantID, userID string, n notifications.Notification) {
	if p.Hub == nil {
		return
	}
	p.Hub.PublishToUser(tenantID, userID, Event{Type: "notification", Payload: n, CreatedAt: n.CreatedAt})
}
