package notifications

import "context"

type StoreAPI interface {
	CreateNotification(ctx context.Context, tenantID, userID, ntype, title, body string) (Notification, error)
	UserEmail(ctx context.Context, tenantID, userID string) (string, error)
	UserIDsByRoles(ctx context.Context, tenantID string, roles []string) ([]string, error)
	ListNotifications(ctx context.Context, tenantID, userID string, unreadOnly bool, limit, offset int) ([]Notification, error)
	CountNotifications(ctx context.Context, tenantID, userID string, unreadOnly bool) (int, error)
	MarkRead(ctx context.Context, tenantID, userID, notificationID string) (bool, error)
	MarkAllRead(ctx context.Context, tenantID, userID string) (int64, error)
	EmailSettings(ctx context.Context, tenantID string) (Settings, error)
	UpdateSettings(ctx context.Context, tenantID string, settings Settings) error
}
