package notifications

import (
	"context"
	"fmt"
	"log/slog"
)

type Mailer interface {
	Send(ctx context.Context, from, to, subject, body string) error
}

// Pusher delivers a persisted notification to live sessions.
type Pusher interface {
	Push(tenantID, userID string, n Notification)
}

type Service struct {
	store       StoreAPI
	Mailer      Mailer
	Pusher      Pusher
	DefaultFrom string
}

func New(store StoreAPI, mailer Mailer) *Service {
	return &Service{store: store, Mailer: mailer, DefaultFrom: "no-reply@example.com"}
}

// Create stores an in-app notification, pushes it to live sessions and, when
// the tenant enabled it, mirrors it by email. Only the insert can fail the call.
func (s *Service) Create(ctx context.Context, tenantID, userID, ntype, title, body string) error {
	if userID == "" {
		return nil
	}
	n, err := s.store.CreateNotification(ctx, tenantID, userID, ntype, title, body)
	if err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	if s.Pusher != nil {
		s.Pusher.Push(tenantID, userID, n)
	}

	settings, err := s.store.EmailSettings(ctx, tenantID)
	if err != nil || !settings.EmailEnabled {
		return nil
	}
	if err := s.sendEmail(ctx, tenantID, userID, settings.EmailFrom, title, body); err != nil {
		slog.Warn("notification email send failed", "err", err, "user_id", userID)
	}
	return nil
}

// Email sends a direct email to a user regardless of the in-app mirror setting.
func (s *Service) Email(ctx context.Context, tenantID, userID, subject, body string) error {
	from := ""
	if settings, err := s.store.EmailSettings(ctx, tenantID); err == nil {
		from = settings.EmailFrom
	}
	return s.sendEmail(ctx, tenantID, userID, from, subject, body)
}

func (s *Service) sendEmail(ctx context.Context, tenantID, userID, from, subject, body string) error {
	if s.Mailer == nil || userID == "" {
		return nil
	}
	if from == "" {
		from = s.DefaultFrom
	}
	to, err := s.store.UserEmail(ctx, tenantID, userID)
	if err != nil {
		return fmt.Errorf("lookup email: %w", err)
	}
	if to == "" {
		return nil
	}
	return s.Mailer.Send(ctx, from, to, subject, body)
}

func (s *Service) UserIDsByRoles(ctx context.Context, tenantID string, roles ...string) ([]string, error) {
	return s.store.UserIDsByRoles(ctx, tenantID, roles)
}

func (s *Service) List(ctx context.Context, tenantID, userID string, unreadOnly bool, limit, offset int) ([]Notification, int, error) {
	items, err := s.store.ListNotifications(ctx, tenantID, userID, unreadOnly, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.store.CountNotifications(ctx, tenantID, userID, unreadOnly)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *Service) MarkRead(ctx context.Context, tenantID, userID, notificationID string) error {
	ok, err := s.store.MarkRead(ctx, tenantID, userID, notificationID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotificationNotFound
	}
	return nil
}

func (s *Service) MarkAllRead(ctx context.Context, tenantID, userID string) (int64, error) {
	return s.store.MarkAllRead(ctx, tenantID, userID)
}

func (s *Service) GetSettings(ctx context.Context, tenantID string) (Settings, error) {
	return s.store.EmailSettings(ctx, tenantID)
}

func (s *Service) UpdateSettings(ctx context.Context, tenantID string, settings Settings) error {
	return s.store.UpdateSettings(ctx, tenantID, settings)
}
