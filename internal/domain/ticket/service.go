package ticket

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"peoplehub/internal/domain/auth"
	"peoplehub/internal/platform/querier"
	"peoplehub/internal/platform/storage"
)

const codeAttempts = 3

type Service struct {
	Store *Store
	Files storage.Store
	Now   func() time.Time
}

func NewService(store *Store, files storage.Store) *Service {
	return &Service{Store: store, Files: files, Now: time.Now}
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

func normalize(in *CreateInput) error {
	in.Subject = strings.TrimSpace(in.Subject)
	in.Description = strings.TrimSpace(in.Description)
	if in.Subject == "" {
		return ErrSubjectRequired
	}
	if !oneOf(in.Category, Categories) {
		return ErrInvalidCategory
	}
	if in.Priority == "" {
		in.Priority = "Medium"
	}
	if !oneOf(in.Priority, Priorities) {
		return ErrInvalidPriority
	}
	return nil
}

func (s *Service) Create(ctx context.Context, user auth.UserContext, in CreateInput) (Ticket, error) {
	if err := normalize(&in); err != nil {
		return Ticket{}, err
	}
	var err error
	for i := 0; i < codeAttempts; i++ {
		var t Ticket
		t, err = s.Store.Create(ctx, user.TenantID, NewCode(), user.UserID, in)
		if err == nil || !querier.IsUniqueViolation(err) {
			return t, err
		}
	}
	return Ticket{}, err
}

// canView allows the creator, the assignee, HR and Admin.
func canView(user auth.UserContext, t Ticket) bool {
	return user.UserID == t.RaisedBy || (t.AssigneeID != "" && t.AssigneeID == user.UserID) || user.IsHROrAdmin()
}

func (s *Service) Get(ctx context.Context, user auth.UserContext, id string) (Ticket, error) {
	t, err := s.Store.Detail(ctx, user.TenantID, id)
	if err != nil {
		return Ticket{}, err
	}
	if !canView(user, t) {
		return Ticket{}, ErrTicketNotFound
	}
	return t, nil
}

// List shows HR and Admin every ticket; others see tickets they raised or
// are assigned to.
func (s *Service) List(ctx context.Context, user auth.UserContext, filter Filter) ([]Ticket, int, error) {
	if !user.IsHROrAdmin() {
		filter.RaisedBy = user.UserID
		filter.AssigneeID = user.UserID
	}
	return s.Store.List(ctx, user.TenantID, filter)
}

func (s *Service) ChangeStatus(ctx context.Context, user auth.UserContext, id, to string) (Ticket, Ticket, error) {
	if !ValidStatus(to) {
		return Ticket{}, Ticket{}, ErrInvalidStatus
	}
	before, err := s.Store.Get(ctx, user.TenantID, id)
	if err != nil {
		return Ticket{}, Ticket{}, err
	}
	if !canView(user, before) {
		return Ticket{}, Ticket{}, ErrTicketNotFound
	}
	if !CanTransition(before.Status, to) {
		return Ticket{}, Ticket{}, ErrInvalidTransition
	}
	after := before
	after.Status = to
	switch to {
	case StatusResolved, StatusClosed:
		if after.ResolvedAt == nil {
			now := s.now()
			after.ResolvedAt = &now
		}
	case StatusReopened, StatusInProgress:
		after.ResolvedAt = nil
	}
	if err := s.Store.SetStatus(ctx, user.TenantID, id, before.Status, to, user.UserID, after.ResolvedAt); err != nil {
		return Ticket{}, Ticket{}, err
	}
	return before, after, nil
}

func (s *Service) Assign(ctx context.Context, user auth.UserContext, id, assigneeID string) (Ticket, Ticket, error) {
	before, err := s.Store.Get(ctx, user.TenantID, id)
	if err != nil {
		return Ticket{}, Ticket{}, err
	}
	if !user.IsHROrAdmin() {
		return Ticket{}, Ticket{}, ErrNotAllowed
	}
	if err := s.Store.Assign(ctx, user.TenantID, id, assigneeID); err != nil {
		return Ticket{}, Ticket{}, err
	}
	after := before
	after.AssigneeID = assigneeID
	return before, after, nil
}

func (s *Service) Reply(ctx context.Context, user auth.UserContext, id, body string) (Ticket, Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return Ticket{}, Message{}, ErrEmptyMessage
	}
	t, err := s.Store.Get(ctx, user.TenantID, id)
	if err != nil {
		return Ticket{}, Message{}, err
	}
	if !canView(user, t) {
		return Ticket{}, Message{}, ErrTicketNotFound
	}
	m, err := s.Store.AddMessage(ctx, id, user.UserID, body)
	return t, m, err
}

// Attach uploads file to object storage and records it against the ticket.
// The object is removed again when the row cannot be written.
func (s *Service) Attach(ctx context.Context, user auth.UserContext, id, fileName, contentType string, file io.Reader) (Attachment, error) {
	if s.Files == nil {
		return Attachment{}, ErrStorageUnavailable
	}
	t, err := s.Store.Get(ctx, user.TenantID, id)
	if err != nil {
		return Attachment{}, err
	}
	if !canView(user, t) {
		return Attachment{}, ErrTicketNotFound
	}
	info, err := s.Files.Save(ctx, storage.ObjectKey(user.TenantID, attachmentFolder, fileName), file, contentType)
	if err != nil {
		return Attachment{}, err
	}
	a, err := s.Store.AddAttachment(ctx, id, Attachment{
		FileName:    fileName,
		ContentType: contentType,
		FileSize:    info.FileSize,
		ObjectKey:   info.Key,
		URL:         info.URL,
		UploadedBy:  user.UserID,
	})
	if err != nil {
		if derr := s.Files.Delete(ctx, info.Key); derr != nil {
			slog.Warn("attachment cleanup failed", "key", info.Key, "err", derr)
		}
		return Attachment{}, err
	}
	return a, nil
}

// Delete removes the ticket and, best-effort, its stored attachments.
func (s *Service) Delete(ctx context.Context, user auth.UserContext, id string) (Ticket, error) {
	t, err := s.Store.Get(ctx, user.TenantID, id)
	if err != nil {
		return Ticket{}, err
	}
	if err := CanManage(user, t.RaisedBy); err != nil {
		return Ticket{}, err
	}
	attachments, err := s.Store.Attachments(ctx, id)
	if err != nil {
		return Ticket{}, err
	}
	if err := s.Store.Delete(ctx, user.TenantID, id); err != nil {
		return Ticket{}, err
	}
	if s.Files != nil {
		for _, a := range attachments {
			if err := s.Files.Delete(ctx, a.ObjectKey); err != nil {
				slog.Warn("attachment delete failed", "key", a.ObjectKey, "err", err)
			}
		}
	}
	return t, nil
}
