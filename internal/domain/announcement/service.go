package announcement

import (
	"context"
	"errors"
	"strings"
	"time"

	"peoplehub/internal/domain/auth"
	"peoplehub/internal/domain/employee"
)

// EmployeeLookup resolves a reader's department.
type EmployeeLookup interface {
	GetByUserID(ctx context.Context, tenantID, userID string) (employee.Employee, error)
}

type Service struct {
	Store     *Store
	Employees EmployeeLookup
	Now       func() time.Time
}

func NewService(store *Store, employees EmployeeLookup) *Service {
	return &Service{Store: store, Employees: employees, Now: time.Now}
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

// Publish stores an announcement and returns it with the user ids of its
// audience for notification fan-out.
func (s *Service) Publish(ctx context.Context, user auth.UserContext, in Input) (Announcement, []string, error) {
	in, err := Normalize(in, s.now())
	if err != nil {
		return Announcement{}, nil, err
	}
	id, err := s.Store.Create(ctx, user.TenantID, user.UserID, in)
	if err != nil {
		return Announcement{}, nil, err
	}
	a, err := s.Store.Get(ctx, user.TenantID, user.UserID, id)
	if err != nil {
		return Announcement{}, nil, err
	}
	audience, err := s.Store.AudienceUserIDs(ctx, user.TenantID, a.Department)
	if err != nil {
		return a, nil, err
	}
	recipients := audience[:0]
	for _, uid := range audience {
		if uid != user.UserID {
			recipients = append(recipients, uid)
		}
	}
	return a, recipients, nil
}

func (s *Service) department(ctx context.Context, user auth.UserContext) (string, error) {
	if s.Employees == nil || user.EmployeeID == "" {
		return "", nil
	}
	emp, err := s.Employees.GetByUserID(ctx, user.TenantID, user.UserID)
	if errors.Is(err, employee.ErrEmployeeNotFound) {
		return "", nil
	}
	return emp.Department, err
}

// List gives HR and Admin every announcement. Other readers see live ones
// addressed to everyone or to their department.
func (s *Service) List(ctx context.Context, user auth.UserContext, filter Filter) ([]Announcement, int, error) {
	if !user.IsHROrAdmin() {
		dept, err := s.department(ctx, user)
		if err != nil {
			return nil, 0, err
		}
		now := s.now()
		filter.ActiveAt = &now
		filter.Audience = &dept
	}
	return s.Store.List(ctx, user.TenantID, user.UserID, filter)
}

func (s *Service) Get(ctx context.Context, user auth.UserContext, id string) (Announcement, error) {
	a, err := s.Store.Get(ctx, user.TenantID, user.UserID, id)
	if err != nil {
		return Announcement{}, err
	}
	if user.IsHROrAdmin() {
		return a, nil
	}
	dept, err := s.department(ctx, user)
	if err != nil {
		return Announcement{}, err
	}
	if !Visible(a, dept, s.now()) {
		return Announcement{}, ErrAnnouncementNotFound
	}
	return a, nil
}

func (s *Service) Update(ctx context.Context, user auth.UserContext, id string, in Input) (Announcement, Announcement, error) {
	before, err := s.Store.Get(ctx, user.TenantID, user.UserID, id)
	if err != nil {
		return Announcement{}, Announcement{}, err
	}
	if in.PublishAt == nil {
		in.PublishAt = &before.PublishAt
	}
	in, err = Normalize(in, s.now())
	if err != nil {
		return Announcement{}, Announcement{}, err
	}
	if err := s.Store.Update(ctx, user.TenantID, id, in); err != nil {
		return Announcement{}, Announcement{}, err
	}
	after, err := s.Store.Get(ctx, user.TenantID, user.UserID, id)
	return before, after, err
}

func (s *Service) Delete(ctx context.Context, user auth.UserContext, id string) (Announcement, error) {
	a, err := s.Store.Get(ctx, user.TenantID, user.UserID, id)
	if err != nil {
		return Announcement{}, err
	}
	return a, s.Store.Delete(ctx, user.TenantID, id)
}

func (s *Service) Comment(ctx context.Context, user auth.UserContext, id, body string) (Comment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return Comment{}, ErrEmptyComment
	}
	if _, err := s.Get(ctx, user, id); err != nil {
		return Comment{}, err
	}
	return s.Store.AddComment(ctx, id, user.UserID, body)
}

func (s *Service) MarkRead(ctx context.Context, user auth.UserContext, id string) error {
	if _, err := s.Get(ctx, user, id); err != nil {
		return err
	}
	return s.Store.MarkRead(ctx, id, user.UserID)
}
