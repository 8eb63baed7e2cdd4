package shift

import (
	"context"
	"strings"
	"time"
)

type StoreAPI interface {
	List(ctx context.Context, tenantID string) ([]Shift, error)
	Get(ctx context.Context, tenantID, id string) (Shift, error)
	Create(ctx context.Context, tenantID string, sh Shift) (Shift, error)
	CreateAssignment(ctx context.Context, tenantID string, a Assignment) (Assignment, error)
	Assignments(ctx context.Context, tenantID, employeeID string, from, to time.Time) ([]Assignment, error)
}

type Service struct {
	Store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{Store: store}
}

func (s *Service) List(ctx context.Context, tenantID string) ([]Shift, error) {
	return s.Store.List(ctx, tenantID)
}

func (s *Service) Create(ctx context.Context, tenantID string, sh Shift) (Shift, error) {
	sh.Name = strings.TrimSpace(sh.Name)
	if _, ok := ParseClock(sh.StartTime); !ok {
		return Shift{}, ErrInvalidTime
	}
	if _, ok := ParseClock(sh.EndTime); !ok {
		return Shift{}, ErrInvalidEndTime
	}
	return s.Store.Create(ctx, tenantID, sh)
}

func (s *Service) Assign(ctx context.Context, tenantID string, a Assignment) (Assignment, error) {
	a.StartDate = dayOf(a.StartDate)
	if a.EndDate != nil {
		end := dayOf(*a.EndDate)
		if end.Before(a.StartDate) {
			return Assignment{}, ErrEndBeforeStart
		}
		a.EndDate = &end
	}
	a.Recurrence = strings.TrimPrefix(strings.TrimSpace(a.Recurrence), "RRULE:")
	if _, err := recurrence(a); err != nil {
		return Assignment{}, err
	}
	if _, err := s.Store.Get(ctx, tenantID, a.ShiftID); err != nil {
		return Assignment{}, err
	}
	return s.Store.CreateAssignment(ctx, tenantID, a)
}

func (s *Service) Roster(ctx context.Context, tenantID, employeeID string, from, to time.Time) ([]RosterEntry, error) {
	assignments, err := s.Store.Assignments(ctx, tenantID, employeeID, dayOf(from), dayOf(to))
	if err != nil {
		return nil, err
	}
	shifts, err := s.shiftMap(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return Expand(assignments, shifts, from, to), nil
}

// ShiftOn returns the shift the employee is rostered on for day, if any.
func (s *Service) ShiftOn(ctx context.Context, tenantID, employeeID string, day time.Time) (Shift, bool, error) {
	entries, err := s.Roster(ctx, tenantID, employeeID, day, day)
	if err != nil || len(entries) == 0 {
		return Shift{}, false, err
	}
	sh, err := s.Store.Get(ctx, tenantID, entries[0].ShiftID)
	if err != nil {
		return Shift{}, false, err
	}
	return sh, true, nil
}

func (s *Service) shiftMap(ctx context.Context, tenantID string) (map[string]Shift, error) {
	list, err := s.Store.List(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	out := make(map[string]Shift, len(list))
	for _, sh := range list {
		out[sh.ID] = sh
	}
	return out, nil
}
