package calendar

import (
	"context"
	"strings"
	"time"
)

type StoreAPI interface {
	Holidays(ctx context.Context, tenantID string, from, to time.Time) ([]Holiday, error)
	CreateHoliday(ctx context.Context, tenantID string, h Holiday) (Holiday, error)
	DeleteHoliday(ctx context.Context, tenantID, id string) (Holiday, error)
	WeeklyOffRule(ctx context.Context, tenantID string) (string, error)
	SetWeeklyOffRule(ctx context.Context, tenantID, rule string) error
}

type Service struct {
	Store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{Store: store}
}

func (s *Service) Holidays(ctx context.Context, tenantID string, from, to time.Time) ([]Holiday, error) {
	return s.Store.Holidays(ctx, tenantID, day(from), day(to))
}

func (s *Service) AddHoliday(ctx context.Context, tenantID string, date time.Time, name string) (Holiday, error) {
	return s.Store.CreateHoliday(ctx, tenantID, Holiday{Date: day(date), Name: strings.TrimSpace(name)})
}

func (s *Service) RemoveHoliday(ctx context.Context, tenantID, id string) (Holiday, error) {
	return s.Store.DeleteHoliday(ctx, tenantID, id)
}

func (s *Service) WeeklyOff(ctx context.Context, tenantID string) (WeeklyOff, error) {
	rule, err := s.Store.WeeklyOffRule(ctx, tenantID)
	if err != nil {
		return WeeklyOff{}, err
	}
	return WeeklyOff{Rule: rule}, nil
}

func (s *Service) SetWeeklyOff(ctx context.Context, tenantID, rule string) (WeeklyOff, error) {
	rule = strings.TrimPrefix(strings.TrimSpace(rule), "RRULE:")
	if _, err := ParseRule(rule); err != nil || rule == "" {
		return WeeklyOff{}, ErrInvalidRule
	}
	if err := s.Store.SetWeeklyOffRule(ctx, tenantID, rule); err != nil {
		return WeeklyOff{}, err
	}
	return WeeklyOff{Rule: rule}, nil
}

// ForRange builds the tenant calendar covering [from, to].
func (s *Service) ForRange(ctx context.Context, tenantID string, from, to time.Time) (*Calendar, error) {
	rule, err := s.Store.WeeklyOffRule(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	holidays, err := s.Store.Holidays(ctx, tenantID, day(from), day(to))
	if err != nil {
		return nil, err
	}
	return New(rule, holidays, from, to)
}
