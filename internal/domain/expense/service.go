package expense

import (
	"context"
	"strings"
	"time"

	"peoplehub/internal/platform/querier"
)

type Service struct {
	Store *Store
}

func NewService(store *Store) *Service {
	return &Service{Store: store}
}

func (s *Service) Create(ctx context.Context, tenantID, actorID string, e Expense) (Expense, error) {
	if e.Amount <= 0 {
		return Expense{}, ErrInvalidAmount
	}
	if e.Status == "" {
		e.Status = StatusPending
	}
	if !validStatus(e.Status) {
		return Expense{}, ErrInvalidStatus
	}
	if e.ExpenseDate.IsZero() {
		e.ExpenseDate = time.Now().UTC()
	}
	e.Category = strings.TrimSpace(e.Category)
	e.CreatedBy = actorID
	return s.Store.Create(ctx, nil, tenantID, e)
}

func (s *Service) Get(ctx context.Context, tenantID, id string) (Expense, error) {
	return s.Store.Get(ctx, tenantID, id)
}

func (s *Service) List(ctx context.Context, tenantID string, filter Filter) ([]Expense, int, error) {
	return s.Store.List(ctx, tenantID, filter)
}

// CreateForReference is idempotent per reference. q lets the caller run it
// inside its own transaction.
func (s *Service) CreateForReference(ctx context.Context, q querier.Querier, tenantID string, e Expense) (Expense, bool, error) {
	if e.Amount < 0 {
		return Expense{}, false, ErrInvalidAmount
	}
	return s.Store.CreateForReference(ctx, q, tenantID, e)
}

func validStatus(status string) bool {
	for _, st := range Statuses {
		if st == status {
			return true
		}
	}
	return false
}
