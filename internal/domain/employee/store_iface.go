package employee

import (
	"context"

	"peoplehub/internal/platform/querier"
)

type StoreAPI interface {
	Get(ctx context.Context, tenantID, employeeID string) (Employee, error)
	GetByUserID(ctx context.Context, tenantID, userID string) (Employee, error)
	List(ctx context.Context, tenantID string, filter Filter) ([]Employee, int, error)
	Exists(ctx context.Context, tenantID, employeeID string) (bool, error)
	Create(ctx context.Context, tenantID, actorID string, in CreateInput, fullName, passwordHash string) (Employee, error)
	Update(ctx context.Context, tenantID, employeeID string, emp Employee) error
	SetStatus(ctx context.Context, q querier.Querier, tenantID, employeeID, from, to, actorID, note string, emp Employee) error
	SaveResignation(ctx context.Context, q querier.Querier, tenantID, employeeID string, res *Resignation) error
	History(ctx context.Context, tenantID, employeeID string) ([]StatusChange, error)
	InTx(ctx context.Context, fn func(q querier.Querier) error) error
}
