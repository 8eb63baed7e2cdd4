package expense

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"peoplehub/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

const expenseColumns = `
    id, category, amount, description, expense_date, status,
    COALESCE(reference_type, ''), COALESCE(reference_id, ''), COALESCE(created_by::text, ''), created_at
`

func scanExpense(row pgx.Row) (Expense, error) {
	var e Expense
	err := row.Scan(&e.ID, &e.Category, &e.Amount, &e.Description, &e.ExpenseDate, &e.Status,
		&e.ReferenceType, &e.ReferenceID, &e.CreatedBy, &e.CreatedAt)
	return e, err
}

func (s *Store) Create(ctx context.Context, q querier.Querier, tenantID string, e Expense) (Expense, error) {
	if q == nil {
		q = s.DB
	}
	return scanExpense(q.QueryRow(ctx, `
    INSERT INTO expenses (tenant_id, category, amount, description, expense_date, status, reference_type, reference_id, created_by)
    VALUES ($1,$2,$3,$4,$5,$6,NULLIF($7, ''),NULLIF($8, ''),NULLIF($9, '')::uuid)
    RETURNING `+expenseColumns,
		tenantID, e.Category, e.Amount, e.Description, e.ExpenseDate, e.Status, e.ReferenceType, e.ReferenceID, e.CreatedBy))
}

func (s *Store) Get(ctx context.Context, tenantID, id string) (Expense, error) {
	e, err := scanExpense(s.DB.QueryRow(ctx, "SELECT "+expenseColumns+" FROM expenses WHERE tenant_id = $1 AND id = $2", tenantID, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Expense{}, ErrExpenseNotFound
	}
	return e, err
}

// ByReference returns the expense recorded for a source document, if any.
func (s *Store) ByReference(ctx context.Context, q querier.Querier, tenantID, refType, refID string) (Expense, bool, error) {
	if q == nil {
		q = s.DB
	}
	e, err := scanExpense(q.QueryRow(ctx, `
    SELECT `+expenseColumns+` FROM expenses
    WHERE tenant_id = $1 AND reference_type = $2 AND reference_id = $3
  `, tenantID, refType, refID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Expense{}, false, nil
	}
	if err != nil {
		return Expense{}, false, err
	}
	return e, true, nil
}

// CreateForReference records at most one expense per (referenceType,
// referenceId). It reports whether a new row was written.
func (s *Store) CreateForReference(ctx context.Context, q querier.Querier, tenantID string, e Expense) (Expense, bool, error) {
	if q == nil {
		q = s.DB
	}
	if existing, ok, err := s.ByReference(ctx, q, tenantID, e.ReferenceType, e.ReferenceID); err != nil || ok {
		return existing, false, err
	}
	created, err := scanExpense(q.QueryRow(ctx, `
    INSERT INTO expenses (tenant_id, category, amount, description, expense_date, status, reference_type, reference_id, created_by)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,NULLIF($9, '')::uuid)
    ON CONFLICT (tenant_id, reference_type, reference_id) WHERE reference_id IS NOT NULL DO NOTHING
    RETURNING `+expenseColumns,
		tenantID, e.Category, e.Amount, e.Description, e.ExpenseDate, e.Status, e.ReferenceType, e.ReferenceID, e.CreatedBy))
	if errors.Is(err, pgx.ErrNoRows) {
		existing, _, err := s.ByReference(ctx, q, tenantID, e.ReferenceType, e.ReferenceID)
		return existing, false, err
	}
	if err != nil {
		return Expense{}, false, err
	}
	return created, true, nil
}

func (s *Store) List(ctx context.Context, tenantID string, filter Filter) ([]Expense, int, error) {
	where := " WHERE tenant_id = $1"
	args := []any{tenantID}
	add := func(clause string, value any) {
		args = append(args, value)
		where += fmt.Sprintf(clause, len(args))
	}
	if filter.Category != "" {
		add(" AND category = $%d", filter.Category)
	}
	if filter.ReferenceType != "" {
		add(" AND reference_type = $%d", filter.ReferenceType)
	}
	if filter.From != nil {
		add(" AND expense_date >= $%d", *filter.From)
	}
	if filter.To != nil {
		add(" AND expense_date <= $%d", *filter.To)
	}

	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM expenses"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	query := "SELECT " + expenseColumns + " FROM expenses" + where +
		fmt.Sprintf(" ORDER BY expense_date DESC, created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	rows, err := s.DB.Query(ctx, query, append(args, filter.Limit, filter.Offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	out := []Expense{}
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, e)
	}
	return out, total, rows.Err()
}
