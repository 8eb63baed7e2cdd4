package shift

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"peoplehub/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

func (s *Store) List(ctx context.Context, tenantID string) ([]Shift, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, name, start_time, end_time, break_minutes, grace_minutes, created_at
    FROM shifts WHERE tenant_id = $1 ORDER BY name
  `, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Shift{}
	for rows.Next() {
		var sh Shift
		if err := rows.Scan(&sh.ID, &sh.Name, &sh.StartTime, &sh.EndTime, &sh.BreakMinutes, &sh.GraceMinutes, &sh.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, sh)
	}
	return out, rows.Err()
}

func (s *Store) Get(ctx context.Context, tenantID, id string) (Shift, error) {
	var sh Shift
	err := s.DB.QueryRow(ctx, `
    SELECT id, name, start_time, end_time, break_minutes, grace_minutes, created_at
    FROM shifts WHERE tenant_id = $1 AND id = $2
  `, tenantID, id).Scan(&sh.ID, &sh.Name, &sh.StartTime, &sh.EndTime, &sh.BreakMinutes, &sh.GraceMinutes, &sh.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Shift{}, ErrShiftNotFound
	}
	return sh, err
}

func (s *Store) Create(ctx context.Context, tenantID string, sh Shift) (Shift, error) {
	err := s.DB.QueryRow(ctx, `
    INSERT INTO shifts (tenant_id, name, start_time, end_time, break_minutes, grace_minutes)
    VALUES ($1,$2,$3,$4,$5,$6)
    RETURNING id, created_at
  `, tenantID, sh.Name, sh.StartTime, sh.EndTime, sh.BreakMinutes, sh.GraceMinutes).Scan(&sh.ID, &sh.CreatedAt)
	if querier.IsUniqueViolation(err) {
		return Shift{}, ErrDuplicateShift
	}
	return sh, err
}

func (s *Store) CreateAssignment(ctx context.Context, tenantID string, a Assignment) (Assignment, error) {
	err := s.DB.QueryRow(ctx, `
    INSERT INTO shift_assignments (tenant_id, employee_id, shift_id, start_date, end_date, recurrence)
    VALUES ($1,$2,$3,$4,$5,$6)
    RETURNING id, created_at
  `, tenantID, a.EmployeeID, a.ShiftID, a.StartDate, a.EndDate, a.Recurrence).Scan(&a.ID, &a.CreatedAt)
	if querier.IsForeignKeyViolation(err) {
		return Assignment{}, ErrUnknownEmployee
	}
	return a, err
}

// Assignments returns assignments overlapping [from, to], optionally for one employee.
func (s *Store) Assignments(ctx context.Context, tenantID, employeeID string, from, to time.Time) ([]Assignment, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, employee_id, shift_id, start_date, end_date, recurrence, created_at
    FROM shift_assignments
    WHERE tenant_id = $1
      AND ($2 = '' OR employee_id::text = $2)
      AND start_date <= $4
      AND (end_date IS NULL OR end_date >= $3)
    ORDER BY start_date
  `, tenantID, employeeID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Assignment{}
	for rows.Next() {
		var a Assignment
		if err := rows.Scan(&a.ID, &a.EmployeeID, &a.ShiftID, &a.StartDate, &a.EndDate, &a.Recurrence, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
