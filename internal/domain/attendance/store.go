package attendance

import (
	"context"
	"errors"
	"fmt"
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

const logColumns = `
    a.id, a.employee_id, COALESCE(e.full_name, ''), a.date, a.status, a.check_in, a.check_out,
    a.worked_hours, a.overtime_hours, a.note, a.created_at, a.updated_at
`

func scanLog(row pgx.Row) (Log, error) {
	var l Log
	err := row.Scan(&l.ID, &l.EmployeeID, &l.EmployeeName, &l.Date, &l.Status, &l.CheckIn, &l.CheckOut,
		&l.WorkedHours, &l.OvertimeHours, &l.Note, &l.CreatedAt, &l.UpdatedAt)
	return l, err
}

func (s *Store) ForDay(ctx context.Context, tenantID, employeeID string, day time.Time) (Log, error) {
	l, err := scanLog(s.DB.QueryRow(ctx, `
    SELECT `+logColumns+`
    FROM attendance_logs a LEFT JOIN employees e ON e.id = a.employee_id
    WHERE a.tenant_id = $1 AND a.employee_id = $2 AND a.date = $3
  `, tenantID, employeeID, day))
	if errors.Is(err, pgx.ErrNoRows) {
		return Log{}, ErrAttendanceNotFound
	}
	return l, err
}

func (s *Store) Insert(ctx context.Context, tenantID string, l Log) (Log, error) {
	err := s.DB.QueryRow(ctx, `
    INSERT INTO attendance_logs (tenant_id, employee_id, date, status, check_in, check_out, worked_hours, overtime_hours, note)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
    RETURNING id, created_at, updated_at
  `, tenantID, l.EmployeeID, l.Date, l.Status, l.CheckIn, l.CheckOut, l.WorkedHours, l.OvertimeHours, l.Note).
		Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
	switch {
	case querier.IsUniqueViolation(err):
		return Log{}, ErrAlreadyCheckedIn
	case querier.IsForeignKeyViolation(err):
		return Log{}, ErrUnknownEmployee
	}
	return l, err
}

// CloseDay records the check-out only while the day is still open.
func (s *Store) CloseDay(ctx context.Context, tenantID, id string, l Log) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE attendance_logs
    SET check_out = $3, worked_hours = $4, overtime_hours = $5, status = $6, updated_at = now()
    WHERE tenant_id = $1 AND id = $2 AND check_out IS NULL
  `, tenantID, id, l.CheckOut, l.WorkedHours, l.OvertimeHours, l.Status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAlreadyCheckedOut
	}
	return nil
}

func (s *Store) Upsert(ctx context.Context, tenantID string, l Log) (Log, error) {
	err := s.DB.QueryRow(ctx, `
    INSERT INTO attendance_logs (tenant_id, employee_id, date, status, check_in, check_out, worked_hours, overtime_hours, note)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
    ON CONFLICT (tenant_id, employee_id, date) DO UPDATE
    SET status = EXCLUDED.status, check_in = EXCLUDED.check_in, check_out = EXCLUDED.check_out,
        worked_hours = EXCLUDED.worked_hours, overtime_hours = EXCLUDED.overtime_hours,
        note = EXCLUDED.note, updated_at = now()
    RETURNING id, created_at, updated_at
  `, tenantID, l.EmployeeID, l.Date, l.Status, l.CheckIn, l.CheckOut, l.WorkedHours, l.OvertimeHours, l.Note).
		Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
	if querier.IsForeignKeyViolation(err) {
		return Log{}, ErrUnknownEmployee
	}
	return l, err
}

func (s *Store) List(ctx context.Context, tenantID string, filter Filter) ([]Log, int, error) {
	where := " WHERE a.tenant_id = $1"
	args := []any{tenantID}
	add := func(clause string, value any) {
		args = append(args, value)
		where += fmt.Sprintf(clause, len(args))
	}
	if filter.EmployeeID != "" {
		add(" AND a.employee_id = $%d", filter.EmployeeID)
	}
	if filter.Status != "" {
		add(" AND a.status = $%d", filter.Status)
	}
	if filter.From != nil {
		add(" AND a.date >= $%d", *filter.From)
	}
	if filter.To != nil {
		add(" AND a.date <= $%d", *filter.To)
	}
	from := " FROM attendance_logs a LEFT JOIN employees e ON e.id = a.employee_id"

	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1)"+from+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	query := "SELECT " + logColumns + from + where +
		fmt.Sprintf(" ORDER BY a.date DESC, e.full_name LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	rows, err := s.DB.Query(ctx, query, append(args, filter.Limit, filter.Offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	out := []Log{}
	for rows.Next() {
		l, err := scanLog(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, l)
	}
	return out, total, rows.Err()
}

func (s *Store) MonthLogs(ctx context.Context, tenantID, employeeID string, from, to time.Time) ([]Log, error) {
	logs, _, err := s.List(ctx, tenantID, Filter{EmployeeID: employeeID, From: &from, To: &to, Limit: 62})
	return logs, err
}

// ApprovedLeaveDays expands approved leave requests overlapping [from, to]
// into one entry per day.
func (s *Store) ApprovedLeaveDays(ctx context.Context, tenantID, employeeID string, from, to time.Time) ([]LeaveDay, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT gs::date, lr.leave_type
    FROM leave_requests lr,
         generate_series(GREATEST(lr.start_date, $3::date), LEAST(lr.end_date, $4::date), interval '1 day') gs
    WHERE lr.tenant_id = $1 AND lr.employee_id = $2 AND lr.status = 'Approved'
      AND lr.start_date <= $4 AND lr.end_date >= $3
    ORDER BY gs
  `, tenantID, employeeID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []LeaveDay{}
	for rows.Next() {
		var d LeaveDay
		if err := rows.Scan(&d.Date, &d.Type); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
