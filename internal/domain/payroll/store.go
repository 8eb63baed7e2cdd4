package payroll

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"peoplehub/internal/platform/querier"
)

type Store struct {
	DB querier.TxBeginner
}

func NewStore(db querier.TxBeginner) *Store {
	return &Store{DB: db}
}

const payrollColumns = `
    p.id, p.employee_id, COALESCE(e.full_name, ''), COALESCE(e.employee_code, ''), p.month, p.year,
    p.basic_salary, p.allowances, p.bonus, p.deductions, p.days_in_month, p.basic_per_day, p.per_hour_salary,
    p.overtime_rate, p.overtime_hours, p.overtime_pay, p.lop_days, p.lop_deduction, p.tax, p.net_salary,
    p.attendance_json, p.sandwich_rule, p.payment_date, p.payment_status, p.paid_at, p.payslip_url,
    COALESCE(p.created_by::text, ''), p.created_at, p.updated_at
`

const payrollFrom = " FROM payrolls p LEFT JOIN employees e ON e.id = p.employee_id"

func scanPayroll(row pgx.Row) (Payroll, error) {
	var p Payroll
	var summary []byte
	err := row.Scan(
		&p.ID, &p.EmployeeID, &p.EmployeeName, &p.EmployeeCode, &p.Month, &p.Year,
		&p.BasicSalary, &p.Allowances, &p.Bonus, &p.Deductions, &p.DaysInMonth, &p.BasicPerDay, &p.PerHourSalary,
		&p.OvertimeRate, &p.OvertimeHours, &p.OvertimePay, &p.LOPDays, &p.LOPDeduction, &p.Tax, &p.NetSalary,
		&summary, &p.SandwichRule, &p.PaymentDate, &p.PaymentStatus, &p.PaidAt, &p.PayslipURL,
		&p.CreatedBy, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return Payroll{}, err
	}
	if len(summary) > 0 {
		if err := json.Unmarshal(summary, &p.Attendance); err != nil {
			return Payroll{}, fmt.Errorf("decode attendance summary: %w", err)
		}
	}
	return p, nil
}

func (s *Store) Exists(ctx context.Context, tenantID, employeeID string, month, year int) (bool, error) {
	var exists bool
	err := s.DB.QueryRow(ctx, `
    SELECT EXISTS (SELECT 1 FROM payrolls WHERE tenant_id = $1 AND employee_id = $2 AND month = $3 AND year = $4)
  `, tenantID, employeeID, month, year).Scan(&exists)
	return exists, err
}

// Insert recomputes the net from the stored components and writes the row.
// The period unique key turns a concurrent duplicate into ErrDuplicatePayroll.
func (s *Store) Insert(ctx context.Context, tenantID string, p Payroll) (Payroll, error) {
	p.NetSalary = RecomputeNet(p)
	summary, err := json.Marshal(p.Attendance)
	if err != nil {
		return Payroll{}, err
	}
	var id string
	err = s.DB.QueryRow(ctx, `
    INSERT INTO payrolls (tenant_id, employee_id, month, year, basic_salary, allowances, bonus, deductions,
      days_in_month, basic_per_day, per_hour_salary, overtime_rate, overtime_hours, overtime_pay,
      lop_days, lop_deduction, tax, net_salary, attendance_json, sandwich_rule, payment_date, payment_status, created_by)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,NULLIF($23, '')::uuid)
    RETURNING id
  `, tenantID, p.EmployeeID, p.Month, p.Year, p.BasicSalary, p.Allowances, p.Bonus, p.Deductions,
		p.DaysInMonth, p.BasicPerDay, p.PerHourSalary, p.OvertimeRate, p.OvertimeHours, p.OvertimePay,
		p.LOPDays, p.LOPDeduction, p.Tax, p.NetSalary, summary, p.SandwichRule, p.PaymentDate, p.PaymentStatus, p.CreatedBy,
	).Scan(&id)
	if querier.IsUniqueViolation(err) {
		return Payroll{}, ErrDuplicatePayroll
	}
	if err != nil {
		return Payroll{}, err
	}
	return s.Get(ctx, tenantID, id)
}

func (s *Store) Get(ctx context.Context, tenantID, id string) (Payroll, error) {
	p, err := scanPayroll(s.DB.QueryRow(ctx, "SELECT "+payrollColumns+payrollFrom+" WHERE p.tenant_id = $1 AND p.id = $2", tenantID, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Payroll{}, ErrPayrollNotFound
	}
	return p, err
}

// WithLocked loads the row FOR UPDATE and runs fn in the same transaction.
func (s *Store) WithLocked(ctx context.Context, tenantID, id string, fn func(tx querier.Querier, current Payroll) error) error {
	return querier.InTx(ctx, s.DB, func(tx pgx.Tx) error {
		current, err := scanPayroll(tx.QueryRow(ctx, "SELECT "+payrollColumns+payrollFrom+" WHERE p.tenant_id = $1 AND p.id = $2 FOR UPDATE OF p", tenantID, id))
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrPayrollNotFound
		}
		if err != nil {
			return err
		}
		return fn(tx, current)
	})
}

func (s *Store) SetStatus(ctx context.Context, q querier.Querier, tenantID, id, status string, paidAt *time.Time) error {
	_, err := q.Exec(ctx, `
    UPDATE payrolls SET payment_status = $3, paid_at = $4, updated_at = now()
    WHERE tenant_id = $1 AND id = $2
  `, tenantID, id, status, paidAt)
	return err
}

func (s *Store) SetPayslipURL(ctx context.Context, tenantID, id, url string) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE payrolls SET payslip_url = $3, updated_at = now()
    WHERE tenant_id = $1 AND id = $2
  `, tenantID, id, url)
	return err
}

func (s *Store) List(ctx context.Context, tenantID string, filter Filter) ([]Payroll, int, error) {
	where := " WHERE p.tenant_id = $1"
	args := []any{tenantID}
	add := func(clause string, value any) {
		args = append(args, value)
		where += fmt.Sprintf(clause, len(args))
	}
	if filter.EmployeeID != "" {
		add(" AND p.employee_id = $%d", filter.EmployeeID)
	}
	if filter.Month > 0 {
		add(" AND p.month = $%d", filter.Month)
	}
	if filter.Year > 0 {
		add(" AND p.year = $%d", filter.Year)
	}
	if filter.Status != "" {
		add(" AND p.payment_status = $%d", filter.Status)
	}

	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1)"+payrollFrom+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	query := "SELECT " + payrollColumns + payrollFrom + where +
		fmt.Sprintf(" ORDER BY p.year DESC, p.month DESC, e.full_name LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	rows, err := s.DB.Query(ctx, query, append(args, filter.Limit, filter.Offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	out := []Payroll{}
	for rows.Next() {
		p, err := scanPayroll(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}
