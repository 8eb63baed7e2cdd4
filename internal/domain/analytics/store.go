package analytics

import (
	"context"

	"peoplehub/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

// countBy runs a two-column (key, count) query into a map.
func (s *Store) countBy(ctx context.Context, sql string, args ...any) (map[string]int, error) {
	rows, err := s.DB.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[string]int{}
	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return nil, err
		}
		out[key] = n
	}
	return out, rows.Err()
}

func sum(m map[string]int) int {
	total := 0
	for _, n := range m {
		total += n
	}
	return total
}

func (s *Store) Workforce(ctx context.Context, tenantID string, r Range) (Workforce, error) {
	out := Workforce{Range: r}
	var err error
	if out.ByStatus, err = s.countBy(ctx, `
    SELECT status, COUNT(1) FROM employees WHERE tenant_id = $1 GROUP BY status
  `, tenantID); err != nil {
		return Workforce{}, err
	}
	if out.ByDepartment, err = s.countBy(ctx, `
    SELECT COALESCE(NULLIF(department, ''), 'Unassigned'), COUNT(1) FROM employees
    WHERE tenant_id = $1 AND is_active GROUP BY 1
  `, tenantID); err != nil {
		return Workforce{}, err
	}
	out.Active = sum(out.ByDepartment)
	err = s.DB.QueryRow(ctx, `
    SELECT
      COUNT(1) FILTER (WHERE date_of_joining <= $3 AND (exit_date IS NULL OR exit_date > $3)),
      COUNT(1) FILTER (WHERE date_of_joining BETWEEN $2 AND $3),
      COUNT(1) FILTER (WHERE exit_date BETWEEN $2 AND $3)
    FROM employees WHERE tenant_id = $1
  `, tenantID, r.Start, r.End).Scan(&out.Headcount, &out.Joined, &out.Exited)
	return out, err
}

func (s *Store) Attendance(ctx context.Context, tenantID string, r Range) (Attendance, error) {
	out := Attendance{Range: r}
	var err error
	if out.ByStatus, err = s.countBy(ctx, `
    SELECT status, COUNT(1) FROM attendance_logs
    WHERE tenant_id = $1 AND date BETWEEN $2 AND $3 GROUP BY status
  `, tenantID, r.Start, r.End); err != nil {
		return Attendance{}, err
	}
	out.Logs = sum(out.ByStatus)
	err = s.DB.QueryRow(ctx, `
    SELECT
      COALESCE(AVG(worked_hours) FILTER (WHERE check_out IS NOT NULL), 0)::float8,
      COALESCE(SUM(overtime_hours), 0)::float8
    FROM attendance_logs
    WHERE tenant_id = $1 AND date BETWEEN $2 AND $3
  `, tenantID, r.Start, r.End).Scan(&out.AvgWorkedHours, &out.OvertimeHours)
	if err != nil {
		return Attendance{}, err
	}
	out.AvgWorkedHours = round2(out.AvgWorkedHours)
	out.OvertimeHours = round2(out.OvertimeHours)
	out.LateRate = Rate(out.ByStatus["Late"], out.Logs)
	out.AbsenceRate = Rate(out.ByStatus["Absent"], out.Logs)
	return out, nil
}

func (s *Store) Leave(ctx context.Context, tenantID string, r Range) (Leave, error) {
	out := Leave{Range: r}
	var err error
	if out.ByStatus, err = s.countBy(ctx, `
    SELECT status, COUNT(1) FROM leave_requests
    WHERE tenant_id = $1 AND created_at >= $2 AND created_at < $3 GROUP BY status
  `, tenantID, r.Start, r.until()); err != nil {
		return Leave{}, err
	}
	if out.ByType, err = s.countBy(ctx, `
    SELECT leave_type, COUNT(1) FROM leave_requests
    WHERE tenant_id = $1 AND created_at >= $2 AND created_at < $3 GROUP BY leave_type
  `, tenantID, r.Start, r.until()); err != nil {
		return Leave{}, err
	}
	out.Requests = sum(out.ByStatus)
	err = s.DB.QueryRow(ctx, `
    SELECT
      COALESCE(SUM(total_days) FILTER (WHERE status = 'Approved'), 0),
      COALESCE(AVG(EXTRACT(EPOCH FROM (updated_at - created_at)) / 3600) FILTER (WHERE status <> 'Pending'), 0)::float8
    FROM leave_requests
    WHERE tenant_id = $1 AND created_at >= $2 AND created_at < $3
  `, tenantID, r.Start, r.until()).Scan(&out.DaysApproved, &out.AvgDecisionHours)
	if err != nil {
		return Leave{}, err
	}
	out.AvgDecisionHours = round2(out.AvgDecisionHours)
	out.ApprovalRate = Rate(out.ByStatus["Approved"], out.ByStatus["Approved"]+out.ByStatus["Rejected"])
	return out, nil
}

func (s *Store) Performance(ctx context.Context, tenantID string, r Range) (Performance, error) {
	out := Performance{Range: r}
	var err error
	if out.ByStatus, err = s.countBy(ctx, `
    SELECT status, COUNT(1) FROM tasks
    WHERE tenant_id = $1 AND created_at >= $2 AND created_at < $3 GROUP BY status
  `, tenantID, r.Start, r.until()); err != nil {
		return Performance{}, err
	}
	out.Tasks = sum(out.ByStatus)
	out.Completed = out.ByStatus["Completed"]
	err = s.DB.QueryRow(ctx, `
    SELECT
      COUNT(1) FILTER (WHERE status = 'Completed' AND (due_date IS NULL OR completed_at::date <= due_date)),
      COUNT(1) FILTER (WHERE status <> 'Completed' AND due_date < $4),
      COALESCE(AVG(progress), 0)::float8
    FROM tasks
    WHERE tenant_id = $1 AND created_at >= $2 AND created_at < $3
  `, tenantID, r.Start, r.until(), r.End).Scan(&out.CompletedOnTime, &out.Overdue, &out.AvgProgress)
	if err != nil {
		return Performance{}, err
	}
	out.AvgProgress = round2(out.AvgProgress)
	out.CompletionRate = Rate(out.Completed, out.Tasks)
	out.OnTimeRate = Rate(out.CompletedOnTime, out.Completed)
	return out, nil
}

// Payroll covers every payroll whose period month overlaps the range.
func (s *Store) Payroll(ctx context.Context, tenantID string, r Range) (Payroll, error) {
	out := Payroll{Range: r}
	const period = `make_date(p.year, p.month, 1) BETWEEN date_trunc('month', $2::date)::date AND $3`
	var err error
	if out.ByStatus, err = s.countBy(ctx, `
    SELECT p.payment_status, COUNT(1) FROM payrolls p
    WHERE p.tenant_id = $1 AND `+period+` GROUP BY p.payment_status
  `, tenantID, r.Start, r.End); err != nil {
		return Payroll{}, err
	}
	out.Payrolls = sum(out.ByStatus)
	err = s.DB.QueryRow(ctx, `
    SELECT
      COALESCE(SUM(p.net_salary), 0)::float8,
      COALESCE(SUM(p.net_salary) FILTER (WHERE p.payment_status = 'Paid'), 0)::float8,
      COALESCE(SUM(p.lop_deduction), 0)::float8,
      COALESCE(SUM(p.overtime_pay), 0)::float8
    FROM payrolls p
    WHERE p.tenant_id = $1 AND `+period,
		tenantID, r.Start, r.End).Scan(&out.TotalNet, &out.TotalPaid, &out.TotalLOP, &out.TotalOT)
	if err != nil {
		return Payroll{}, err
	}

	rows, err := s.DB.Query(ctx, `
    SELECT COALESCE(NULLIF(e.department, ''), 'Unassigned'), COALESCE(SUM(p.net_salary), 0)::float8
    FROM payrolls p JOIN employees e ON e.id = p.employee_id
    WHERE p.tenant_id = $1 AND `+period+`
    GROUP BY 1
  `, tenantID, r.Start, r.End)
	if err != nil {
		return Payroll{}, err
	}
	defer rows.Close()
	out.NetByDept = map[string]float64{}
	for rows.Next() {
		var dept string
		var net float64
		if err := rows.Scan(&dept, &net); err != nil {
			return Payroll{}, err
		}
		out.NetByDept[dept] = round2(net)
	}
	if out.Payrolls > 0 {
		out.AvgNetSalary = round2(out.TotalNet / float64(out.Payrolls))
	}
	out.TotalNet = round2(out.TotalNet)
	out.TotalPaid = round2(out.TotalPaid)
	out.TotalLOP = round2(out.TotalLOP)
	out.TotalOT = round2(out.TotalOT)
	return out, rows.Err()
}

func (s *Store) Tickets(ctx context.Context, tenantID string, r Range) (Tickets, error) {
	out := Tickets{Range: r}
	var err error
	if out.ByStatus, err = s.countBy(ctx, `
    SELECT status, COUNT(1) FROM tickets
    WHERE tenant_id = $1 AND created_at >= $2 AND created_at < $3 GROUP BY status
  `, tenantID, r.Start, r.until()); err != nil {
		return Tickets{}, err
	}
	if out.ByCategory, err = s.countBy(ctx, `
    SELECT category, COUNT(1) FROM tickets
    WHERE tenant_id = $1 AND created_at >= $2 AND created_at < $3 GROUP BY category
  `, tenantID, r.Start, r.until()); err != nil {
		return Tickets{}, err
	}
	out.Raised = sum(out.ByStatus)
	err = s.DB.QueryRow(ctx, `
    SELECT
      COUNT(1) FILTER (WHERE resolved_at IS NOT NULL),
      COALESCE(AVG(EXTRACT(EPOCH FROM (resolved_at - created_at)) / 3600) FILTER (WHERE resolved_at IS NOT NULL), 0)::float8
    FROM tickets
    WHERE tenant_id = $1 AND created_at >= $2 AND created_at < $3
  `, tenantID, r.Start, r.until()).Scan(&out.Resolved, &out.AvgResolutionHours)
	out.AvgResolutionHours = round2(out.AvgResolutionHours)
	return out, err
}

func (s *Store) Recruitment(ctx context.Context, tenantID string, r Range) (Recruitment, error) {
	out := Recruitment{Range: r}
	var err error
	if out.ByDepartment, err = s.countBy(ctx, `
    SELECT COALESCE(NULLIF(department, ''), 'Unassigned'), COUNT(1) FROM employees
    WHERE tenant_id = $1 AND date_of_joining BETWEEN $2 AND $3 GROUP BY 1
  `, tenantID, r.Start, r.End); err != nil {
		return Recruitment{}, err
	}
	out.Hires = sum(out.ByDepartment)
	err = s.DB.QueryRow(ctx, `
    SELECT COUNT(1) FROM employees
    WHERE tenant_id = $1 AND date_of_joining BETWEEN $2 AND $3 AND status IN ('Intern', 'Probation')
  `, tenantID, r.Start, r.End).Scan(&out.StillOnProbation)
	if err != nil {
		return Recruitment{}, err
	}
	err = s.DB.QueryRow(ctx, `
    SELECT COUNT(1), COALESCE(AVG(h.changed_at::date - e.date_of_joining), 0)::float8
    FROM employee_status_history h JOIN employees e ON e.id = h.employee_id
    WHERE h.tenant_id = $1 AND h.to_status = 'Confirmed' AND h.changed_at >= $2 AND h.changed_at < $3
  `, tenantID, r.Start, r.until()).Scan(&out.Confirmed, &out.AvgDaysToConfirm)
	out.AvgDaysToConfirm = round2(out.AvgDaysToConfirm)
	return out, err
}

func (s *Store) Attrition(ctx context.Context, tenantID string, r Range) (Attrition, error) {
	out := Attrition{Range: r}
	var err error
	if out.ByStatus, err = s.countBy(ctx, `
    SELECT status, COUNT(1) FROM employees
    WHERE tenant_id = $1 AND exit_date BETWEEN $2 AND $3 GROUP BY status
  `, tenantID, r.Start, r.End); err != nil {
		return Attrition{}, err
	}
	if out.ByDepartment, err = s.countBy(ctx, `
    SELECT COALESCE(NULLIF(department, ''), 'Unassigned'), COUNT(1) FROM employees
    WHERE tenant_id = $1 AND exit_date BETWEEN $2 AND $3 GROUP BY 1
  `, tenantID, r.Start, r.End); err != nil {
		return Attrition{}, err
	}
	out.Exits = sum(out.ByStatus)
	err = s.DB.QueryRow(ctx, `
    SELECT
      COUNT(1) FILTER (WHERE date_of_joining <= $2 AND (exit_date IS NULL OR exit_date >= $2)),
      COUNT(1) FILTER (WHERE date_of_joining <= $3 AND (exit_date IS NULL OR exit_date > $3))
    FROM employees WHERE tenant_id = $1
  `, tenantID, r.Start, r.End).Scan(&out.StartHeadcount, &out.EndHeadcount)
	if err != nil {
		return Attrition{}, err
	}
	err = s.DB.QueryRow(ctx, `
    SELECT COUNT(1) FROM employee_status_history
    WHERE tenant_id = $1 AND to_status = 'Resignation Submitted' AND changed_at >= $2 AND changed_at < $3
  `, tenantID, r.Start, r.until()).Scan(&out.Resignations)
	out.Rate = AttritionRate(out.Exits, out.StartHeadcount, out.EndHeadcount)
	return out, err
}
