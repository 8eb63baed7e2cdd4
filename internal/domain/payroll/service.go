package payroll

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"peoplehub/internal/apperr"
	"peoplehub/internal/domain/attendance"
	"peoplehub/internal/domain/employee"
	"peoplehub/internal/domain/expense"
	"peoplehub/internal/platform/querier"
	"peoplehub/internal/platform/storage"
)

// StoreAPI is the payroll persistence used by Service.
type StoreAPI interface {
	Exists(ctx context.Context, tenantID, employeeID string, month, year int) (bool, error)
	Insert(ctx context.Context, tenantID string, p Payroll) (Payroll, error)
	Get(ctx context.Context, tenantID, id string) (Payroll, error)
	List(ctx context.Context, tenantID string, filter Filter) ([]Payroll, int, error)
	WithLocked(ctx context.Context, tenantID, id string, fn func(tx querier.Querier, current Payroll) error) error
	SetStatus(ctx context.Context, q querier.Querier, tenantID, id, status string, paidAt *time.Time) error
	SetPayslipURL(ctx context.Context, tenantID, id, url string) error
}

type EmployeeDirectory interface {
	Get(ctx context.Context, tenantID, employeeID string) (employee.Employee, error)
	List(ctx context.Context, tenantID string, filter employee.Filter) ([]employee.Employee, int, error)
}

type AttendanceSummaries interface {
	MonthSummary(ctx context.Context, tenantID, employeeID string, year int, month time.Month, sandwich bool) (attendance.Summary, error)
}

// ExpenseRecorder books the salary expense inside the status transaction.
type ExpenseRecorder interface {
	CreateForReference(ctx context.Context, q querier.Querier, tenantID string, e expense.Expense) (expense.Expense, bool, error)
}

type Service struct {
	Store      StoreAPI
	Employees  EmployeeDirectory
	Attendance AttendanceSummaries
	Expenses   ExpenseRecorder
	Files      storage.Store
	VerifyURL  string
	Now        func() time.Time
}

func NewService(store StoreAPI, employees EmployeeDirectory, att AttendanceSummaries, expenses ExpenseRecorder, files storage.Store, verifyURL string) *Service {
	return &Service{
		Store:      store,
		Employees:  employees,
		Attendance: att,
		Expenses:   expenses,
		Files:      files,
		VerifyURL:  verifyURL,
		Now:        time.Now,
	}
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

// Generate computes and stores one employee's payroll for a month. Nothing
// is written when the attendance summary cannot be built.
func (s *Service) Generate(ctx context.Context, tenantID, actorID string, in GenerateInput) (Payroll, error) {
	if in.Month < 1 || in.Month > 12 {
		return Payroll{}, ErrInvalidPeriod
	}
	emp, err := s.Employees.Get(ctx, tenantID, in.EmployeeID)
	if err != nil {
		return Payroll{}, err
	}
	if !emp.IsActive {
		return Payroll{}, ErrInactiveEmployee
	}
	exists, err := s.Store.Exists(ctx, tenantID, emp.ID, in.Month, in.Year)
	if err != nil {
		return Payroll{}, err
	}
	if exists {
		return Payroll{}, ErrDuplicatePayroll
	}

	month := time.Month(in.Month)
	summary, err := s.Attendance.MonthSummary(ctx, tenantID, emp.ID, in.Year, month, in.SandwichRule)
	if err != nil {
		return Payroll{}, fmt.Errorf("attendance summary: %w", err)
	}

	allowances := emp.Allowances
	if in.Allowances != nil {
		allowances = *in.Allowances
	}
	calc := Calculate(CalcInput{
		BasicSalary: emp.BasicSalary,
		Allowances:  allowances,
		Bonus:       in.Bonus,
		Year:        in.Year,
		Month:       month,
		Attendance:  summary,
	})
	paymentDate := DefaultPaymentDate(in.Year, month)
	if in.PaymentDate != nil {
		paymentDate = *in.PaymentDate
	}

	return s.Store.Insert(ctx, tenantID, Payroll{
		EmployeeID:    emp.ID,
		Month:         in.Month,
		Year:          in.Year,
		BasicSalary:   emp.BasicSalary,
		Allowances:    allowances,
		Bonus:         in.Bonus,
		DaysInMonth:   calc.DaysInMonth,
		BasicPerDay:   calc.BasicPerDay,
		PerHourSalary: calc.PerHourSalary,
		OvertimeRate:  calc.OvertimeRate,
		OvertimeHours: calc.OvertimeHours,
		OvertimePay:   calc.OvertimePay,
		LOPDays:       calc.LOPDays,
		LOPDeduction:  calc.LOPDeduction,
		Tax:           calc.Tax,
		NetSalary:     calc.NetSalary,
		Attendance:    summary,
		SandwichRule:  in.SandwichRule,
		PaymentDate:   paymentDate,
		PaymentStatus: StatusPending,
		CreatedBy:     actorID,
	})
}

// GenerateBulk runs Generate for every active employee. Employees already
// paid for the period are skipped; other failures are reported per employee.
func (s *Service) GenerateBulk(ctx context.Context, tenantID, actorID string, month, year int, sandwich bool) (BulkReport, error) {
	report := BulkReport{Month: month, Year: year, Skipped: []string{}, Failed: []string{}}
	if month < 1 || month > 12 {
		return report, ErrInvalidPeriod
	}
	const page = 200
	for offset := 0; ; offset += page {
		emps, _, err := s.Employees.List(ctx, tenantID, employee.Filter{ActiveOnly: true, Limit: page, Offset: offset})
		if err != nil {
			return report, err
		}
		for _, emp := range emps {
			_, err := s.Generate(ctx, tenantID, actorID, GenerateInput{EmployeeID: emp.ID, Month: month, Year: year, SandwichRule: sandwich})
			switch {
			case err == nil:
				report.Generated++
			case apperr.KindOf(err) == apperr.KindConflict:
				report.Skipped = append(report.Skipped, emp.ID)
			default:
				slog.Warn("bulk payroll generation failed", "employee_id", emp.ID, "err", err)
				report.Failed = append(report.Failed, emp.ID)
			}
		}
		if len(emps) < page {
			return report, nil
		}
	}
}

func (s *Service) Get(ctx context.Context, tenantID, id string) (Payroll, error) {
	return s.Store.Get(ctx, tenantID, id)
}

func (s *Service) List(ctx context.Context, tenantID string, filter Filter) ([]Payroll, int, error) {
	return s.Store.List(ctx, tenantID, filter)
}

// StatusResult describes an applied payment status change.
type StatusResult struct {
	Before         Payroll
	After          Payroll
	Changed        bool
	ExpenseCreated bool
}

// UpdateStatus applies a payment status transition. Moving to Paid records
// the salary expense in the same transaction; Paid to Paid changes nothing.
func (s *Service) UpdateStatus(ctx context.Context, tenantID, actorID, id, to string) (StatusResult, error) {
	var res StatusResult
	err := s.Store.WithLocked(ctx, tenantID, id, func(tx querier.Querier, current Payroll) error {
		res.Before, res.After = current, current
		noop, err := CheckTransition(current.PaymentStatus, to)
		if err != nil || noop {
			return err
		}

		var paidAt *time.Time
		if to == StatusPaid {
			now := s.now()
			paidAt = &now
		}
		if err := s.Store.SetStatus(ctx, tx, tenantID, id, to, paidAt); err != nil {
			return err
		}
		res.After.PaymentStatus = to
		res.After.PaidAt = paidAt
		res.Changed = true

		if to != StatusPaid {
			return nil
		}
		_, created, err := s.Expenses.CreateForReference(ctx, tx, tenantID, expense.Expense{
			Category:      ExpenseCategory,
			Amount:        current.NetSalary,
			Description:   fmt.Sprintf("Salary %s %02d/%d", current.EmployeeName, current.Month, current.Year),
			ExpenseDate:   *paidAt,
			Status:        expense.StatusPaid,
			ReferenceType: ExpenseReferenceType,
			ReferenceID:   current.ID,
			CreatedBy:     actorID,
		})
		res.ExpenseCreated = created
		return err
	})
	if err != nil {
		return StatusResult{}, err
	}
	return res, nil
}

// Payslip renders the PDF, stores it and records its URL. A storage failure
// is logged and the rendered document is still returned.
func (s *Service) Payslip(ctx context.Context, tenantID, id string) ([]byte, Payroll, error) {
	p, err := s.Store.Get(ctx, tenantID, id)
	if err != nil {
		return nil, Payroll{}, err
	}
	doc, err := RenderPayslip(p, VerifyLink(s.VerifyURL, tenantID, p))
	if err != nil {
		return nil, Payroll{}, err
	}
	if s.Files == nil {
		return doc, p, nil
	}
	name := fmt.Sprintf("payslip-%s-%d-%02d.pdf", p.EmployeeCode, p.Year, p.Month)
	info, err := s.Files.Save(ctx, storage.ObjectKey(tenantID, "payslips", name), bytes.NewReader(doc), "application/pdf")
	if err != nil {
		slog.Warn("payslip upload failed", "payroll_id", p.ID, "err", err)
		return doc, p, nil
	}
	if err := s.Store.SetPayslipURL(ctx, tenantID, p.ID, info.URL); err != nil {
		slog.Warn("payslip url update failed", "payroll_id", p.ID, "err", err)
		return doc, p, nil
	}
	p.PayslipURL = info.URL
	return doc, p, nil
}

func (s *Service) Register(ctx context.Context, tenantID string, month, year int) ([]byte, error) {
	if month < 1 || month > 12 {
		return nil, ErrInvalidPeriod
	}
	items, _, err := s.Store.List(ctx, tenantID, Filter{Month: month, Year: year, Limit: 10000})
	if err != nil {
		return nil, err
	}
	return RenderRegister(month, year, items)
}

// Verify reports whether a payslip QR payload matches a stored payroll.
func (s *Service) Verify(ctx context.Context, tenantID, id, net string) (bool, error) {
	p, err := s.Store.Get(ctx, tenantID, id)
	if errors.Is(err, ErrPayrollNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return fmt.Sprintf("%.2f", p.NetSalary) == net, nil
}
