package payroll

import (
	"context"
	"errors"
	"testing"
	"time"

	"peoplehub/internal/apperr"
	"peoplehub/internal/domain/attendance"
	"peoplehub/internal/domain/employee"
	"peoplehub/internal/domain/expense"
	"peoplehub/internal/platform/querier"
)

type fakeStore struct {
	records map[string]Payroll
	inserts int
}

func (f *fakeStore) Exists(_ context.Context, _, employeeID string, month, year int) (bool, error) {
	for _, p := range f.records {
		if p.EmployeeID == employeeID && p.Month == month && p.Year == year {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) Insert(_ context.Context, _ string, p Payroll) (Payroll, error) {
	f.inserts++
	p.ID = "p" + p.EmployeeID
	f.records[p.ID] = p
	return p, nil
}

func (f *fakeStore) Get(_ context.Context, _, id string) (Payroll, error) {
	p, ok := f.records[id]
	if !ok {
		return Payroll{}, ErrPayrollNotFound
	}
	return p, nil
}

func (f *fakeStore) List(context.Context, string, Filter) ([]Payroll, int, error) {
	return nil, 0, nil
}

func (f *fakeStore) WithLocked(ctx context.Context, tenantID, id string, fn func(tx querier.Querier, current Payroll) error) error {
	current, err := f.Get(ctx, tenantID, id)
	if err != nil {
		return err
	}
	return fn(nil, current)
}

func (f *fakeStore) SetStatus(_ context.Context, _ querier.Querier, _, id, status string, paidAt *time.Time) error {
	p := f.records[id]
	p.PaymentStatus = status
	p.PaidAt = paidAt
	f.records[id] = p
	return nil
}

func (f *fakeStore) SetPayslipURL(context.Context, string, string, string) error { return nil }

type fakeDirectory map[string]employee.Employee

func (f fakeDirectory) Get(_ context.Context, _, id string) (employee.Employee, error) {
	e, ok := f[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (f fakeDirectory) List(context.Context, string, employee.Filter) ([]employee.Employee, int, error) {
	return nil, 0, nil
}

type fakeAttendance struct {
	summary attendance.Summary
	err     error
}

func (f fakeAttendance) MonthSummary(context.Context, string, string, int, time.Month, bool) (attendance.Summary, error) {
	return f.summary, f.err
}

type fakeExpenses struct {
	byReference map[string]expense.Expense
}

func (f *fakeExpenses) CreateForReference(_ context.Context, _ querier.Querier, _ string, e expense.Expense) (expense.Expense, bool, error) {
	if existing, ok := f.byReference[e.ReferenceID]; ok {
		return existing, false, nil
	}
	f.byReference[e.ReferenceID] = e
	return e, true, nil
}

func newTestService(att fakeAttendance) (*Service, *fakeStore, *fakeExpenses) {
	store := &fakeStore{records: map[string]Payroll{}}
	expenses := &fakeExpenses{byReference: map[string]expense.Expense{}}
	dir := fakeDirectory{
		"e1": {ID: "e1", BasicSalary: 30000, Allowances: 2000, IsActive: true},
		"e2": {ID: "e2", BasicSalary: 20000, IsActive: false},
	}
	svc := NewService(store, dir, att, expenses, nil, "")
	svc.Now = func() time.Time { return time.Date(2026, 5, 7, 9, 0, 0, 0, time.UTC) }
	return svc, store, expenses
}

func TestGenerateStoresCalculation(t *testing.T) {
	summary := attendance.Summary{Year: 2026, Month: 4, OvertimeHours: 2, LOPDays: 1}
	svc, store, _ := newTestService(fakeAttendance{summary: summary})

	got, err := svc.Generate(context.Background(), "t1", "u-hr", GenerateInput{EmployeeID: "e1", Month: 4, Year: 2026, Bonus: 500})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	want := Calculate(CalcInput{BasicSalary: 30000, Allowances: 2000, Bonus: 500, Year: 2026, Month: time.April, Attendance: summary})
	if got.NetSalary != want.NetSalary || got.Deductions != 0 || got.PaymentStatus != StatusPending {
		t.Fatalf("unexpected payroll: %+v want net %v", got, want.NetSalary)
	}
	if !got.PaymentDate.Equal(DefaultPaymentDate(2026, time.April)) {
		t.Fatalf("unexpected payment date %v", got.PaymentDate)
	}
	if store.inserts != 1 {
		t.Fatalf("expected one insert, got %d", store.inserts)
	}
}

func TestGenerateRejections(t *testing.T) {
	ctx := context.Background()

	svc, store, _ := newTestService(fakeAttendance{})
	if _, err := svc.Generate(ctx, "t1", "u", GenerateInput{EmployeeID: "missing", Month: 4, Year: 2026}); !errors.Is(err, employee.ErrEmployeeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := svc.Generate(ctx, "t1", "u", GenerateInput{EmployeeID: "e2", Month: 4, Year: 2026}); !errors.Is(err, ErrInactiveEmployee) {
		t.Fatalf("expected inactive employee, got %v", err)
	}
	if _, err := svc.Generate(ctx, "t1", "u", GenerateInput{EmployeeID: "e1", Month: 13, Year: 2026}); !errors.Is(err, ErrInvalidPeriod) {
		t.Fatalf("expected invalid period, got %v", err)
	}

	if _, err := svc.Generate(ctx, "t1", "u", GenerateInput{EmployeeID: "e1", Month: 4, Year: 2026}); err != nil {
		t.Fatalf("first generate: %v", err)
	}
	_, err := svc.Generate(ctx, "t1", "u", GenerateInput{EmployeeID: "e1", Month: 4, Year: 2026})
	if !errors.Is(err, ErrDuplicatePayroll) || apperr.KindOf(err) != apperr.KindConflict {
		t.Fatalf("expected duplicate conflict, got %v", err)
	}
	if store.inserts != 1 {
		t.Fatalf("expected one insert, got %d", store.inserts)
	}
}

func TestGenerateAttendanceFailureWritesNothing(t *testing.T) {
	boom := errors.New("calendar unavailable")
	svc, store, _ := newTestService(fakeAttendance{err: boom})

	_, err := svc.Generate(context.Background(), "t1", "u", GenerateInput{EmployeeID: "e1", Month: 4, Year: 2026})
	if !errors.Is(err, boom) {
		t.Fatalf("expected attendance error, got %v", err)
	}
	if store.inserts != 0 || len(store.records) != 0 {
		t.Fatalf("nothing should be stored, got %d inserts", store.inserts)
	}
}

func TestUpdateStatusPaidOnce(t *testing.T) {
	svc, store, expenses := newTestService(fakeAttendance{})
	ctx := context.Background()
	p, err := svc.Generate(ctx, "t1", "u", GenerateInput{EmployeeID: "e1", Month: 4, Year: 2026})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	first, err := svc.UpdateStatus(ctx, "t1", "u-fin", p.ID, StatusPaid)
	if err != nil {
		t.Fatalf("pay: %v", err)
	}
	if !first.Changed || !first.ExpenseCreated || first.After.PaidAt == nil {
		t.Fatalf("unexpected first result: %+v", first)
	}
	booked := expenses.byReference[p.ID]
	if len(expenses.byReference) != 1 || booked.Amount != p.NetSalary || booked.Category != ExpenseCategory || booked.ReferenceType != ExpenseReferenceType {
		t.Fatalf("unexpected expense: %+v", expenses.byReference)
	}

	second, err := svc.UpdateStatus(ctx, "t1", "u-fin", p.ID, StatusPaid)
	if err != nil {
		t.Fatalf("pay again: %v", err)
	}
	if second.Changed || second.ExpenseCreated || len(expenses.byReference) != 1 {
		t.Fatalf("paying twice must be a no-op: %+v", second)
	}
	if store.records[p.ID].PaymentStatus != StatusPaid {
		t.Fatalf("unexpected stored status %q", store.records[p.ID].PaymentStatus)
	}

	if _, err := svc.UpdateStatus(ctx, "t1", "u-fin", p.ID, StatusPending); !errors.Is(err, ErrInvalidStatusChange) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, "t1", "u-fin", "nope", StatusPaid); !errors.Is(err, ErrPayrollNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateStatusFailedDoesNotBookExpense(t *testing.T) {
	svc, _, expenses := newTestService(fakeAttendance{})
	ctx := context.Background()
	p, err := svc.Generate(ctx, "t1", "u", GenerateInput{EmployeeID: "e1", Month: 4, Year: 2026})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	res, err := svc.UpdateStatus(ctx, "t1", "u-fin", p.ID, StatusFailed)
	if err != nil {
		t.Fatalf("fail: %v", err)
	}
	if !res.Changed || res.ExpenseCreated || res.After.PaidAt != nil || len(expenses.byReference) != 0 {
		t.Fatalf("unexpected result: %+v", res)
	}
}
