package handlers_test

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"testing"
)

type payrollView struct {
	ID            string  `json:"id"`
	EmployeeID    string  `json:"employeeId"`
	NetSalary     float64 `json:"netSalary"`
	Deductions    float64 `json:"deductions"`
	SandwichRule  bool    `json:"sandwichRule"`
	PaymentStatus string  `json:"paymentStatus"`
}

func generatePayroll(t *testing.T, env *testEnv, employeeID string, month, year int) payrollView {
	t.Helper()
	resp := env.do(t, http.MethodPost, "/api/payroll/generate", env.Admin, map[string]any{
		"employeeId": employeeID,
		"month":      month,
		"year":       year,
	}, http.StatusCreated)
	var p payrollView
	decodeData(t, resp, &p)
	if p.ID == "" || p.PaymentStatus != "Pending" {
		t.Fatalf("unexpected payroll: %+v", p)
	}
	return p
}

func TestPayrollGenerateTwiceConflicts(t *testing.T) {
	env := setup(t)
	worker := env.createEmployee(t, "Employee", nil)

	generatePayroll(t, env, worker.ID, 3, 2025)
	resp := env.do(t, http.MethodPost, "/api/payroll/generate", env.Admin, map[string]any{
		"employeeId": worker.ID,
		"month":      3,
		"year":       2025,
	}, http.StatusBadRequest)
	if resp.Error == nil || resp.Error.Code != "conflict" {
		t.Fatalf("expected conflict error, got %+v", resp.Error)
	}
}

func TestPayrollGenerateAcceptsClientDeductions(t *testing.T) {
	env := setup(t)
	worker := env.createEmployee(t, "Employee", nil)

	resp := env.do(t, http.MethodPost, "/api/payroll/generate", env.Admin, map[string]any{
		"employeeId":         worker.ID,
		"month":              9,
		"year":               2025,
		"deductions":         500,
		"enableSandwichRule": true,
	}, http.StatusCreated)
	var p payrollView
	decodeData(t, resp, &p)
	if p.Deductions != 0 || !p.SandwichRule {
		t.Fatalf("expected ignored deductions and sandwich rule on, got %+v", p)
	}

	env.do(t, http.MethodPost, "/api/payroll/generate-bulk", env.Admin, map[string]any{
		"month":              10,
		"year":               2025,
		"deductions":         500,
		"enableSandwichRule": true,
	}, http.StatusAccepted)
}

func TestPayrollGenerateReplaysIdempotencyKey(t *testing.T) {
	env := setup(t)
	worker := env.createEmployee(t, "Employee", nil)
	body := map[string]any{"employeeId": worker.ID, "month": 4, "year": 2025}
	key := map[string]string{"Idempotency-Key": fmt.Sprintf("gen-%s", worker.ID)}

	first := env.doWithHeaders(t, http.MethodPost, "/api/payroll/generate", env.Admin, body, key, http.StatusCreated)
	second := env.doWithHeaders(t, http.MethodPost, "/api/payroll/generate", env.Admin, body, key, http.StatusCreated)
	var a, b payrollView
	decodeData(t, first, &a)
	decodeData(t, second, &b)
	if a.ID != b.ID {
		t.Fatalf("expected replayed payroll %s, got %s", a.ID, b.ID)
	}

	body["month"] = 5
	env.doWithHeaders(t, http.MethodPost, "/api/payroll/generate", env.Admin, body, key, http.StatusConflict)
}

func TestPayrollPaidTwiceRecordsOneExpense(t *testing.T) {
	env := setup(t)
	worker := env.createEmployee(t, "Employee", nil)
	p := generatePayroll(t, env, worker.ID, 6, 2025)

	env.do(t, http.MethodPut, "/api/payroll/"+p.ID+"/status", env.Admin, map[string]any{"paymentStatus": "Paid"}, http.StatusOK)
	resp := env.do(t, http.MethodPut, "/api/payroll/"+p.ID+"/status", env.Admin, map[string]any{"paymentStatus": "Paid"}, http.StatusOK)
	var after payrollView
	decodeData(t, resp, &after)
	if after.PaymentStatus != "Paid" {
		t.Fatalf("expected Paid, got %+v", after)
	}

	var count int
	if err := env.App.DB.QueryRow(context.Background(),
		"SELECT count(*) FROM expenses WHERE reference_type = 'payroll' AND reference_id = $1", p.ID).Scan(&count); err != nil {
		t.Fatalf("failed to count expenses: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one payroll expense, got %d", count)
	}

	env.do(t, http.MethodPut, "/api/payroll/"+p.ID+"/status", env.Admin, map[string]any{"paymentStatus": "Pending"}, http.StatusConflict)
}

func TestPayrollVisibleOnlyToOwnerAndPayrollReaders(t *testing.T) {
	env := setup(t)
	worker := env.createEmployee(t, "Employee", nil)
	other := env.createEmployee(t, "Employee", nil)
	p := generatePayroll(t, env, worker.ID, 7, 2025)

	env.do(t, http.MethodGet, "/api/payroll/"+p.ID, worker.Token, nil, http.StatusOK)
	env.do(t, http.MethodGet, "/api/payroll/"+p.ID, other.Token, nil, http.StatusNotFound)
	env.do(t, http.MethodGet, "/api/payroll", other.Token, nil, http.StatusForbidden)

	resp := env.do(t, http.MethodGet, "/api/payroll/me", worker.Token, nil, http.StatusOK)
	var mine []payrollView
	decodeData(t, resp, &mine)
	if len(mine) != 1 || mine[0].ID != p.ID {
		t.Fatalf("expected own payroll only, got %+v", mine)
	}
}

func TestPayslipVerification(t *testing.T) {
	env := setup(t)
	worker := env.createEmployee(t, "Employee", nil)
	p := generatePayroll(t, env, worker.ID, 8, 2025)

	var tenantID string
	if err := env.App.DB.QueryRow(context.Background(), "SELECT tenant_id FROM payrolls WHERE id = $1", p.ID).Scan(&tenantID); err != nil {
		t.Fatalf("failed to load tenant: %v", err)
	}

	check := func(net string) bool {
		q := url.Values{"tenant": {tenantID}, "id": {p.ID}, "net": {net}}
		resp := env.do(t, http.MethodGet, "/api/payroll/verify?"+q.Encode(), "", nil, http.StatusOK)
		var out struct {
			Valid bool `json:"valid"`
		}
		decodeData(t, resp, &out)
		return out.Valid
	}
	if !check(fmt.Sprintf("%.2f", p.NetSalary)) {
		t.Fatal("expected matching net salary to verify")
	}
	if check(fmt.Sprintf("%.2f", p.NetSalary+1)) {
		t.Fatal("expected mismatched net salary to fail verification")
	}
}
