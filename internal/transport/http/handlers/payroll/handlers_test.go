package payrollhandler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"peoplehub/internal/transport/http/shared"
)

func TestGenerateRequestAcceptsClientFields(t *testing.T) {
	body := `{"employeeId":"7f1f0c1e-3c55-4a43-9d0e-3b1a2c4d5e6f","month":4,"year":2026,` +
		`"allowances":1500,"deductions":500,"bonus":250,"paymentDate":"2026-05-07","enableSandwichRule":true}`
	req := httptest.NewRequest(http.MethodPost, "/api/payroll/generate", strings.NewReader(body))
	rec := httptest.NewRecorder()

	var in generateRequest
	if !shared.DecodeJSON(rec, req, &in, "req-1") {
		t.Fatalf("expected payload to decode, got %d %s", rec.Code, rec.Body.String())
	}
	if !in.SandwichRule || in.Deductions == nil || *in.Deductions != 500 {
		t.Fatalf("unexpected request: %+v", in)
	}
}

func TestBulkRequestAcceptsClientFields(t *testing.T) {
	body := `{"month":4,"year":2026,"deductions":0,"enableSandwichRule":true}`
	req := httptest.NewRequest(http.MethodPost, "/api/payroll/generate-bulk", strings.NewReader(body))
	rec := httptest.NewRecorder()

	var in bulkRequest
	if !shared.DecodeJSON(rec, req, &in, "req-2") {
		t.Fatalf("expected payload to decode, got %d %s", rec.Code, rec.Body.String())
	}
	if !in.SandwichRule {
		t.Fatalf("expected sandwich rule enabled: %+v", in)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/payroll/generate-bulk", strings.NewReader(`{"month":4,"year":2026,"sandwichRule":true}`))
	rec = httptest.NewRecorder()
	if shared.DecodeJSON(rec, req, &bulkRequest{}, "req-3") || rec.Code != http.StatusBadRequest {
		t.Fatalf("expected unknown field to be rejected, got %d", rec.Code)
	}
}
