package shared

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
)

type leavePayload struct {
	LeaveType string `json:"leaveType" validate:"required,oneof=Casual Sick"`
	Reason    string `json:"reason" validate:"max=10"`
}

func TestValidateStructUsesJSONNames(t *testing.T) {
	issues := ValidateStruct(&leavePayload{Reason: "this reason is too long"})
	if len(issues) != 2 {
		t.Fatalf("expected 2 issues, got %+v", issues)
	}
	if issues[0].Field != "leaveType" || issues[0].Reason != "is required" {
		t.Fatalf("unexpected first issue: %+v", issues[0])
	}
	if issues[1].Field != "reason" {
		t.Fatalf("unexpected second issue: %+v", issues[1])
	}
}

func TestDecodeJSONRejectsUnknownFields(t *testing.T) {
	var dst leavePayload
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"leaveType":"Casual","extra":1}`))
	rec := httptest.NewRecorder()
	if DecodeJSON(rec, req, &dst, "req") {
		t.Fatal("expected decode to fail")
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestValidatorDateOrder(t *testing.T) {
	v := NewValidator()
	start, _ := v.Date("startDate", "2025-12-05")
	end, _ := v.Date("endDate", "2025-12-01")
	v.DateOrder("startDate", start, "endDate", end)
	if len(v.Issues()) != 2 {
		t.Fatalf("expected two ordering issues, got %+v", v.Issues())
	}
	rec := httptest.NewRecorder()
	if !v.Reject(rec, "req") || rec.Code != http.StatusBadRequest {
		t.Fatalf("expected rejection, got %d", rec.Code)
	}
}

func TestParseDateNormalizesRFC3339(t *testing.T) {
	got, err := ParseDate("2025-12-01T23:30:00+05:30")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got.Format(DateLayout) != "2025-12-01" {
		t.Fatalf("unexpected date %s", got)
	}
}

func TestClientIPIgnoresForwardedFromUntrustedPeer(t *testing.T) {
	t.Cleanup(func() { _ = TrustProxies(nil) })
	if err := TrustProxies(nil); err != nil {
		t.Fatalf("reset: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "198.51.100.7:1234"
	req.Header.Set("X-Forwarded-For", "203.0.113.5")
	req.Header.Set("X-Real-IP", "203.0.113.6")
	if got := ClientIP(req); got != "198.51.100.7" {
		t.Fatalf("expected peer address, got %s", got)
	}
}

func TestClientIPBehindTrustedProxy(t *testing.T) {
	t.Cleanup(func() { _ = TrustProxies(nil) })
	if err := TrustProxies([]string{"10.0.0.0/8", "192.0.2.1"}); err != nil {
		t.Fatalf("trust: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	if got := ClientIP(req); got != "10.0.0.1" {
		t.Fatalf("expected proxy address without headers, got %s", got)
	}
	// The left-most hop is client supplied; the nearest untrusted hop wins.
	req.Header.Set("X-Forwarded-For", "6.6.6.6, 203.0.113.5, 192.0.2.1")
	if got := ClientIP(req); got != "203.0.113.5" {
		t.Fatalf("expected nearest untrusted hop, got %s", got)
	}
	if err := TrustProxies([]string{"not-an-ip"}); err == nil {
		t.Fatal("expected error for malformed proxy entry")
	}
}

func TestDecodeOptionalJSONAcceptsEmptyChunkedBody(t *testing.T) {
	var payload struct {
		Comment string `json:"comment"`
	}
	req := httptest.NewRequest(http.MethodPut, "/", http.NoBody)
	req.ContentLength = -1
	rec := httptest.NewRecorder()
	if !DecodeOptionalJSON(rec, req, &payload, "req") {
		t.Fatalf("expected empty body to be accepted, got %d %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodPut, "/", bytes.NewBufferString(`{"comment":`))
	rec = httptest.NewRecorder()
	if DecodeOptionalJSON(rec, req, &payload, "req") || rec.Code != http.StatusBadRequest {
		t.Fatalf("expected truncated body to fail, got %d", rec.Code)
	}
}

func TestParsePaginationCaps(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?limit=500&offset=20", nil)
	p := ParsePagination(req, 20, 100)
	if p.Limit != 100 || p.Offset != 20 {
		t.Fatalf("unexpected pagination %+v", p)
	}
}

func TestParsePaginationPages(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?page=3&pageSize=25", nil)
	if p := ParsePagination(req, 20, 100); p.Limit != 25 || p.Offset != 50 {
		t.Fatalf("unexpected pagination %+v", p)
	}
	req = httptest.NewRequest(http.MethodGet, "/?page=0&limit=-4", nil)
	if p := ParsePagination(req, 20, 100); p.Limit != 20 || p.Offset != 0 {
		t.Fatalf("expected defaults, got %+v", p)
	}
}
