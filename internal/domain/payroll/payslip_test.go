package payroll

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func samplePayroll() Payroll {
	return Payroll{
		ID:            "11111111-2222-3333-4444-555555555555",
		EmployeeName:  "Asha Rao",
		EmployeeCode:  "EMP0001",
		Month:         3,
		Year:          2026,
		BasicSalary:   31000,
		NetSalary:     30225,
		Tax:           775,
		PaymentDate:   time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC),
		PaymentStatus: StatusPending,
	}
}

func TestRenderPayslipWithQR(t *testing.T) {
	p := samplePayroll()
	doc, err := RenderPayslip(p, VerifyLink("https://hr.example/verify", "tenant-1", p))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(doc, []byte("%PDF")) {
		t.Fatalf("expected pdf output, got %q", doc[:8])
	}
}

func TestVerifyLink(t *testing.T) {
	link := VerifyLink("https://hr.example/verify", "tenant-1", samplePayroll())
	if !strings.Contains(link, "net=30225.00") || !strings.Contains(link, "tenant=tenant-1") || !strings.HasPrefix(link, "https://hr.example/verify?") {
		t.Fatalf("unexpected link %q", link)
	}
	if VerifyLink("", "tenant-1", samplePayroll()) != "" {
		t.Fatal("expected empty link without base")
	}
}

func TestRenderRegister(t *testing.T) {
	doc, err := RenderRegister(3, 2026, []Payroll{samplePayroll()})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	// XLSX is a zip container.
	if !bytes.HasPrefix(doc, []byte("PK")) {
		t.Fatal("expected zip output")
	}
}
