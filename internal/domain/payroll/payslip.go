package payroll

import (
	"bytes"
	"fmt"
	"net/url"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/skip2/go-qrcode"
)

// VerifyLink is the URL encoded in a payslip's QR code.
func VerifyLink(base, tenantID string, p Payroll) string {
	if base == "" {
		return ""
	}
	q := url.Values{}
	q.Set("tenant", tenantID)
	q.Set("id", p.ID)
	q.Set("net", fmt.Sprintf("%.2f", p.NetSalary))
	return base + "?" + q.Encode()
}

// RenderPayslip draws a one-page A4 payslip. A non-empty verifyURL adds a QR
// code pointing at it.
func RenderPayslip(p Payroll, verifyURL string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Payslip %s %02d/%d", p.EmployeeName, p.Month, p.Year), true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Payslip")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	header := [][2]string{
		{"Employee", p.EmployeeName},
		{"Employee code", p.EmployeeCode},
		{"Period", fmt.Sprintf("%s %d", time.Month(p.Month).String(), p.Year)},
		{"Payment date", p.PaymentDate.Format("2006-01-02")},
		{"Payment status", p.PaymentStatus},
	}
	for _, row := range header {
		pdf.CellFormat(50, 7, row[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 7, row[1], "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(110, 8, "Component", "1", 0, "L", false, 0, "")
	pdf.CellFormat(50, 8, "Amount", "1", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	lines := []struct {
		label  string
		amount float64
	}{
		{"Basic salary", p.BasicSalary},
		{"Allowances", p.Allowances},
		{"Bonus", p.Bonus},
		{fmt.Sprintf("Overtime (%.2f h)", p.OvertimeHours), p.OvertimePay},
		{"Tax", -p.Tax},
		{fmt.Sprintf("Loss of pay (%.1f days)", p.LOPDays), -p.LOPDeduction},
		{"Deductions", -p.Deductions},
	}
	for _, line := range lines {
		pdf.CellFormat(110, 7, line.label, "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, 7, fmt.Sprintf("%.2f", line.amount), "1", 1, "R", false, 0, "")
	}
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(110, 8, "Net salary", "1", 0, "L", false, 0, "")
	pdf.CellFormat(50, 8, fmt.Sprintf("%.2f", p.NetSalary), "1", 1, "R", false, 0, "")

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "", 9)
	a := p.Attendance
	pdf.MultiCell(0, 5, fmt.Sprintf(
		"Working days %d, present %d, absent %d, half days %d, leave %d, holidays %d, weekly offs %d, sandwich days %d.",
		a.WorkingDays, a.PresentDays, a.AbsentDays, a.HalfDays, a.LeaveDays, a.Holidays, a.WeeklyOffs, a.SandwichDays,
	), "", "L", false)

	if verifyURL != "" {
		png, err := qrcode.Encode(verifyURL, qrcode.Medium, 256)
		if err != nil {
			return nil, fmt.Errorf("encode payslip qr: %w", err)
		}
		opts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("verify-qr", opts, bytes.NewReader(png))
		pdf.ImageOptions("verify-qr", 160, 20, 35, 35, false, opts, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
