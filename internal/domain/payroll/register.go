package payroll

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

var registerHeader = []string{
	"Employee Code", "Employee", "Month", "Year", "Basic", "Allowances", "Bonus", "Overtime Pay",
	"Tax", "LOP Days", "LOP Deduction", "Deductions", "Net", "Payment Date", "Status",
}

// RenderRegister writes the payroll register for a period as an XLSX workbook.
func RenderRegister(month, year int, items []Payroll) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := fmt.Sprintf("Payroll %d-%02d", year, month)
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)

	for c, v := range registerHeader {
		cell, _ := excelize.CoordinatesToCellName(c+1, 1)
		_ = f.SetCellValue(sheet, cell, v)
	}
	var totalNet float64
	for r, p := range items {
		values := []any{
			p.EmployeeCode, p.EmployeeName, p.Month, p.Year, p.BasicSalary, p.Allowances, p.Bonus, p.OvertimePay,
			p.Tax, p.LOPDays, p.LOPDeduction, p.Deductions, p.NetSalary, p.PaymentDate.Format("2006-01-02"), p.PaymentStatus,
		}
		for c, v := range values {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
		totalNet += p.NetSalary
	}
	totalRow := len(items) + 2
	labelCell, _ := excelize.CoordinatesToCellName(12, totalRow)
	netCell, _ := excelize.CoordinatesToCellName(13, totalRow)
	_ = f.SetCellValue(sheet, labelCell, "Total")
	_ = f.SetCellValue(sheet, netCell, totalNet)

	_ = f.SetColWidth(sheet, "A", "A", 14)
	_ = f.SetColWidth(sheet, "B", "B", 28)
	_ = f.SetColWidth(sheet, "C", "O", 13)

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		_ = f.SetCellStyle(sheet, "A1", "O1", style)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
