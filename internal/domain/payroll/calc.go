package payroll

import (
	"time"

	"github.com/shopspring/decimal"

	"peoplehub/internal/domain/attendance"
)

type CalcInput struct {
	BasicSalary float64
	Allowances  float64
	Bonus       float64
	Year        int
	Month       time.Month
	Attendance  attendance.Summary
}

type Calculation struct {
	DaysInMonth   int
	BasicPerDay   float64
	PerHourSalary float64
	OvertimeRate  float64
	OvertimeHours float64
	OvertimePay   float64
	LOPDays       float64
	LOPDeduction  float64
	Tax           float64
	NetSalary     float64
}

var (
	hoursPerDay = decimal.NewFromInt(HoursPerDay)
	otFactor    = decimal.NewFromFloat(OvertimeMultiplier)
	taxRate     = decimal.NewFromFloat(TaxRate)
)

// money reads an amount at the 2-decimal precision it is stored with.
func money(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

// Calculate derives a month's pay from the basic salary and the attendance
// summary. Overtime pay, LOP deduction and tax are rounded to whole units.
// The net carries the cents of the stored amounts so it always equals
// RecomputeNet of the persisted record; with whole-unit inputs it is whole.
// Manual deductions are never part of the formula.
func Calculate(in CalcInput) Calculation {
	days := attendance.DaysIn(in.Year, in.Month)
	basic := money(in.BasicSalary)
	perDay := basic.Div(decimal.NewFromInt(int64(days)))
	perHour := perDay.Div(hoursPerDay)
	otRate := perHour.Mul(otFactor)

	otHours := decimal.NewFromFloat(in.Attendance.OvertimeHours)
	lopDays := decimal.NewFromFloat(in.Attendance.LOPDays)
	otPay := otHours.Mul(otRate).Round(0)
	lop := lopDays.Mul(perDay).Round(0)
	tax := basic.Mul(taxRate).Round(0)

	net := basic.
		Add(money(in.Allowances)).
		Add(money(in.Bonus)).
		Add(otPay).
		Sub(tax).
		Sub(lop).
		Round(2)

	return Calculation{
		DaysInMonth:   days,
		BasicPerDay:   perDay.Round(4).InexactFloat64(),
		PerHourSalary: perHour.Round(4).InexactFloat64(),
		OvertimeRate:  otRate.Round(4).InexactFloat64(),
		OvertimeHours: in.Attendance.OvertimeHours,
		OvertimePay:   otPay.InexactFloat64(),
		LOPDays:       in.Attendance.LOPDays,
		LOPDeduction:  lop.InexactFloat64(),
		Tax:           tax.InexactFloat64(),
		NetSalary:     net.InexactFloat64(),
	}
}

// RecomputeNet is the persisted-record rule: every stored component, manual
// deductions included, rounded to 2 decimals.
func RecomputeNet(p Payroll) float64 {
	return money(p.BasicSalary).
		Add(money(p.Allowances)).
		Add(money(p.Bonus)).
		Add(money(p.OvertimePay)).
		Sub(money(p.Deductions)).
		Sub(money(p.Tax)).
		Sub(money(p.LOPDeduction)).
		Round(2).
		InexactFloat64()
}

// DefaultPaymentDate is the 7th of the payroll month.
func DefaultPaymentDate(year int, month time.Month) time.Time {
	return time.Date(year, month, DefaultPaymentDay, 0, 0, 0, 0, time.UTC)
}

// CheckTransition validates a payment status change. noop is true for
// Paid to Paid, which must not repeat any side effect.
func CheckTransition(from, to string) (noop bool, err error) {
	if !validStatus(to) {
		return false, ErrInvalidStatus
	}
	switch {
	case from == StatusPaid && to == StatusPaid:
		return true, nil
	case from == StatusPending && (to == StatusPaid || to == StatusFailed):
		return false, nil
	case from == StatusFailed && (to == StatusPending || to == StatusPaid):
		return false, nil
	}
	return false, ErrInvalidStatusChange
}

func validStatus(status string) bool {
	for _, s := range Statuses {
		if s == status {
			return true
		}
	}
	return false
}
