package payroll

import (
	"errors"
	"testing"
	"time"

	"peoplehub/internal/domain/attendance"
)

func TestCalculate(t *testing.T) {
	got := Calculate(CalcInput{
		BasicSalary: 31000,
		Allowances:  2000,
		Bonus:       500,
		Year:        2026,
		Month:       time.March,
		Attendance:  attendance.Summary{OvertimeHours: 4, LOPDays: 1.5},
	})

	// perDay 1000, perHour 125, otRate 187.5
	if got.DaysInMonth != 31 || got.BasicPerDay != 1000 || got.PerHourSalary != 125 || got.OvertimeRate != 187.5 {
		t.Fatalf("unexpected rates: %+v", got)
	}
	if got.OvertimePay != 750 || got.LOPDeduction != 1500 || got.Tax != 775 {
		t.Fatalf("unexpected components: %+v", got)
	}
	if got.NetSalary != 31000+2000+500+750-775-1500 {
		t.Fatalf("unexpected net: %v", got.NetSalary)
	}
}

func TestCalculateFebruaryRounding(t *testing.T) {
	got := Calculate(CalcInput{BasicSalary: 25000, Year: 2026, Month: time.February, Attendance: attendance.Summary{LOPDays: 1}})
	if got.DaysInMonth != 28 {
		t.Fatalf("expected 28 days, got %d", got.DaysInMonth)
	}
	// 25000/28 = 892.857... rounds to 893
	if got.LOPDeduction != 893 || got.Tax != 625 {
		t.Fatalf("unexpected components: %+v", got)
	}
	if got.NetSalary != 25000-625-893 {
		t.Fatalf("unexpected net: %v", got.NetSalary)
	}
}

func TestRecomputeNetAgreesWithCalculate(t *testing.T) {
	calc := Calculate(CalcInput{BasicSalary: 40000, Allowances: 1200, Bonus: 300, Year: 2026, Month: time.April, Attendance: attendance.Summary{OvertimeHours: 2.5, LOPDays: 0.5}})
	p := Payroll{
		BasicSalary:  40000,
		Allowances:   1200,
		Bonus:        300,
		OvertimePay:  calc.OvertimePay,
		Tax:          calc.Tax,
		LOPDeduction: calc.LOPDeduction,
	}
	if RecomputeNet(p) != calc.NetSalary {
		t.Fatalf("recompute %v != calculate %v", RecomputeNet(p), calc.NetSalary)
	}
	p.Deductions = 99.994
	if calc.NetSalary != 40458 {
		t.Fatalf("unexpected net: %v", calc.NetSalary)
	}
	if got := RecomputeNet(p); got != 40358.01 {
		t.Fatalf("expected deductions applied at 2 decimals, got %v", got)
	}
}

func TestCalculateKeepsCentsOfStoredAmounts(t *testing.T) {
	in := CalcInput{BasicSalary: 30000.40, Allowances: 1250.35, Bonus: 99.9, Year: 2026, Month: time.April, Attendance: attendance.Summary{OvertimeHours: 1, LOPDays: 1}}
	calc := Calculate(in)
	// perDay 1000.0133, otPay round(187.5025) = 188, lop 1000, tax round(750.01) = 750
	if calc.OvertimePay != 188 || calc.LOPDeduction != 1000 || calc.Tax != 750 {
		t.Fatalf("unexpected components: %+v", calc)
	}
	if calc.NetSalary != 29788.65 {
		t.Fatalf("expected net with cents, got %v", calc.NetSalary)
	}
	p := Payroll{
		BasicSalary:  in.BasicSalary,
		Allowances:   in.Allowances,
		Bonus:        in.Bonus,
		OvertimePay:  calc.OvertimePay,
		Tax:          calc.Tax,
		LOPDeduction: calc.LOPDeduction,
	}
	if got := RecomputeNet(p); got != calc.NetSalary {
		t.Fatalf("recompute %v != calculate %v", got, calc.NetSalary)
	}
}

func TestCheckTransition(t *testing.T) {
	cases := []struct {
		from, to string
		noop     bool
		err      error
	}{
		{StatusPending, StatusPaid, false, nil},
		{StatusPending, StatusFailed, false, nil},
		{StatusFailed, StatusPending, false, nil},
		{StatusFailed, StatusPaid, false, nil},
		{StatusPaid, StatusPaid, true, nil},
		{StatusPaid, StatusPending, false, ErrInvalidStatusChange},
		{StatusPaid, StatusFailed, false, ErrInvalidStatusChange},
		{StatusPending, StatusPending, false, ErrInvalidStatusChange},
		{StatusPending, "Refunded", false, ErrInvalidStatus},
	}
	for _, tc := range cases {
		noop, err := CheckTransition(tc.from, tc.to)
		if noop != tc.noop || !errors.Is(err, tc.err) {
			t.Fatalf("%s -> %s: got noop=%v err=%v", tc.from, tc.to, noop, err)
		}
	}
}

func TestDefaultPaymentDate(t *testing.T) {
	got := DefaultPaymentDate(2026, time.December)
	if got.Day() != 7 || got.Month() != time.December {
		t.Fatalf("unexpected payment date %v", got)
	}
}
