package attendance

import (
	"math"
	"time"
)

// DayCalendar tells working days from holidays and weekly offs.
type DayCalendar interface {
	IsHoliday(day time.Time) bool
	IsWeeklyOff(day time.Time) bool
}

type SummaryInput struct {
	Year         int
	Month        time.Month
	Logs         []Log
	Leaves       []LeaveDay
	Calendar     DayCalendar
	SandwichRule bool
}

type dayKind int

const (
	kindWorked dayKind = iota
	kindOff
	kindAbsent
	kindLeave
)

// DaysIn returns the number of days in the month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Summarize folds a month of attendance into the counters payroll consumes.
//
// A working day without a log and without approved paid leave is absent and
// costs one LOP day. HalfDay costs half. Approved LOP leave costs one. With
// the sandwich rule, a run of off days whose neighbours inside the month are
// both absent or on leave is charged in full.
func Summarize(in SummaryInput) Summary {
	days := DaysIn(in.Year, in.Month)
	sum := Summary{Year: in.Year, Month: int(in.Month), TotalDays: days}

	logs := make(map[int]Log, len(in.Logs))
	for _, l := range in.Logs {
		if l.Date.Year() == in.Year && l.Date.Month() == in.Month {
			logs[l.Date.Day()] = l
		}
	}
	leaves := make(map[int]LeaveDay, len(in.Leaves))
	for _, lv := range in.Leaves {
		if lv.Date.Year() == in.Year && lv.Date.Month() == in.Month {
			leaves[lv.Date.Day()] = lv
		}
	}

	kinds := make([]dayKind, days+1)
	var overtime float64
	for d := 1; d <= days; d++ {
		date := time.Date(in.Year, in.Month, d, 0, 0, 0, 0, time.UTC)
		log, logged := logs[d]
		if logged {
			overtime += log.OvertimeHours
		}

		switch {
		case in.Calendar != nil && in.Calendar.IsHoliday(date):
			sum.Holidays++
			kinds[d] = kindOff
			continue
		case in.Calendar != nil && in.Calendar.IsWeeklyOff(date):
			sum.WeeklyOffs++
			kinds[d] = kindOff
			continue
		}

		sum.WorkingDays++
		leave, onLeave := leaves[d]
		switch {
		case logged && log.Status != StatusOnLeave && log.Status != StatusAbsent:
			kinds[d] = kindWorked
			switch log.Status {
			case StatusHalfDay:
				sum.HalfDays++
				sum.LOPDays += 0.5
			case StatusLate:
				sum.PresentDays++
				sum.LateDays++
			default:
				sum.PresentDays++
			}
		case onLeave || (logged && log.Status == StatusOnLeave):
			kinds[d] = kindLeave
			sum.LeaveDays++
			if onLeave && leave.Type == LeaveTypeLOP {
				sum.LOPDays++
			}
		default:
			kinds[d] = kindAbsent
			sum.AbsentDays++
			sum.LOPDays++
		}
	}

	if in.SandwichRule {
		sum.SandwichDays = sandwichDays(kinds)
		sum.LOPDays += float64(sum.SandwichDays)
	}
	sum.OvertimeHours = round2(overtime)
	sum.LOPDays = round2(sum.LOPDays)
	return sum
}

func sandwichDays(kinds []dayKind) int {
	missing := func(k dayKind) bool { return k == kindAbsent || k == kindLeave }
	total := 0
	for d := 1; d < len(kinds); {
		if kinds[d] != kindOff {
			d++
			continue
		}
		start := d
		for d < len(kinds) && kinds[d] == kindOff {
			d++
		}
		if start > 1 && d < len(kinds) && missing(kinds[start-1]) && missing(kinds[d]) {
			total += d - start
		}
	}
	return total
}

// OvertimeHours returns the hours worked beyond standard, rounded to 2
// decimals. A check-out at or before check-in yields 0.
func OvertimeHours(in, out time.Time, standard time.Duration) float64 {
	worked := out.Sub(in)
	if worked <= standard {
		return 0
	}
	return round2((worked - standard).Hours())
}

func WorkedHours(in, out time.Time) float64 {
	if !out.After(in) {
		return 0
	}
	return round2(out.Sub(in).Hours())
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
