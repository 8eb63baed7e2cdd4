package attendance

import (
	"testing"
	"time"
)

type weekendCalendar struct {
	holidays map[int]bool
}

func (c weekendCalendar) IsHoliday(day time.Time) bool { return c.holidays[day.Day()] }

func (c weekendCalendar) IsWeeklyOff(day time.Time) bool {
	return day.Weekday() == time.Saturday || day.Weekday() == time.Sunday
}

func day(d int) time.Time {
	return time.Date(2026, time.March, d, 0, 0, 0, 0, time.UTC)
}

// presentExcept marks every weekday of March 2026 present except the given days.
func presentExcept(skip ...int) []Log {
	skipped := map[int]bool{}
	for _, d := range skip {
		skipped[d] = true
	}
	var logs []Log
	for d := 1; d <= 31; d++ {
		wd := day(d).Weekday()
		if wd == time.Saturday || wd == time.Sunday || skipped[d] {
			continue
		}
		logs = append(logs, Log{Date: day(d), Status: StatusPresent})
	}
	return logs
}

func TestSummarizeFullMonth(t *testing.T) {
	sum := Summarize(SummaryInput{Year: 2026, Month: time.March, Logs: presentExcept(), Calendar: weekendCalendar{}})
	if sum.TotalDays != 31 || sum.WorkingDays != 22 || sum.WeeklyOffs != 9 {
		t.Fatalf("unexpected day counts: %+v", sum)
	}
	if sum.PresentDays != 22 || sum.LOPDays != 0 {
		t.Fatalf("expected full attendance: %+v", sum)
	}
}

func TestSummarizeAbsenceHalfDayAndLeave(t *testing.T) {
	logs := presentExcept(3, 4, 5, 6)
	logs = append(logs,
		Log{Date: day(4), Status: StatusHalfDay},
		Log{Date: day(5), Status: StatusLate, OvertimeHours: 1.5},
	)
	leaves := []LeaveDay{{Date: day(6), Type: LeaveTypeLOP}}

	sum := Summarize(SummaryInput{Year: 2026, Month: time.March, Logs: logs, Leaves: leaves, Calendar: weekendCalendar{}})
	if sum.AbsentDays != 1 || sum.HalfDays != 1 || sum.LateDays != 1 || sum.LeaveDays != 1 {
		t.Fatalf("unexpected counters: %+v", sum)
	}
	if sum.LOPDays != 2.5 {
		t.Fatalf("expected 2.5 LOP days, got %v", sum.LOPDays)
	}
	if sum.OvertimeHours != 1.5 {
		t.Fatalf("expected 1.5 overtime hours, got %v", sum.OvertimeHours)
	}
}

func TestSummarizePaidLeaveIsNotLOP(t *testing.T) {
	leaves := []LeaveDay{{Date: day(9), Type: "Casual"}}
	sum := Summarize(SummaryInput{Year: 2026, Month: time.March, Logs: presentExcept(9), Leaves: leaves, Calendar: weekendCalendar{}})
	if sum.LOPDays != 0 || sum.LeaveDays != 1 {
		t.Fatalf("unexpected summary: %+v", sum)
	}
}

func TestSandwichRule(t *testing.T) {
	// Friday 6th absent, weekend 7-8, Monday 9th on casual leave.
	leaves := []LeaveDay{{Date: day(9), Type: "Casual"}}
	in := SummaryInput{Year: 2026, Month: time.March, Logs: presentExcept(6, 9), Leaves: leaves, Calendar: weekendCalendar{}}

	without := Summarize(in)
	if without.LOPDays != 1 || without.SandwichDays != 0 {
		t.Fatalf("unexpected summary without rule: %+v", without)
	}

	in.SandwichRule = true
	with := Summarize(in)
	if with.SandwichDays != 2 || with.LOPDays != 3 {
		t.Fatalf("unexpected summary with rule: %+v", with)
	}
}

func TestSandwichRuleNeedsBothSidesInsideMonth(t *testing.T) {
	// Sunday 1st has no left neighbour in March; Friday 27th absent but Monday 30th present.
	in := SummaryInput{Year: 2026, Month: time.March, Logs: presentExcept(2, 27), Calendar: weekendCalendar{}, SandwichRule: true}
	sum := Summarize(in)
	if sum.SandwichDays != 0 {
		t.Fatalf("expected no sandwich days, got %+v", sum)
	}
}

func TestSandwichIncludesHolidayRun(t *testing.T) {
	cal := weekendCalendar{holidays: map[int]bool{16: true}}
	// Friday 13th absent, weekend 14-15, holiday Monday 16th, Tuesday 17th absent.
	in := SummaryInput{Year: 2026, Month: time.March, Logs: presentExcept(13, 17), Calendar: cal, SandwichRule: true}
	sum := Summarize(in)
	if sum.Holidays != 1 || sum.SandwichDays != 3 || sum.LOPDays != 5 {
		t.Fatalf("unexpected summary: %+v", sum)
	}
}

func TestOvertimeHours(t *testing.T) {
	in := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	cases := []struct {
		out  time.Time
		want float64
	}{
		{in.Add(8 * time.Hour), 0},
		{in.Add(9*time.Hour + 30*time.Minute), 1.5},
		{in.Add(-time.Hour), 0},
	}
	for _, tc := range cases {
		if got := OvertimeHours(in, tc.out, 8*time.Hour); got != tc.want {
			t.Fatalf("out %v: expected %v, got %v", tc.out, tc.want, got)
		}
	}
}

func TestCloseDayMarksShortDayHalf(t *testing.T) {
	in := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	l := closeDay(Log{Status: StatusPresent, CheckIn: &in}, in.Add(3*time.Hour))
	if l.Status != StatusHalfDay || l.WorkedHours != 3 {
		t.Fatalf("unexpected log: %+v", l)
	}
}
