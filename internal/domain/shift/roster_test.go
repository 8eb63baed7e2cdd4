package shift

import (
	"testing"
	"time"
)

func d(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func TestExpandWeekdaysOnly(t *testing.T) {
	shifts := map[string]Shift{"s1": {ID: "s1", Name: "Morning", StartTime: "09:00", EndTime: "18:00"}}
	assignments := []Assignment{{EmployeeID: "e1", ShiftID: "s1", StartDate: d("2026-03-02"), Recurrence: "FREQ=WEEKLY;BYDAY=MO,TU,WE,TH,FR"}}

	got := Expand(assignments, shifts, d("2026-03-01"), d("2026-03-08"))
	if len(got) != 5 {
		t.Fatalf("expected 5 rostered days, got %d", len(got))
	}
	if !got[0].Date.Equal(d("2026-03-02")) || got[0].ShiftName != "Morning" {
		t.Fatalf("unexpected first entry: %+v", got[0])
	}
}

func TestExpandRespectsEndDateAndOverride(t *testing.T) {
	end := d("2026-03-04")
	shifts := map[string]Shift{
		"day":   {ID: "day", Name: "Day"},
		"night": {ID: "night", Name: "Night"},
	}
	assignments := []Assignment{
		{EmployeeID: "e1", ShiftID: "day", StartDate: d("2026-03-01"), EndDate: &end},
		{EmployeeID: "e1", ShiftID: "night", StartDate: d("2026-03-03")},
		{EmployeeID: "e2", ShiftID: "missing", StartDate: d("2026-03-01")},
	}

	got := Expand(assignments, shifts, d("2026-03-01"), d("2026-03-05"))
	if len(got) != 5 {
		t.Fatalf("expected 5 days for e1, got %d: %+v", len(got), got)
	}
	if got[2].ShiftID != "night" || got[1].ShiftID != "day" {
		t.Fatalf("expected later assignment to win from 03-03: %+v", got)
	}
}

func TestLateAfter(t *testing.T) {
	sh := Shift{StartTime: "09:30", GraceMinutes: 10}
	want := time.Date(2026, 3, 2, 9, 40, 0, 0, time.UTC)
	if got := sh.LateAfter(d("2026-03-02")); !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}
