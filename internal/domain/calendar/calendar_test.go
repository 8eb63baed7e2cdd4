package calendar

import (
	"testing"
	"time"
)

func date(s string) time.Time {
	t, _ := time.Parse(dayLayout, s)
	return t
}

func TestDefaultWeekendIsOff(t *testing.T) {
	cal, err := New("", nil, date("2026-03-01"), date("2026-03-31"))
	if err != nil {
		t.Fatalf("new calendar: %v", err)
	}
	cases := map[string]bool{
		"2026-03-06": false, // Friday
		"2026-03-07": true,
		"2026-03-08": true,
		"2026-03-09": false,
		"2026-04-04": true, // outside the built range
	}
	for d, want := range cases {
		if got := cal.IsOff(date(d)); got != want {
			t.Fatalf("%s: expected off=%v, got %v", d, want, got)
		}
	}
}

func TestHolidayAndCustomRule(t *testing.T) {
	holidays := []Holiday{{Date: date("2026-03-11"), Name: "Founders Day"}}
	cal, err := New("RRULE:FREQ=WEEKLY;BYDAY=FR", holidays, date("2026-03-01"), date("2026-03-31"))
	if err != nil {
		t.Fatalf("new calendar: %v", err)
	}
	if !cal.IsOff(date("2026-03-06")) {
		t.Fatal("expected Friday off")
	}
	if cal.IsOff(date("2026-03-07")) {
		t.Fatal("expected Saturday to be a working day")
	}
	if !cal.IsHoliday(date("2026-03-11")) || cal.IsWeeklyOff(date("2026-03-11")) {
		t.Fatal("expected Wednesday holiday only")
	}
}

func TestParseRuleRejectsGarbage(t *testing.T) {
	if _, err := ParseRule("FREQ=SOMETIMES"); err != ErrInvalidRule {
		t.Fatalf("expected invalid rule, got %v", err)
	}
}
