package shift

import (
	"sort"
	"strings"
	"time"

	"github.com/teambition/rrule-go"
)

const clockLayout = "15:04"

func ParseClock(value string) (time.Duration, bool) {
	t, err := time.Parse(clockLayout, strings.TrimSpace(value))
	if err != nil {
		return 0, false
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, true
}

// LateAfter is the instant after which a check-in on day counts as late.
func (s Shift) LateAfter(day time.Time) time.Time {
	offset, _ := ParseClock(s.StartTime)
	y, m, d := day.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Add(offset + time.Duration(s.GraceMinutes)*time.Minute)
}

func recurrence(a Assignment) (*rrule.RRule, error) {
	rule := strings.TrimPrefix(strings.TrimSpace(a.Recurrence), "RRULE:")
	if rule == "" {
		rule = "FREQ=DAILY"
	}
	opt, err := rrule.StrToROption(rule)
	if err != nil {
		return nil, ErrInvalidRecurring
	}
	opt.Dtstart = dayOf(a.StartDate)
	if a.EndDate != nil && opt.Until.IsZero() && opt.Count == 0 {
		opt.Until = dayOf(*a.EndDate).Add(24*time.Hour - time.Nanosecond)
	}
	r, err := rrule.NewRRule(*opt)
	if err != nil {
		return nil, ErrInvalidRecurring
	}
	return r, nil
}

// Expand lists the rostered days of every assignment inside [from, to].
// Assignments whose shift is unknown or whose rule does not parse are skipped.
// When two assignments of one employee hit the same day the later-starting
// assignment wins.
func Expand(assignments []Assignment, shifts map[string]Shift, from, to time.Time) []RosterEntry {
	from, end := dayOf(from), dayOf(to).Add(24*time.Hour-time.Nanosecond)

	ordered := append([]Assignment(nil), assignments...)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].StartDate.Before(ordered[j].StartDate) })

	byKey := map[string]RosterEntry{}
	for _, a := range ordered {
		sh, ok := shifts[a.ShiftID]
		if !ok {
			continue
		}
		r, err := recurrence(a)
		if err != nil {
			continue
		}
		for _, occ := range r.Between(from, end, true) {
			d := dayOf(occ)
			byKey[a.EmployeeID+"|"+d.Format("2006-01-02")] = RosterEntry{
				Date:       d,
				EmployeeID: a.EmployeeID,
				ShiftID:    sh.ID,
				ShiftName:  sh.Name,
				StartTime:  sh.StartTime,
				EndTime:    sh.EndTime,
			}
		}
	}

	out := make([]RosterEntry, 0, len(byKey))
	for _, e := range byKey {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].EmployeeID < out[j].EmployeeID
	})
	return out
}

func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
