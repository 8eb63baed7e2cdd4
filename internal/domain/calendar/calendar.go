package calendar

import (
	"strings"
	"time"

	"github.com/teambition/rrule-go"
)

const dayLayout = "2006-01-02"

// anchor is the first Monday of 2000; weekly rules without their own
// DTSTART count weeks from here.
var anchor = time.Date(2000, 1, 3, 0, 0, 0, 0, time.UTC)

// Calendar answers working-day questions for a fixed date range. Days
// outside the range are evaluated on demand.
type Calendar struct {
	rule     *rrule.RRule
	holidays map[string]Holiday
	offDays  map[string]bool
	from, to time.Time
}

func ParseRule(rule string) (*rrule.RRule, error) {
	rule = strings.TrimPrefix(strings.TrimSpace(rule), "RRULE:")
	if rule == "" {
		rule = DefaultWeeklyOff
	}
	opt, err := rrule.StrToROption(rule)
	if err != nil {
		return nil, ErrInvalidRule
	}
	if opt.Dtstart.IsZero() {
		opt.Dtstart = anchor
	}
	r, err := rrule.NewRRule(*opt)
	if err != nil {
		return nil, ErrInvalidRule
	}
	return r, nil
}

func New(rule string, holidays []Holiday, from, to time.Time) (*Calendar, error) {
	r, err := ParseRule(rule)
	if err != nil {
		return nil, err
	}
	c := &Calendar{
		rule:     r,
		holidays: make(map[string]Holiday, len(holidays)),
		offDays:  map[string]bool{},
		from:     day(from),
		to:       day(to),
	}
	for _, h := range holidays {
		c.holidays[h.Date.Format(dayLayout)] = h
	}
	for _, occ := range r.Between(c.from, c.to.Add(24*time.Hour-time.Nanosecond), true) {
		c.offDays[occ.UTC().Format(dayLayout)] = true
	}
	return c, nil
}

// IsWeeklyOff reports whether the weekly-off rule covers the day.
func (c *Calendar) IsWeeklyOff(d time.Time) bool {
	d = day(d)
	if !d.Before(c.from) && !d.After(c.to) {
		return c.offDays[d.Format(dayLayout)]
	}
	return len(c.rule.Between(d, d.Add(24*time.Hour-time.Nanosecond), true)) > 0
}

func (c *Calendar) IsHoliday(d time.Time) bool {
	_, ok := c.holidays[day(d).Format(dayLayout)]
	return ok
}

// IsOff reports whether the day is not a working day.
func (c *Calendar) IsOff(d time.Time) bool {
	return c.IsHoliday(d) || c.IsWeeklyOff(d)
}

func (c *Calendar) Holiday(d time.Time) (Holiday, bool) {
	h, ok := c.holidays[day(d).Format(dayLayout)]
	return h, ok
}

func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
