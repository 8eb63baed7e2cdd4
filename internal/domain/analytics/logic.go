package analytics

import (
	"math"
	"time"
)

func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ResolveRange fills a missing end with today and a missing start with
// DefaultWindowDays before the end.
func ResolveRange(start, end *time.Time, today time.Time) (Range, error) {
	r := Range{End: day(today)}
	if end != nil {
		r.End = day(*end)
	}
	r.Start = r.End.AddDate(0, 0, -DefaultWindowDays)
	if start != nil {
		r.Start = day(*start)
	}
	if r.End.Before(r.Start) {
		return Range{}, ErrInvalidRange
	}
	return r, nil
}

// until is the exclusive upper bound for timestamp comparisons.
func (r Range) until() time.Time {
	return r.End.AddDate(0, 0, 1)
}

// Rate returns part/whole as a percentage rounded to two decimals.
func Rate(part, whole int) float64 {
	if whole <= 0 {
		return 0
	}
	return round2(float64(part) * 100 / float64(whole))
}

// AttritionRate divides exits by the mean of opening and closing headcount.
func AttritionRate(exits, startHead, endHead int) float64 {
	avg := float64(startHead+endHead) / 2
	if avg <= 0 {
		return 0
	}
	return round2(float64(exits) * 100 / avg)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func ValidReport(name string) bool {
	for _, r := range Reports {
		if r == name {
			return true
		}
	}
	return false
}

// PreviousMonth returns the full calendar month before now.
func PreviousMonth(now time.Time) Range {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	start := first.AddDate(0, -1, 0)
	return Range{Start: start, End: first.AddDate(0, 0, -1)}
}
