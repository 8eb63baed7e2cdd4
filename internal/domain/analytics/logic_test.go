package analytics

import (
	"context"
	"testing"
	"time"
)

func TestResolveRangeDefaults(t *testing.T) {
	today := time.Date(2025, 3, 31, 15, 4, 0, 0, time.UTC)
	r, err := ResolveRange(nil, nil, today)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	wantEnd := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)
	wantStart := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	if !r.End.Equal(wantEnd) || !r.Start.Equal(wantStart) {
		t.Fatalf("unexpected range %v..%v", r.Start, r.End)
	}
}

func TestResolveRangeStartFollowsExplicitEnd(t *testing.T) {
	today := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)
	r, err := ResolveRange(nil, &end, today)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !r.Start.Equal(time.Date(2025, 1, 11, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected start %v", r.Start)
	}
}

func TestResolveRangeRejectsInverted(t *testing.T) {
	start := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)
	if _, err := ResolveRange(&start, &end, end); err != ErrInvalidRange {
		t.Fatalf("expected invalid range, got %v", err)
	}
}

func TestRates(t *testing.T) {
	if got := Rate(1, 3); got != 33.33 {
		t.Fatalf("rate: got %v", got)
	}
	if got := Rate(5, 0); got != 0 {
		t.Fatalf("zero denominator: got %v", got)
	}
	if got := AttritionRate(3, 50, 48); got != 6.12 {
		t.Fatalf("attrition: got %v", got)
	}
}

func TestPreviousMonth(t *testing.T) {
	r := PreviousMonth(time.Date(2025, 3, 15, 8, 0, 0, 0, time.UTC))
	if !r.Start.Equal(time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)) || !r.End.Equal(time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected range %v..%v", r.Start, r.End)
	}
	jan := PreviousMonth(time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC))
	if jan.Start.Year() != 2024 || jan.Start.Month() != time.December || jan.End.Day() != 31 {
		t.Fatalf("unexpected january rollover %v..%v", jan.Start, jan.End)
	}
}

func TestValidReport(t *testing.T) {
	for _, name := range Reports {
		if !ValidReport(name) {
			t.Fatalf("%s should be valid", name)
		}
	}
	if ValidReport("sales") {
		t.Fatalf("unexpected report accepted")
	}
}

func TestSnapshotDisabledWithoutStore(t *testing.T) {
	svc := NewService(nil, nil)
	if _, err := svc.ListSnapshots(context.Background(), "t1", 10, 0); err != ErrSnapshotsDisabled {
		t.Fatalf("expected disabled, got %v", err)
	}
}
