package announcement

import (
	"testing"
	"time"
)

func TestNormalizeDefaults(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	in, err := Normalize(Input{Title: " Office closed ", Content: "Friday"}, now)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if in.Title != "Office closed" || in.Priority != PriorityNormal || !in.PublishAt.Equal(now) {
		t.Fatalf("unexpected input %+v", in)
	}
}

func TestNormalizeRejects(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	cases := []struct {
		name string
		in   Input
		want error
	}{
		{"no title", Input{Content: "x"}, ErrTitleRequired},
		{"no content", Input{Title: "x"}, ErrContentRequired},
		{"bad priority", Input{Title: "x", Content: "y", Priority: "Meh"}, ErrInvalidPriority},
		{"expires before publish", Input{Title: "x", Content: "y", ExpiresAt: &past}, ErrInvalidExpiry},
	}
	for _, tc := range cases {
		if _, err := Normalize(tc.in, now); err != tc.want {
			t.Fatalf("%s: got %v want %v", tc.name, err, tc.want)
		}
	}
}

func TestVisible(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	expired := now.Add(-time.Minute)
	base := Announcement{PublishAt: now.Add(-24 * time.Hour)}

	if !Visible(base, "Sales", now) {
		t.Fatalf("company-wide announcement should be visible")
	}
	scoped := base
	scoped.Department = "engineering"
	if !Visible(scoped, "Engineering", now) {
		t.Fatalf("department match should ignore case")
	}
	if Visible(scoped, "Sales", now) {
		t.Fatalf("other department should not see it")
	}
	old := base
	old.ExpiresAt = &expired
	if Visible(old, "", now) {
		t.Fatalf("expired announcement should be hidden")
	}
	future := Announcement{PublishAt: now.Add(time.Hour)}
	if Visible(future, "", now) {
		t.Fatalf("scheduled announcement should be hidden")
	}
}
