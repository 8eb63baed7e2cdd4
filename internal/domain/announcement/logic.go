package announcement

import (
	"strings"
	"time"
)

// Normalize trims and defaults an input, filling PublishAt with now.
func Normalize(in Input, now time.Time) (Input, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)
	in.Department = strings.TrimSpace(in.Department)
	if in.Title == "" {
		return Input{}, ErrTitleRequired
	}
	if in.Content == "" {
		return Input{}, ErrContentRequired
	}
	if in.Priority == "" {
		in.Priority = PriorityNormal
	}
	valid := false
	for _, p := range Priorities {
		if p == in.Priority {
			valid = true
			break
		}
	}
	if !valid {
		return Input{}, ErrInvalidPriority
	}
	if in.PublishAt == nil {
		in.PublishAt = &now
	}
	if in.ExpiresAt != nil && !in.ExpiresAt.After(*in.PublishAt) {
		return Input{}, ErrInvalidExpiry
	}
	return in, nil
}

// Visible reports whether a is live at t for someone in department.
// An announcement without a department targets everyone.
func Visible(a Announcement, department string, t time.Time) bool {
	if a.PublishAt.After(t) {
		return false
	}
	if a.ExpiresAt != nil && !a.ExpiresAt.After(t) {
		return false
	}
	return a.Department == "" || strings.EqualFold(a.Department, department)
}
