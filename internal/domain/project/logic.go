package project

import (
	"time"

	"peoplehub/internal/domain/auth"
)

func oneOf(value string, allowed []string) bool {
	for _, a := range allowed {
		if a == value {
			return true
		}
	}
	return false
}

func ValidProjectStatus(s string) bool { return oneOf(s, ProjectStatuses) }
func ValidTaskStatus(s string) bool    { return oneOf(s, TaskStatuses) }
func ValidPriority(s string) bool      { return oneOf(s, Priorities) }

// CanDelete allows the creator, HR and Admin.
func CanDelete(user auth.UserContext, createdBy string) error {
	if user.UserID == createdBy || user.IsHROrAdmin() {
		return nil
	}
	return ErrNotCreator
}

// ApplyStatus moves a task to status, keeping progress and completion time
// consistent with it.
func ApplyStatus(t Task, status string, at time.Time) Task {
	t.Status = status
	if status == TaskCompleted {
		t.Progress = 100
		if t.CompletedAt == nil {
			t.CompletedAt = &at
		}
	} else {
		t.CompletedAt = nil
	}
	return t
}

// ApplyProgress records progress. Reaching 100 completes the task and
// dropping below 100 reopens a completed one.
func ApplyProgress(t Task, progress int, at time.Time) (Task, bool) {
	t.Progress = progress
	switch {
	case progress == 100 && t.Status != TaskCompleted:
		return ApplyStatus(t, TaskCompleted, at), true
	case progress < 100 && t.Status == TaskCompleted:
		t.Status = TaskInProgress
		t.CompletedAt = nil
		return t, true
	case progress > 0 && t.Status == TaskTodo:
		t.Status = TaskInProgress
		return t, true
	}
	return t, false
}
