package project

const (
	ProjectPlanning  = "Planning"
	ProjectActive    = "Active"
	ProjectOnHold    = "OnHold"
	ProjectCompleted = "Completed"
	ProjectCancelled = "Cancelled"
)

var ProjectStatuses = []string{ProjectPlanning, ProjectActive, ProjectOnHold, ProjectCompleted, ProjectCancelled}

const (
	TaskTodo       = "Todo"
	TaskInProgress = "InProgress"
	TaskReview     = "Review"
	TaskCompleted  = "Completed"
	TaskBlocked    = "Blocked"
)

var TaskStatuses = []string{TaskTodo, TaskInProgress, TaskReview, TaskCompleted, TaskBlocked}

var Priorities = []string{"Low", "Medium", "High", "Critical"}
