package project

import "time"

type Project struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Client      string         `json:"client"`
	Status      string         `json:"status"`
	Priority    string         `json:"priority"`
	StartDate   *time.Time     `json:"startDate,omitempty"`
	EndDate     *time.Time     `json:"endDate,omitempty"`
	ManagerID   string         `json:"managerId,omitempty"`
	Members     []string       `json:"members"`
	CreatedBy   string         `json:"createdBy"`
	History     []StatusChange `json:"history,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

type StatusChange struct {
	Status    string    `json:"status"`
	ChangedBy string    `json:"changedBy"`
	Note      string    `json:"note,omitempty"`
	ChangedAt time.Time `json:"changedAt"`
}

type ProjectInput struct {
	Name        string
	Description string
	Client      string
	Status      string
	Priority    string
	StartDate   *time.Time
	EndDate     *time.Time
	ManagerID   string
	Members     []string
}

type Task struct {
	ID          string           `json:"id"`
	ProjectID   string           `json:"projectId,omitempty"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	AssigneeID  string           `json:"assigneeId,omitempty"`
	CreatedBy   string           `json:"createdBy"`
	Priority    string           `json:"priority"`
	Status      string           `json:"status"`
	DueDate     *time.Time       `json:"dueDate,omitempty"`
	Progress    int              `json:"progress"`
	CompletedAt *time.Time       `json:"completedAt,omitempty"`
	History     []StatusChange   `json:"history,omitempty"`
	ProgressLog []ProgressUpdate `json:"progressLog,omitempty"`
	Comments    []Comment        `json:"comments,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

type TaskInput struct {
	ProjectID   string
	Title       string
	Description string
	AssigneeID  string
	Priority    string
	DueDate     *time.Time
}

type ProgressUpdate struct {
	Progress   int       `json:"progress"`
	Note       string    `json:"note,omitempty"`
	RecordedBy string    `json:"recordedBy"`
	RecordedAt time.Time `json:"recordedAt"`
}

type Comment struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"authorId"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}

type ProjectFilter struct {
	Status   string
	MemberOf string
	Limit    int
	Offset   int
}

type TaskFilter struct {
	ProjectID  string
	AssigneeID string
	Status     string
	Limit      int
	Offset     int
}
