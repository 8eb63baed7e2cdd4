package leave

import "time"

type Request struct {
	ID              string          `json:"id"`
	EmployeeID      string          `json:"employeeId"`
	EmployeeName    string          `json:"employeeName,omitempty"`
	LeaveType       string          `json:"leaveType"`
	StartDate       time.Time       `json:"startDate"`
	EndDate         time.Time       `json:"endDate"`
	TotalDays       int             `json:"totalDays"`
	Reason          string          `json:"reason"`
	Status          string          `json:"status"`
	CurrentStage    Stage           `json:"currentStage"`
	RejectionReason string          `json:"rejectionReason,omitempty"`
	Version         int             `json:"version"`
	Decisions       []StageDecision `json:"decisions,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// StageDecision is the sub-record written when a stage is approved or rejected.
type StageDecision struct {
	Stage       Stage     `json:"stage"`
	Decision    string    `json:"decision"`
	ActorUserID string    `json:"actorUserId"`
	Comment     string    `json:"comment"`
	DecidedAt   time.Time `json:"decidedAt"`
}

type ApplyInput struct {
	LeaveType string
	StartDate time.Time
	EndDate   time.Time
	Reason    string
}

type Filter struct {
	Scope      string
	EmployeeID string
	Status     string
	Stage      string
	Limit      int
	Offset     int
}
