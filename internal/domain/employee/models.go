package employee

import "time"

type Employee struct {
	ID            string       `json:"id"`
	UserID        string       `json:"userId,omitempty"`
	EmployeeCode  string       `json:"employeeCode"`
	FirstName     string       `json:"firstName"`
	LastName      string       `json:"lastName"`
	FullName      string       `json:"fullName"`
	Email         string       `json:"email"`
	Phone         string       `json:"phone"`
	Department    string       `json:"department"`
	Designation   string       `json:"designation"`
	TeamLeadID    string       `json:"teamLeadId,omitempty"`
	ManagerID     string       `json:"managerId,omitempty"`
	DateOfJoining time.Time    `json:"dateOfJoining"`
	BasicSalary   float64      `json:"basicSalary"`
	Allowances    float64      `json:"allowances"`
	Deductions    float64      `json:"deductions"`
	Status        string       `json:"status"`
	IsActive      bool         `json:"isActive"`
	ExitDate      *time.Time   `json:"exitDate,omitempty"`
	Resignation   *Resignation `json:"resignation,omitempty"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
}

// Resignation is embedded on the employee row. The two approval flags are
// independent; both must be set before the notice period starts.
type Resignation struct {
	Reason             string     `json:"reason"`
	SubmittedAt        time.Time  `json:"submittedAt"`
	LastWorkingDay     *time.Time `json:"lastWorkingDay,omitempty"`
	PreviousStatus     string     `json:"previousStatus"`
	TeamLeadApproved   bool       `json:"teamLeadApproved"`
	TeamLeadApprovedBy string     `json:"teamLeadApprovedBy,omitempty"`
	TeamLeadApprovedAt *time.Time `json:"teamLeadApprovedAt,omitempty"`
	ManagerApproved    bool       `json:"managerApproved"`
	ManagerApprovedBy  string     `json:"managerApprovedBy,omitempty"`
	ManagerApprovedAt  *time.Time `json:"managerApprovedAt,omitempty"`
	RejectedBy         string     `json:"rejectedBy,omitempty"`
	RejectedAt         *time.Time `json:"rejectedAt,omitempty"`
	RejectionReason    string     `json:"rejectionReason,omitempty"`
}

type StatusChange struct {
	ID         string    `json:"id"`
	FromStatus string    `json:"fromStatus"`
	ToStatus   string    `json:"toStatus"`
	ChangedBy  string    `json:"changedBy,omitempty"`
	Note       string    `json:"note"`
	ChangedAt  time.Time `json:"changedAt"`
}

type CreateInput struct {
	EmployeeCode  string
	FirstName     string
	LastName      string
	Email         string
	Phone         string
	Department    string
	Designation   string
	TeamLeadID    string
	ManagerID     string
	DateOfJoining time.Time
	BasicSalary   float64
	Allowances    float64
	Status        string
	// Password and Role create a login for the employee when Password is set.
	Password string
	Role     string
}

type UpdateInput struct {
	FirstName   *string
	LastName    *string
	Phone       *string
	Department  *string
	Designation *string
	TeamLeadID  *string
	ManagerID   *string
	BasicSalary *float64
	Allowances  *float64
}

type Filter struct {
	Department string
	Status     string
	Search     string
	ActiveOnly bool
	TeamOf     string
	Limit      int
	Offset     int
}
