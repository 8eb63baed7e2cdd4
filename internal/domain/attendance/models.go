package attendance

import "time"

type Log struct {
	ID            string     `json:"id"`
	EmployeeID    string     `json:"employeeId"`
	EmployeeName  string     `json:"employeeName,omitempty"`
	Date          time.Time  `json:"date"`
	Status        string     `json:"status"`
	CheckIn       *time.Time `json:"checkIn,omitempty"`
	CheckOut      *time.Time `json:"checkOut,omitempty"`
	WorkedHours   float64    `json:"workedHours"`
	OvertimeHours float64    `json:"overtimeHours"`
	Note          string     `json:"note"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// LeaveDay is one approved leave day of an employee.
type LeaveDay struct {
	Date time.Time
	Type string
}

type MarkInput struct {
	EmployeeID string
	Date       time.Time
	Status     string
	CheckIn    *time.Time
	CheckOut   *time.Time
	Note       string
}

type Filter struct {
	EmployeeID string
	Status     string
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

type Summary struct {
	Year          int     `json:"year"`
	Month         int     `json:"month"`
	TotalDays     int     `json:"totalDays"`
	WorkingDays   int     `json:"workingDays"`
	PresentDays   int     `json:"presentDays"`
	AbsentDays    int     `json:"absentDays"`
	HalfDays      int     `json:"halfDays"`
	LateDays      int     `json:"lateDays"`
	LeaveDays     int     `json:"leaveDays"`
	Holidays      int     `json:"holidays"`
	WeeklyOffs    int     `json:"weeklyOffs"`
	OvertimeHours float64 `json:"overtimeHours"`
	LOPDays       float64 `json:"lopDays"`
	SandwichDays  int     `json:"sandwichDays"`
}
