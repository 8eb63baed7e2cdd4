package shift

import "time"

type Shift struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	StartTime    string    `json:"startTime"`
	EndTime      string    `json:"endTime"`
	BreakMinutes int       `json:"breakMinutes"`
	GraceMinutes int       `json:"graceMinutes"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Assignment puts an employee on a shift from StartDate. Recurrence is an
// RRULE; empty means every day until EndDate.
type Assignment struct {
	ID         string     `json:"id"`
	EmployeeID string     `json:"employeeId"`
	ShiftID    string     `json:"shiftId"`
	StartDate  time.Time  `json:"startDate"`
	EndDate    *time.Time `json:"endDate,omitempty"`
	Recurrence string     `json:"recurrence"`
	CreatedAt  time.Time  `json:"createdAt"`
}

type RosterEntry struct {
	Date       time.Time `json:"date"`
	EmployeeID string    `json:"employeeId"`
	ShiftID    string    `json:"shiftId"`
	ShiftName  string    `json:"shiftName"`
	StartTime  string    `json:"startTime"`
	EndTime    string    `json:"endTime"`
}
