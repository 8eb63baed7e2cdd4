package payroll

import (
	"time"

	"peoplehub/internal/domain/attendance"
)

type Payroll struct {
	ID            string             `json:"id"`
	EmployeeID    string             `json:"employeeId"`
	EmployeeName  string             `json:"employeeName,omitempty"`
	EmployeeCode  string             `json:"employeeCode,omitempty"`
	Month         int                `json:"month"`
	Year          int                `json:"year"`
	BasicSalary   float64            `json:"basicSalary"`
	Allowances    float64            `json:"allowances"`
	Bonus         float64            `json:"bonus"`
	Deductions    float64            `json:"deductions"`
	DaysInMonth   int                `json:"daysInMonth"`
	BasicPerDay   float64            `json:"basicPerDay"`
	PerHourSalary float64            `json:"perHourSalary"`
	OvertimeRate  float64            `json:"overtimeRate"`
	OvertimeHours float64            `json:"overtimeHours"`
	OvertimePay   float64            `json:"overtimePay"`
	LOPDays       float64            `json:"lopDays"`
	LOPDeduction  float64            `json:"lopDeduction"`
	Tax           float64            `json:"tax"`
	NetSalary     float64            `json:"netSalary"`
	Attendance    attendance.Summary `json:"attendance"`
	SandwichRule  bool               `json:"sandwichRule"`
	PaymentDate   time.Time          `json:"paymentDate"`
	PaymentStatus string             `json:"paymentStatus"`
	PaidAt        *time.Time         `json:"paidAt,omitempty"`
	PayslipURL    string             `json:"payslipUrl,omitempty"`
	CreatedBy     string             `json:"createdBy,omitempty"`
	CreatedAt     time.Time          `json:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt"`
}

type GenerateInput struct {
	EmployeeID   string
	Month        int
	Year         int
	Allowances   *float64
	Bonus        float64
	PaymentDate  *time.Time
	SandwichRule bool
}

type Filter struct {
	EmployeeID string
	Month      int
	Year       int
	Status     string
	Limit      int
	Offset     int
}

// BulkReport is the outcome of generating a period for every active employee.
type BulkReport struct {
	Month     int      `json:"month"`
	Year      int      `json:"year"`
	Generated int      `json:"generated"`
	Skipped   []string `json:"skipped"`
	Failed    []string `json:"failed"`
}
