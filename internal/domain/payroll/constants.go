package payroll

const (
	StatusPending = "Pending"
	StatusPaid    = "Paid"
	StatusFailed  = "Failed"
)

var Statuses = []string{StatusPending, StatusPaid, StatusFailed}

const (
	HoursPerDay        = 8
	OvertimeMultiplier = 1.5
	TaxRate            = 0.025
	DefaultPaymentDay  = 7

	ExpenseCategory      = "Salary"
	ExpenseReferenceType = "payroll"
)
