package payroll

import "peoplehub/internal/apperr"

var (
	ErrPayrollNotFound     = apperr.NotFound("payroll not found")
	ErrDuplicatePayroll    = apperr.Duplicate("payroll already generated for this employee and period")
	ErrInvalidStatusChange = apperr.InvalidState("payment status transition not allowed")
	ErrInvalidStatus       = apperr.Validation("paymentStatus", "must be one of Pending, Paid, Failed")
	ErrInvalidPeriod       = apperr.Validation("month", "must be between 1 and 12")
	ErrInactiveEmployee    = apperr.InvalidState("employee is not active")
)
