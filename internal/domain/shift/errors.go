package shift

import "peoplehub/internal/apperr"

var (
	ErrShiftNotFound    = apperr.NotFound("shift not found")
	ErrDuplicateShift   = apperr.Conflict("a shift with that name already exists")
	ErrUnknownEmployee  = apperr.Validation("employeeId", "must reference an existing employee")
	ErrInvalidTime      = apperr.Validation("startTime", "must be HH:MM")
	ErrInvalidEndTime   = apperr.Validation("endTime", "must be HH:MM")
	ErrInvalidRecurring = apperr.Validation("recurrence", "must be a valid RRULE")
	ErrEndBeforeStart   = apperr.Validation("endDate", "must be on or after startDate")
)
