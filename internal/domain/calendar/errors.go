package calendar

import "peoplehub/internal/apperr"

var (
	ErrHolidayNotFound  = apperr.NotFound("holiday not found")
	ErrDuplicateHoliday = apperr.Conflict("a holiday already exists on that date")
	ErrInvalidRule      = apperr.Validation("rule", "must be a valid RRULE")
)
