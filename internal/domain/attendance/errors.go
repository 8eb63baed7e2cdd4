package attendance

import "peoplehub/internal/apperr"

var (
	ErrNoEmployeeProfile  = apperr.NotFound("no employee profile linked to this user")
	ErrAlreadyCheckedIn   = apperr.Conflict("already checked in today")
	ErrNotCheckedIn       = apperr.InvalidState("no open check-in for today")
	ErrAlreadyCheckedOut  = apperr.InvalidState("already checked out today")
	ErrCheckOutBeforeIn   = apperr.Validation("checkOut", "must be after checkIn")
	ErrInvalidStatus      = apperr.Validation("status", "must be one of Present, Absent, HalfDay, Late, OnLeave")
	ErrUnknownEmployee    = apperr.Validation("employeeId", "must reference an existing employee")
	ErrAttendanceNotFound = apperr.NotFound("attendance record not found")
)
