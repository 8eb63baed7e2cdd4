package ticket

import "peoplehub/internal/apperr"

var (
	ErrTicketNotFound     = apperr.NotFound("ticket not found")
	ErrAttachmentNotFound = apperr.NotFound("attachment not found")
	ErrInvalidCategory    = apperr.Validation("category", "must be one of IT, HR, Payroll, Facilities, Other")
	ErrInvalidPriority    = apperr.Validation("priority", "must be one of Low, Medium, High, Critical")
	ErrInvalidStatus      = apperr.Validation("status", "must be one of Open, InProgress, Resolved, Closed, Reopened")
	ErrSubjectRequired    = apperr.Validation("subject", "is required")
	ErrEmptyMessage       = apperr.Validation("body", "is required")
	ErrInvalidTransition  = apperr.InvalidState("ticket status change not allowed")
	ErrNotAllowed         = apperr.Unauthorized("only the creator, HR or Admin may do this")
	ErrStorageUnavailable = apperr.InvalidState("attachment storage is not configured")
)
