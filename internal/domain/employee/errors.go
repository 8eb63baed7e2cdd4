package employee

import "peoplehub/internal/apperr"

var (
	ErrEmployeeNotFound        = apperr.NotFound("employee not found")
	ErrDuplicateEmployee       = apperr.Conflict("employee code or email already exists")
	ErrInvalidTransition       = apperr.InvalidState("status transition not allowed")
	ErrNoResignation           = apperr.InvalidState("no pending resignation")
	ErrResignationExists       = apperr.InvalidState("resignation already submitted")
	ErrNotResignationActor     = apperr.Unauthorized("not allowed to act on this resignation")
	ErrInactiveEmployee        = apperr.InvalidState("employee is inactive")
	ErrUnknownTeamLead         = apperr.Validation("teamLeadId", "must reference an existing employee")
	ErrUnknownManager          = apperr.Validation("managerId", "must reference an existing employee")
	ErrSelfReference           = apperr.Validation("managerId", "employee cannot report to themselves")
	ErrRoleNotFound            = apperr.Validation("role", "unknown role")
	ErrNoLinkedEmployee        = apperr.NotFound("no employee profile linked to this user")
	ErrRejectionReasonRequired = apperr.Validation("rejectionReason", "is required")
)
