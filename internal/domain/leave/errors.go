package leave

import "peoplehub/internal/apperr"

var (
	ErrLeaveNotFound           = apperr.NotFound("leave request not found")
	ErrAlreadyCompleted        = apperr.InvalidState("leave request is already completed")
	ErrUnknownStage            = apperr.InvalidState("leave request is in an unknown stage")
	ErrStaleLeave              = apperr.Conflict("leave request was changed by someone else; reload and retry")
	ErrOverlappingLeave        = apperr.Conflict("leave overlaps an existing pending or approved request")
	ErrNotStageApprover        = apperr.Unauthorized("not allowed to decide this stage")
	ErrOwnLeave                = apperr.Unauthorized("cannot decide your own leave request")
	ErrRejectionReasonRequired = apperr.Validation("rejectionReason", "is required")
	ErrInvalidType             = apperr.Validation("leaveType", "must be one of Casual, Sick, Earned, Maternity, Paternity, Compensatory, LOP")
	ErrInvalidRange            = apperr.Validation("endDate", "must be on or after startDate")
	ErrNoEmployeeProfile       = apperr.NotFound("no employee profile linked to this user")
)
