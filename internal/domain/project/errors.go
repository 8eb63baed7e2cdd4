package project

import "peoplehub/internal/apperr"

var (
	ErrProjectNotFound      = apperr.NotFound("project not found")
	ErrTaskNotFound         = apperr.NotFound("task not found")
	ErrNotCreator           = apperr.Unauthorized("only the creator, HR or Admin may delete this")
	ErrInvalidProjectStatus = apperr.Validation("status", "must be one of Planning, Active, OnHold, Completed, Cancelled")
	ErrInvalidTaskStatus    = apperr.Validation("status", "must be one of Todo, InProgress, Review, Completed, Blocked")
	ErrInvalidPriority      = apperr.Validation("priority", "must be one of Low, Medium, High, Critical")
	ErrInvalidProgress      = apperr.Validation("progress", "must be between 0 and 100")
	ErrUnknownEmployee      = apperr.Validation("assigneeId", "must reference an existing employee")
	ErrInvalidDateRange     = apperr.Validation("endDate", "must be on or after startDate")
	ErrEmptyComment         = apperr.Validation("body", "is required")
	ErrNameRequired         = apperr.Validation("name", "is required")
	ErrTitleRequired        = apperr.Validation("title", "is required")
)
