package expense

import "peoplehub/internal/apperr"

var (
	ErrExpenseNotFound = apperr.NotFound("expense not found")
	ErrInvalidAmount   = apperr.Validation("amount", "must be greater than zero")
	ErrInvalidStatus   = apperr.Validation("status", "must be one of Pending, Paid, Rejected")
)
