package announcement

import "peoplehub/internal/apperr"

var (
	ErrAnnouncementNotFound = apperr.NotFound("announcement not found")
	ErrTitleRequired        = apperr.Validation("title", "is required")
	ErrContentRequired      = apperr.Validation("content", "is required")
	ErrInvalidPriority      = apperr.Validation("priority", "must be one of Low, Normal, High, Urgent")
	ErrInvalidExpiry        = apperr.Validation("expiresAt", "must be after publishAt")
	ErrEmptyComment         = apperr.Validation("body", "is required")
)
