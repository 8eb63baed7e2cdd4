package analytics

import (
	"errors"

	"peoplehub/internal/apperr"
)

var (
	ErrUnknownReport = apperr.NotFound("unknown report")
	ErrInvalidRange  = apperr.Validation("endDate", "must be on or after startDate")
	// ErrSnapshotsDisabled is returned when no document store is configured.
	ErrSnapshotsDisabled = errors.New("analytics snapshots are not configured")
)
