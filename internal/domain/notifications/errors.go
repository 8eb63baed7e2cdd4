package notifications

import "peoplehub/internal/apperr"

var ErrNotificationNotFound = apperr.NotFound("notification not found")
