package auth

import "peoplehub/internal/apperr"

var (
	ErrInvalidCredentials = apperr.New(apperr.KindUnauthorized, "invalid credentials")
	ErrInvalidSession     = apperr.New(apperr.KindUnauthorized, "invalid or expired session")
	ErrUserNotFound       = apperr.NotFound("user not found")
)
