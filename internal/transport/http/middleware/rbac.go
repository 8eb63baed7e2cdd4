package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"peoplehub/internal/transport/http/api"
)

// PermissionStore answers whether a role carries a permission key.
type PermissionStore interface {
	HasPermission(ctx context.Context, roleID, permission string) (bool, error)
}

func RequirePermission(permission string, store PermissionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := GetRequestID(r.Context())
			user, ok := GetUser(r.Context())
			if !ok {
				api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
				return
			}
			switch allowed, err := store.HasPermission(r.Context(), user.RoleID, permission); {
			case err != nil:
				slog.Error("permission lookup", "err", err, "permission", permission, "role", user.RoleName)
				api.Fail(w, http.StatusInternalServerError, "permission_error", "permission check failed", reqID)
			case !allowed:
				api.Fail(w, http.StatusForbidden, "forbidden", "missing permission "+permission, reqID)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}
