package authhandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"peoplehub/internal/apperr"
	"peoplehub/internal/domain/audit"
	"peoplehub/internal/domain/auth"
	"peoplehub/internal/transport/http/api"
	"peoplehub/internal/transport/http/middleware"
	"peoplehub/internal/transport/http/shared"
)

type Handler struct {
	Service *auth.Service
	Audit   *audit.Service
}

func NewHandler(service *auth.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Audit: auditSvc}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// RegisterPublic mounts the routes that run before authentication.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Post("/auth/login", h.HandleLogin)
	r.Post("/auth/refresh", h.HandleRefresh)
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/logout", h.HandleLogout)
	r.Get("/auth/me", h.HandleMe)
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var payload loginRequest
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	tokens, err := h.Service.Login(r.Context(), payload.Email, payload.Password)
	if err != nil {
		if isAuthFailure(err) {
			api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", reqID)
			return
		}
		api.FailError(w, err, "failed to sign in", reqID)
		return
	}
	user := auth.UserContext{UserID: tokens.User.ID, TenantID: tokens.User.TenantID}
	shared.Audit(r, h.Audit, user, reqID, "auth.login", "user", tokens.User.ID, nil, nil)
	api.Success(w, tokens, reqID)
}

func (h *Handler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var payload refreshRequest
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	tokens, err := h.Service.Refresh(r.Context(), payload.RefreshToken)
	if err != nil {
		if isAuthFailure(err) {
			api.Fail(w, http.StatusUnauthorized, "invalid_session", "session expired", reqID)
			return
		}
		api.FailError(w, err, "failed to refresh session", reqID)
		return
	}
	api.Success(w, tokens, reqID)
}

func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	var payload refreshRequest
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	if err := h.Service.Logout(r.Context(), payload.RefreshToken); err != nil {
		api.FailError(w, err, "failed to sign out", reqID)
		return
	}
	shared.Audit(r, h.Audit, user, reqID, "auth.logout", "user", user.UserID, nil, nil)
	api.Success(w, map[string]string{"status": "logged_out"}, reqID)
}

func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	profile, err := h.Service.Me(r.Context(), user.UserID)
	if err != nil {
		api.FailError(w, err, "failed to load profile", reqID)
		return
	}
	api.Success(w, profile, reqID)
}

// isAuthFailure reports credential and session failures, which answer 401
// rather than the 403 used for role checks.
func isAuthFailure(err error) bool {
	return apperr.KindOf(err) == apperr.KindUnauthorized
}
