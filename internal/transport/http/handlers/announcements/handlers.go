package announcementshandler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"peoplehub/internal/domain/announcement"
	"peoplehub/internal/domain/audit"
	"peoplehub/internal/domain/auth"
	"peoplehub/internal/domain/notifications"
	"peoplehub/internal/transport/http/api"
	"peoplehub/internal/transport/http/middleware"
	"peoplehub/internal/transport/http/shared"
)

type Handler struct {
	Service *announcement.Service
	Perms   middleware.PermissionStore
	Audit   *audit.Service
	Notify  *shared.Notifier
}

func NewHandler(service *announcement.Service, perms middleware.PermissionStore, auditSvc *audit.Service, notify *shared.Notifier) *Handler {
	return &Handler{Service: service, Perms: perms, Audit: auditSvc, Notify: notify}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/announcements", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermAnnouncementsRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermAnnouncementsWrite, h.Perms)).Post("/", h.handlePublish)
		r.With(middleware.RequirePermission(auth.PermAnnouncementsRead, h.Perms)).Get("/{announcementID}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermAnnouncementsWrite, h.Perms)).Put("/{announcementID}", h.handleUpdate)
		r.With(middleware.RequirePermission(auth.PermAnnouncementsWrite, h.Perms)).Delete("/{announcementID}", h.handleDelete)
		r.With(middleware.RequirePermission(auth.PermAnnouncementsRead, h.Perms)).Post("/{announcementID}/comments", h.handleComment)
		r.With(middleware.RequirePermission(auth.PermAnnouncementsRead, h.Perms)).Post("/{announcementID}/read", h.handleMarkRead)
	})
}

type announcementRequest struct {
	Title      string     `json:"title" validate:"max=300"`
	Content    string     `json:"content" validate:"max=20000"`
	Priority   string     `json:"priority"`
	Department string     `json:"department" validate:"max=100"`
	Pinned     bool       `json:"pinned"`
	PublishAt  *time.Time `json:"publishAt"`
	ExpiresAt  *time.Time `json:"expiresAt"`
}

type commentRequest struct {
	Body string `json:"body" validate:"required,max=5000"`
}

func (p announcementRequest) input() announcement.Input {
	return announcement.Input{
		Title:      p.Title,
		Content:    p.Content,
		Priority:   p.Priority,
		Department: p.Department,
		Pinned:     p.Pinned,
		PublishAt:  p.PublishAt,
		ExpiresAt:  p.ExpiresAt,
	}
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	page := shared.ParsePagination(r, 20, 100)
	items, total, err := h.Service.List(r.Context(), user, announcement.Filter{Limit: page.Limit, Offset: page.Offset})
	if err != nil {
		api.FailError(w, err, "failed to list announcements", reqID)
		return
	}
	w.Header().Set("X-Total-Count", strconv.Itoa(total))
	api.Success(w, items, reqID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	a, err := h.Service.Get(r.Context(), user, chi.URLParam(r, "announcementID"))
	if err != nil {
		api.FailError(w, err, "failed to load announcement", reqID)
		return
	}
	api.Success(w, a, reqID)
}

// handlePublish stores the announcement and then notifies its audience. An
// audience lookup failure only skips the notifications.
func (h *Handler) handlePublish(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	var payload announcementRequest
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	a, recipients, err := h.Service.Publish(r.Context(), user, payload.input())
	if err != nil && a.ID == "" {
		api.FailError(w, err, "failed to publish announcement", reqID)
		return
	}
	if err != nil {
		slog.Warn("announcement audience lookup failed", "announcement_id", a.ID, "err", err)
	}
	shared.Audit(r, h.Audit, user, reqID, "announcement.publish", "announcement", a.ID, nil, a)

	tasks := h.Notify.Tasks()
	for _, uid := range recipients {
		h.Notify.Add(tasks, user.TenantID, uid, notifications.TypeAnnouncementPosted, a.Title, a.Content)
	}
	h.Notify.Run(r, tasks)

	api.Created(w, a, reqID)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	var payload announcementRequest
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	before, after, err := h.Service.Update(r.Context(), user, chi.URLParam(r, "announcementID"), payload.input())
	if err != nil {
		api.FailError(w, err, "failed to update announcement", reqID)
		return
	}
	shared.Audit(r, h.Audit, user, reqID, "announcement.update", "announcement", after.ID, before, after)
	api.Success(w, after, reqID)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	a, err := h.Service.Delete(r.Context(), user, chi.URLParam(r, "announcementID"))
	if err != nil {
		api.FailError(w, err, "failed to delete announcement", reqID)
		return
	}
	shared.Audit(r, h.Audit, user, reqID, "announcement.delete", "announcement", a.ID, a, nil)
	api.SuccessMessage(w, "announcement deleted", nil, reqID)
}

func (h *Handler) handleComment(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	var payload commentRequest
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	id := chi.URLParam(r, "announcementID")
	c, err := h.Service.Comment(r.Context(), user, id, payload.Body)
	if err != nil {
		api.FailError(w, err, "failed to add comment", reqID)
		return
	}
	shared.Audit(r, h.Audit, user, reqID, "announcement.comment", "announcement", id, nil, c)
	api.Created(w, c, reqID)
}

func (h *Handler) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	if err := h.Service.MarkRead(r.Context(), user, chi.URLParam(r, "announcementID")); err != nil {
		api.FailError(w, err, "failed to mark announcement read", reqID)
		return
	}
	api.SuccessMessage(w, "announcement marked read", nil, reqID)
}
