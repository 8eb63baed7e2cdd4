package analyticshandler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"peoplehub/internal/domain/analytics"
	"peoplehub/internal/domain/audit"
	"peoplehub/internal/domain/auth"
	"peoplehub/internal/platform/metrics"
	"peoplehub/internal/transport/http/api"
	"peoplehub/internal/transport/http/middleware"
	"peoplehub/internal/transport/http/shared"
)

type Handler struct {
	Service *analytics.Service
	Perms   middleware.PermissionStore
	Audit   *audit.Service
	Metrics *metrics.Collector
}

func NewHandler(service *analytics.Service, perms middleware.PermissionStore, auditSvc *audit.Service, collector *metrics.Collector) *Handler {
	return &Handler{Service: service, Perms: perms, Audit: auditSvc, Metrics: collector}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/analytics", func(r chi.Router) {
		r.Use(middleware.RequirePermission(auth.PermAnalyticsRead, h.Perms))
		r.Get("/snapshots", h.handleListSnapshots)
		r.Post("/snapshots", h.handleSnapshot)
		r.Get("/{report}", h.handleReport)
	})
}

type snapshotRequest struct {
	Label     string   `json:"label" validate:"max=100"`
	StartDate string   `json:"startDate"`
	EndDate   string   `json:"endDate"`
	Reports   []string `json:"reports"`
}

// parseRange reads optional startDate/endDate values and applies the
// default window.
func (h *Handler) parseRange(w http.ResponseWriter, reqID, rawStart, rawEnd string) (analytics.Range, bool) {
	start, err := shared.OptionalDate(rawStart)
	if err != nil {
		shared.FailValidation(w, reqID, []shared.ValidationIssue{{Field: "startDate", Reason: "must be a valid date in YYYY-MM-DD format"}})
		return analytics.Range{}, false
	}
	end, err := shared.OptionalDate(rawEnd)
	if err != nil {
		shared.FailValidation(w, reqID, []shared.ValidationIssue{{Field: "endDate", Reason: "must be a valid date in YYYY-MM-DD format"}})
		return analytics.Range{}, false
	}
	rng, err := h.Service.Range(start, end)
	if err != nil {
		api.FailError(w, err, "invalid date range", reqID)
		return analytics.Range{}, false
	}
	return rng, true
}

func failSnapshots(w http.ResponseWriter, err error, fallback, reqID string) {
	if errors.Is(err, analytics.ErrSnapshotsDisabled) {
		api.Fail(w, http.StatusServiceUnavailable, "snapshots_disabled", "analytics snapshots are not configured", reqID)
		return
	}
	api.FailError(w, err, fallback, reqID)
}

func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	name := chi.URLParam(r, "report")
	if !analytics.ValidReport(name) {
		api.FailError(w, analytics.ErrUnknownReport, "failed to build report", reqID)
		return
	}
	q := r.URL.Query()
	rng, ok := h.parseRange(w, reqID, q.Get("startDate"), q.Get("endDate"))
	if !ok {
		return
	}
	report, err := h.Service.Report(r.Context(), user.TenantID, name, rng)
	if err != nil {
		api.FailError(w, err, "failed to build report", reqID)
		return
	}
	api.Success(w, map[string]any{"range": rng, "report": report}, reqID)
}

func (h *Handler) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	var payload snapshotRequest
	if !shared.DecodeOptionalJSON(w, r, &payload, reqID) {
		return
	}
	rng, ok := h.parseRange(w, reqID, payload.StartDate, payload.EndDate)
	if !ok {
		return
	}
	snap, err := h.Service.Snapshot(r.Context(), user.TenantID, user.UserID, payload.Label, rng, payload.Reports)
	if err != nil {
		failSnapshots(w, err, "failed to archive snapshot", reqID)
		return
	}
	h.Metrics.Inc(metrics.AnalyticsSnapshotted)
	shared.Audit(r, h.Audit, user, reqID, "analytics.snapshot", "analytics_snapshot", snap.ID, nil, map[string]any{"label": snap.Label, "range": snap.Range})
	api.Created(w, snap, reqID)
}

func (h *Handler) handleListSnapshots(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	page := shared.ParsePagination(r, 20, 100)
	items, err := h.Service.ListSnapshots(r.Context(), user.TenantID, page.Limit, page.Offset)
	if err != nil {
		failSnapshots(w, err, "failed to list snapshots", reqID)
		return
	}
	api.Success(w, items, reqID)
}
