package adminhandler

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"peoplehub/internal/domain/audit"
	"peoplehub/internal/domain/auth"
	"peoplehub/internal/platform/jobs"
	"peoplehub/internal/platform/metrics"
	"peoplehub/internal/transport/http/api"
	"peoplehub/internal/transport/http/middleware"
	"peoplehub/internal/transport/http/shared"
)

type Handler struct {
	Metrics *metrics.Collector
	Jobs    *jobs.Service
	// Triggers are the scheduled jobs an admin may start by hand, by job type.
	Triggers map[string]jobs.TenantFunc
	Perms    middleware.PermissionStore
	Audit    *audit.Service
}

func NewHandler(collector *metrics.Collector, jobsSvc *jobs.Service, triggers map[string]jobs.TenantFunc, perms middleware.PermissionStore, auditSvc *audit.Service) *Handler {
	return &Handler{Metrics: collector, Jobs: jobsSvc, Triggers: triggers, Perms: perms, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.RequirePermission(auth.PermSystemAdmin, h.Perms))
		r.Get("/metrics", h.handleMetrics)
		r.Post("/jobs/{jobType}", h.handleTrigger)
		r.Get("/jobs/runs/{runID}", h.handleRun)
	})
}

func (h *Handler) handleMetrics(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	snapshot := h.Metrics.Snapshot()
	if snapshot == nil {
		api.Fail(w, http.StatusServiceUnavailable, "metrics_disabled", "metrics collection is disabled", reqID)
		return
	}
	api.Success(w, snapshot, reqID)
}

func (h *Handler) handleTrigger(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	jobType := chi.URLParam(r, "jobType")
	run, ok := h.Triggers[jobType]
	if !ok {
		api.Fail(w, http.StatusNotFound, "not_found", "unknown job type", reqID)
		return
	}
	tenantID := user.TenantID
	runID, err := h.Jobs.Submit(r.Context(), jobType, tenantID, func(ctx context.Context) (any, error) {
		return run(ctx, tenantID)
	})
	if errors.Is(err, jobs.ErrQueueFull) {
		api.Fail(w, http.StatusServiceUnavailable, "queue_full", "job queue is full, retry later", reqID)
		return
	}
	if err != nil {
		api.FailError(w, err, "failed to queue job", reqID)
		return
	}
	shared.Audit(r, h.Audit, user, reqID, "admin.job.trigger", "job_run", runID, nil, map[string]string{"jobType": jobType})
	api.Accepted(w, map[string]string{"runId": runID, "jobType": jobType}, reqID)
}

func (h *Handler) handleRun(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	run, err := h.Jobs.Get(r.Context(), user.TenantID, chi.URLParam(r, "runID"))
	if err != nil {
		api.FailError(w, err, "failed to load job run", reqID)
		return
	}
	api.Success(w, run, reqID)
}
