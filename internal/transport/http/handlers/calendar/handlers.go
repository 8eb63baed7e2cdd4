package calendarhandler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"peoplehub/internal/domain/audit"
	"peoplehub/internal/domain/auth"
	"peoplehub/internal/domain/calendar"
	"peoplehub/internal/transport/http/api"
	"peoplehub/internal/transport/http/middleware"
	"peoplehub/internal/transport/http/shared"
)

type Handler struct {
	Service *calendar.Service
	Perms   middleware.PermissionStore
	Audit   *audit.Service
}

func NewHandler(service *calendar.Service, perms middleware.PermissionStore, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Perms: perms, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/calendar", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermCalendarRead, h.Perms)).Get("/holidays", h.handleListHolidays)
		r.With(middleware.RequirePermission(auth.PermCalendarWrite, h.Perms)).Post("/holidays", h.handleCreateHoliday)
		r.With(middleware.RequirePermission(auth.PermCalendarWrite, h.Perms)).Delete("/holidays/{holidayID}", h.handleDeleteHoliday)
		r.With(middleware.RequirePermission(auth.PermCalendarRead, h.Perms)).Get("/weekly-off", h.handleWeeklyOff)
		r.With(middleware.RequirePermission(auth.PermCalendarWrite, h.Perms)).Put("/weekly-off", h.handleSetWeeklyOff)
	})
}

type holidayPayload struct {
	Date string `json:"date" validate:"required"`
	Name string `json:"name" validate:"required"`
}

type weeklyOffPayload struct {
	Rule string `json:"rule" validate:"required"`
}

// handleListHolidays defaults to the current calendar year.
func (h *Handler) handleListHolidays(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	year := shared.QueryInt(r, "year", time.Now().UTC().Year())
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
	items, err := h.Service.Holidays(r.Context(), user.TenantID, from, to)
	if err != nil {
		api.FailError(w, err, "failed to list holidays", reqID)
		return
	}
	api.Success(w, items, reqID)
}

func (h *Handler) handleCreateHoliday(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	var payload holidayPayload
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	v := shared.NewValidator()
	date, _ := v.Date("date", payload.Date)
	if v.Reject(w, reqID) {
		return
	}
	holiday, err := h.Service.AddHoliday(r.Context(), user.TenantID, date, payload.Name)
	if err != nil {
		api.FailError(w, err, "failed to create holiday", reqID)
		return
	}
	shared.Audit(r, h.Audit, user, reqID, "calendar.holiday.create", "holiday", holiday.ID, nil, holiday)
	api.Created(w, holiday, reqID)
}

func (h *Handler) handleDeleteHoliday(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	holiday, err := h.Service.RemoveHoliday(r.Context(), user.TenantID, chi.URLParam(r, "holidayID"))
	if err != nil {
		api.FailError(w, err, "failed to delete holiday", reqID)
		return
	}
	shared.Audit(r, h.Audit, user, reqID, "calendar.holiday.delete", "holiday", holiday.ID, holiday, nil)
	api.SuccessMessage(w, "holiday deleted", holiday, reqID)
}

func (h *Handler) handleWeeklyOff(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	rule, err := h.Service.WeeklyOff(r.Context(), user.TenantID)
	if err != nil {
		api.FailError(w, err, "failed to load weekly off rule", reqID)
		return
	}
	api.Success(w, rule, reqID)
}

func (h *Handler) handleSetWeeklyOff(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	var payload weeklyOffPayload
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	before, err := h.Service.WeeklyOff(r.Context(), user.TenantID)
	if err != nil {
		api.FailError(w, err, "failed to update weekly off rule", reqID)
		return
	}
	after, err := h.Service.SetWeeklyOff(r.Context(), user.TenantID, payload.Rule)
	if err != nil {
		api.FailError(w, err, "failed to update weekly off rule", reqID)
		return
	}
	shared.Audit(r, h.Audit, user, reqID, "calendar.weekly_off.update", "tenant_settings", user.TenantID, before, after)
	api.Success(w, after, reqID)
}
