package shiftshandler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"peoplehub/internal/domain/audit"
	"peoplehub/internal/domain/auth"
	"peoplehub/internal/domain/shift"
	"peoplehub/internal/transport/http/api"
	"peoplehub/internal/transport/http/middleware"
	"peoplehub/internal/transport/http/shared"
)

const maxRosterDays = 92

type Handler struct {
	Service *shift.Service
	Perms   middleware.PermissionStore
	Audit   *audit.Service
}

func NewHandler(service *shift.Service, perms middleware.PermissionStore, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Perms: perms, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/shifts", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermShiftsRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermShiftsWrite, h.Perms)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermShiftsWrite, h.Perms)).Post("/assignments", h.handleAssign)
		r.With(middleware.RequirePermission(auth.PermShiftsRead, h.Perms)).Get("/roster", h.handleRoster)
	})
}

type shiftPayload struct {
	Name         string `json:"name" validate:"required"`
	StartTime    string `json:"startTime" validate:"required"`
	EndTime      string `json:"endTime" validate:"required"`
	BreakMinutes int    `json:"breakMinutes" validate:"gte=0,lte=480"`
	GraceMinutes int    `json:"graceMinutes" validate:"gte=0,lte=240"`
}

type assignmentPayload struct {
	EmployeeID string `json:"employeeId" validate:"required,uuid"`
	ShiftID    string `json:"shiftId" validate:"required,uuid"`
	StartDate  string `json:"startDate" validate:"required"`
	EndDate    string `json:"endDate"`
	Recurrence string `json:"recurrence"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	items, err := h.Service.List(r.Context(), user.TenantID)
	if err != nil {
		api.FailError(w, err, "failed to list shifts", reqID)
		return
	}
	api.Success(w, items, reqID)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	var payload shiftPayload
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	created, err := h.Service.Create(r.Context(), user.TenantID, shift.Shift{
		Name:         payload.Name,
		StartTime:    payload.StartTime,
		EndTime:      payload.EndTime,
		BreakMinutes: payload.BreakMinutes,
		GraceMinutes: payload.GraceMinutes,
	})
	if err != nil {
		api.FailError(w, err, "failed to create shift", reqID)
		return
	}
	shared.Audit(r, h.Audit, user, reqID, "shift.create", "shift", created.ID, nil, created)
	api.Created(w, created, reqID)
}

func (h *Handler) handleAssign(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	var payload assignmentPayload
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	v := shared.NewValidator()
	start, _ := v.Date("startDate", payload.StartDate)
	end := v.OptionalDate("endDate", payload.EndDate)
	v.DateOrder("startDate", start, "endDate", end)
	if v.Reject(w, reqID) {
		return
	}
	a := shift.Assignment{
		EmployeeID: payload.EmployeeID,
		ShiftID:    payload.ShiftID,
		StartDate:  start,
		Recurrence: payload.Recurrence,
	}
	if !end.IsZero() {
		a.EndDate = &end
	}
	created, err := h.Service.Assign(r.Context(), user.TenantID, a)
	if err != nil {
		api.FailError(w, err, "failed to assign shift", reqID)
		return
	}
	shared.Audit(r, h.Audit, user, reqID, "shift.assign", "shift_assignment", created.ID, nil, created)
	api.Created(w, created, reqID)
}

// handleRoster expands assignments for one employee. Non-managers only see
// their own roster.
func (h *Handler) handleRoster(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	q := r.URL.Query()
	employeeID := q.Get("employeeId")
	if employeeID == "" || !user.IsApprover() {
		employeeID = user.EmployeeID
	}
	v := shared.NewValidator()
	v.Required("employeeId", employeeID, "is required")
	from := v.OptionalDate("from", q.Get("from"))
	to := v.OptionalDate("to", q.Get("to"))
	if v.Reject(w, reqID) {
		return
	}
	if from.IsZero() {
		now := time.Now().UTC()
		from = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
	if to.IsZero() {
		to = from.AddDate(0, 1, -1)
	}
	v.DateOrder("from", from, "to", to)
	if to.Sub(from) > maxRosterDays*24*time.Hour {
		v.Add("to", "range may not exceed 92 days")
	}
	if v.Reject(w, reqID) {
		return
	}
	entries, err := h.Service.Roster(r.Context(), user.TenantID, employeeID, from, to)
	if err != nil {
		api.FailError(w, err, "failed to build roster", reqID)
		return
	}
	api.Success(w, entries, reqID)
}
