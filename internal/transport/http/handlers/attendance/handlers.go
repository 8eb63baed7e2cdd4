package attendancehandler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"peoplehub/internal/domain/attendance"
	"peoplehub/internal/domain/audit"
	"peoplehub/internal/domain/auth"
	"peoplehub/internal/domain/employee"
	"peoplehub/internal/transport/http/api"
	"peoplehub/internal/transport/http/middleware"
	"peoplehub/internal/transport/http/shared"
)

type Handler struct {
	Service   *attendance.Service
	Employees *employee.Service
	Perms     middleware.PermissionStore
	Audit     *audit.Service
}

func NewHandler(service *attendance.Service, employees *employee.Service, perms middleware.PermissionStore, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Employees: employees, Perms: perms, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/attendance", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermAttendanceWrite, h.Perms)).Post("/check-in", h.handleCheckIn)
		r.With(middleware.RequirePermission(auth.PermAttendanceWrite, h.Perms)).Post("/check-out", h.handleCheckOut)
		r.With(middleware.RequirePermission(auth.PermAttendanceManage, h.Perms)).Post("/", h.handleMark)
		r.With(middleware.RequirePermission(auth.PermAttendanceRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermAttendanceRead, h.Perms)).Get("/summary", h.handleSummary)
	})
}

type checkInRequest struct {
	Note string `json:"note" validate:"max=500"`
}

type markRequest struct {
	EmployeeID string     `json:"employeeId" validate:"required,uuid"`
	Date       string     `json:"date" validate:"required"`
	Status     string     `json:"status" validate:"required"`
	CheckIn    *time.Time `json:"checkIn"`
	CheckOut   *time.Time `json:"checkOut"`
	Note       string     `json:"note" validate:"max=500"`
}

func (h *Handler) handleCheckIn(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	var payload checkInRequest
	if !shared.DecodeOptionalJSON(w, r, &payload, reqID) {
		return
	}
	log, err := h.Service.CheckIn(r.Context(), user, payload.Note)
	if err != nil {
		api.FailError(w, err, "failed to check in", reqID)
		return
	}
	api.Created(w, log, reqID)
}

func (h *Handler) handleCheckOut(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	log, err := h.Service.CheckOut(r.Context(), user)
	if err != nil {
		api.FailError(w, err, "failed to check out", reqID)
		return
	}
	api.Success(w, log, reqID)
}

func (h *Handler) handleMark(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	var payload markRequest
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	v := shared.NewValidator()
	date, _ := v.Date("date", payload.Date)
	v.Enum("status", payload.Status, attendance.Statuses, "must be one of Present, Absent, HalfDay, Late, OnLeave")
	if v.Reject(w, reqID) {
		return
	}
	log, err := h.Service.Mark(r.Context(), user.TenantID, attendance.MarkInput{
		EmployeeID: payload.EmployeeID,
		Date:       date,
		Status:     payload.Status,
		CheckIn:    payload.CheckIn,
		CheckOut:   payload.CheckOut,
		Note:       payload.Note,
	})
	if err != nil {
		api.FailError(w, err, "failed to mark attendance", reqID)
		return
	}
	shared.Audit(r, h.Audit, user, reqID, "attendance.mark", "attendance", log.ID, nil, log)
	api.Success(w, log, reqID)
}

// scopedEmployee resolves which employee a read targets. Approvers may read
// their team, HR and Admin anyone, everyone else only themselves.
func (h *Handler) scopedEmployee(r *http.Request, user auth.UserContext, requested string) (string, error) {
	if requested == "" || requested == user.EmployeeID {
		return user.EmployeeID, nil
	}
	if user.IsHROrAdmin() {
		return requested, nil
	}
	if user.IsApprover() {
		emp, err := h.Employees.Get(r.Context(), user.TenantID, requested)
		if err != nil {
			return "", err
		}
		if emp.TeamLeadID == user.EmployeeID || emp.ManagerID == user.EmployeeID {
			return requested, nil
		}
	}
	return "", employee.ErrEmployeeNotFound
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	q := r.URL.Query()
	v := shared.NewValidator()
	from := v.OptionalDate("from", q.Get("from"))
	to := v.OptionalDate("to", q.Get("to"))
	v.DateOrder("from", from, "to", to)
	v.Enum("status", q.Get("status"), attendance.Statuses, "must be one of Present, Absent, HalfDay, Late, OnLeave")
	if v.Reject(w, reqID) {
		return
	}
	page := shared.ParsePagination(r, 50, 200)
	filter := attendance.Filter{Status: q.Get("status"), Limit: page.Limit, Offset: page.Offset}
	if !from.IsZero() {
		filter.From = &from
	}
	if !to.IsZero() {
		filter.To = &to
	}
	if q.Get("employeeId") != "" || !user.IsHROrAdmin() {
		employeeID, err := h.scopedEmployee(r, user, q.Get("employeeId"))
		if err != nil {
			api.FailError(w, err, "failed to list attendance", reqID)
			return
		}
		if employeeID == "" {
			w.Header().Set("X-Total-Count", "0")
			api.Success(w, []attendance.Log{}, reqID)
			return
		}
		filter.EmployeeID = employeeID
	}
	items, total, err := h.Service.List(r.Context(), user.TenantID, filter)
	if err != nil {
		api.FailError(w, err, "failed to list attendance", reqID)
		return
	}
	w.Header().Set("X-Total-Count", strconv.Itoa(total))
	api.Success(w, items, reqID)
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	now := time.Now().UTC()
	year := shared.QueryInt(r, "year", now.Year())
	month := shared.QueryInt(r, "month", int(now.Month()))
	v := shared.NewValidator()
	v.Range("month", month, 1, 12)
	v.Range("year", year, 2000, 2100)
	if v.Reject(w, reqID) {
		return
	}
	employeeID, err := h.scopedEmployee(r, user, r.URL.Query().Get("employeeId"))
	if err != nil {
		api.FailError(w, err, "failed to build summary", reqID)
		return
	}
	if employeeID == "" {
		api.FailError(w, attendance.ErrNoEmployeeProfile, "failed to build summary", reqID)
		return
	}
	summary, err := h.Service.MonthSummary(r.Context(), user.TenantID, employeeID, year, time.Month(month), shared.QueryBool(r, "sandwich"))
	if err != nil {
		api.FailError(w, err, "failed to build summary", reqID)
		return
	}
	api.Success(w, summary, reqID)
}
