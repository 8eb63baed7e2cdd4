package employeeshandler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"peoplehub/internal/domain/audit"
	"peoplehub/internal/domain/auth"
	"peoplehub/internal/domain/employee"
	"peoplehub/internal/domain/notifications"
	"peoplehub/internal/transport/http/api"
	"peoplehub/internal/transport/http/middleware"
	"peoplehub/internal/transport/http/shared"
)

type Handler struct {
	Service *employee.Service
	Perms   middleware.PermissionStore
	Audit   *audit.Service
	Notify  *shared.Notifier
}

func NewHandler(service *employee.Service, perms middleware.PermissionStore, auditSvc *audit.Service, notify *shared.Notifier) *Handler {
	return &Handler{Service: service, Perms: perms, Audit: auditSvc, Notify: notify}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/employees", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermEmployeesRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermEmployeesWrite, h.Perms)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermEmployeesRead, h.Perms)).Post("/me/resignation", h.handleSubmitResignation)
		r.With(middleware.RequirePermission(auth.PermEmployeesRead, h.Perms)).Get("/{employeeID}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermEmployeesWrite, h.Perms)).Put("/{employeeID}", h.handleUpdate)
		r.With(middleware.RequirePermission(auth.PermEmployeesWrite, h.Perms)).Delete("/{employeeID}", h.handleDeactivate)
		r.With(middleware.RequirePermission(auth.PermEmployeesWrite, h.Perms)).Put("/{employeeID}/status", h.handleChangeStatus)
		r.With(middleware.RequirePermission(auth.PermEmployeesRead, h.Perms)).Get("/{employeeID}/history", h.handleHistory)
		r.With(middleware.RequirePermission(auth.PermEmployeesLifecycle, h.Perms)).Put("/{employeeID}/resignation/approve", h.handleApproveResignation)
		r.With(middleware.RequirePermission(auth.PermEmployeesLifecycle, h.Perms)).Put("/{employeeID}/resignation/reject", h.handleRejectResignation)
	})
}

type createRequest struct {
	EmployeeCode  string  `json:"employeeCode"`
	FirstName     string  `json:"firstName" validate:"required"`
	LastName      string  `json:"lastName"`
	Email         string  `json:"email" validate:"required,email"`
	Phone         string  `json:"phone"`
	Department    string  `json:"department"`
	Designation   string  `json:"designation"`
	TeamLeadID    string  `json:"teamLeadId" validate:"omitempty,uuid"`
	ManagerID     string  `json:"managerId" validate:"omitempty,uuid"`
	DateOfJoining string  `json:"dateOfJoining" validate:"required"`
	BasicSalary   float64 `json:"basicSalary" validate:"gte=0"`
	Allowances    float64 `json:"allowances" validate:"gte=0"`
	Status        string  `json:"status"`
	Password      string  `json:"password" validate:"omitempty,min=8"`
	Role          string  `json:"role" validate:"omitempty,oneof=Employee TeamLead Manager HR Admin"`
}

type updateRequest struct {
	FirstName   *string  `json:"firstName"`
	LastName    *string  `json:"lastName"`
	Phone       *string  `json:"phone"`
	Department  *string  `json:"department"`
	Designation *string  `json:"designation"`
	TeamLeadID  *string  `json:"teamLeadId"`
	ManagerID   *string  `json:"managerId"`
	BasicSalary *float64 `json:"basicSalary" validate:"omitempty,gte=0"`
	Allowances  *float64 `json:"allowances" validate:"omitempty,gte=0"`
}

type statusRequest struct {
	Status string `json:"status" validate:"required"`
	Note   string `json:"note"`
}

type resignationRequest struct {
	Reason         string `json:"reason" validate:"required"`
	LastWorkingDay string `json:"lastWorkingDay"`
}

type approveRequest struct {
	As string `json:"as" validate:"omitempty,oneof=teamLead manager"`
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

// canView lets HR and Admin read everyone, approvers read their team and
// everyone read themselves.
func canView(user auth.UserContext, emp employee.Employee) bool {
	if user.IsHROrAdmin() || (user.EmployeeID != "" && user.EmployeeID == emp.ID) {
		return true
	}
	return user.EmployeeID != "" && (emp.TeamLeadID == user.EmployeeID || emp.ManagerID == user.EmployeeID)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	page := shared.ParsePagination(r, 50, 200)
	q := r.URL.Query()
	filter := employee.Filter{
		Department: q.Get("department"),
		Status:     q.Get("status"),
		Search:     q.Get("q"),
		ActiveOnly: shared.QueryBool(r, "active"),
		Limit:      page.Limit,
		Offset:     page.Offset,
	}
	if !user.IsHROrAdmin() {
		if !user.IsApprover() || user.EmployeeID == "" {
			h.writeSelf(w, r, user, reqID)
			return
		}
		filter.TeamOf = user.EmployeeID
	}
	items, total, err := h.Service.List(r.Context(), user.TenantID, filter)
	if err != nil {
		api.FailError(w, err, "failed to list employees", reqID)
		return
	}
	w.Header().Set("X-Total-Count", strconv.Itoa(total))
	api.Success(w, items, reqID)
}

func (h *Handler) writeSelf(w http.ResponseWriter, r *http.Request, user auth.UserContext, reqID string) {
	if user.EmployeeID == "" {
		w.Header().Set("X-Total-Count", "0")
		api.Success(w, []employee.Employee{}, reqID)
		return
	}
	emp, err := h.Service.Get(r.Context(), user.TenantID, user.EmployeeID)
	if err != nil {
		api.FailError(w, err, "failed to list employees", reqID)
		return
	}
	w.Header().Set("X-Total-Count", "1")
	api.Success(w, []employee.Employee{emp}, reqID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	emp, err := h.Service.Get(r.Context(), user.TenantID, chi.URLParam(r, "employeeID"))
	if err != nil {
		api.FailError(w, err, "failed to load employee", reqID)
		return
	}
	if !canView(user, emp) {
		api.FailError(w, employee.ErrEmployeeNotFound, "failed to load employee", reqID)
		return
	}
	api.Success(w, emp, reqID)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	var payload createRequest
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	v := shared.NewValidator()
	joined, _ := v.Date("dateOfJoining", payload.DateOfJoining)
	v.Enum("status", payload.Status, employee.Statuses, "must be a known employee status")
	if v.Reject(w, reqID) {
		return
	}
	emp, err := h.Service.Create(r.Context(), user.TenantID, user.UserID, employee.CreateInput{
		EmployeeCode:  payload.EmployeeCode,
		FirstName:     payload.FirstName,
		LastName:      payload.LastName,
		Email:         payload.Email,
		Phone:         payload.Phone,
		Department:    payload.Department,
		Designation:   payload.Designation,
		TeamLeadID:    payload.TeamLeadID,
		ManagerID:     payload.ManagerID,
		DateOfJoining: joined,
		BasicSalary:   payload.BasicSalary,
		Allowances:    payload.Allowances,
		Status:        payload.Status,
		Password:      payload.Password,
		Role:          payload.Role,
	})
	if err != nil {
		api.FailError(w, err, "failed to create employee", reqID)
		return
	}
	shared.Audit(r, h.Audit, user, reqID, "employee.create", "employee", emp.ID, nil, emp)
	api.Created(w, emp, reqID)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	var payload updateRequest
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	before, after, err := h.Service.Update(r.Context(), user.TenantID, chi.URLParam(r, "employeeID"), employee.UpdateInput{
		FirstName:   payload.FirstName,
		LastName:    payload.LastName,
		Phone:       payload.Phone,
		Department:  payload.Department,
		Designation: payload.Designation,
		TeamLeadID:  payload.TeamLeadID,
		ManagerID:   payload.ManagerID,
		BasicSalary: payload.BasicSalary,
		Allowances:  payload.Allowances,
	})
	if err != nil {
		api.FailError(w, err, "failed to update employee", reqID)
		return
	}
	shared.Audit(r, h.Audit, user, reqID, "employee.update", "employee", after.ID, before, after)
	api.Success(w, after, reqID)
}

func (h *Handler) handleDeactivate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	id := chi.URLParam(r, "employeeID")
	before, err := h.Service.Get(r.Context(), user.TenantID, id)
	if err != nil {
		api.FailError(w, err, "failed to deactivate employee", reqID)
		return
	}
	after, err := h.Service.Deactivate(r.Context(), user.TenantID, user.UserID, id)
	if err != nil {
		api.FailError(w, err, "failed to deactivate employee", reqID)
		return
	}
	shared.Audit(r, h.Audit, user, reqID, "employee.deactivate", "employee", id, before, after)
	api.SuccessMessage(w, "employee deactivated", after, reqID)
}

func (h *Handler) handleChangeStatus(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	var payload statusRequest
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	before, after, err := h.Service.ChangeStatus(r.Context(), user.TenantID, user.UserID, chi.URLParam(r, "employeeID"), payload.Status, payload.Note)
	if err != nil {
		api.FailError(w, err, "failed to change employee status", reqID)
		return
	}
	shared.Audit(r, h.Audit, user, reqID, "employee.status", "employee", after.ID, before, after)

	tasks := h.Notify.Tasks()
	h.Notify.Add(tasks, user.TenantID, after.UserID, notifications.TypeEmployeeStatusMoved,
		"Employment status updated", fmt.Sprintf("Your status changed from %s to %s.", before.Status, after.Status))
	h.Notify.Run(r, tasks)

	api.Success(w, after, reqID)
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	id := chi.URLParam(r, "employeeID")
	emp, err := h.Service.Get(r.Context(), user.TenantID, id)
	if err != nil {
		api.FailError(w, err, "failed to load history", reqID)
		return
	}
	if !canView(user, emp) {
		api.FailError(w, employee.ErrEmployeeNotFound, "failed to load history", reqID)
		return
	}
	items, err := h.Service.History(r.Context(), user.TenantID, id)
	if err != nil {
		api.FailError(w, err, "failed to load history", reqID)
		return
	}
	api.Success(w, items, reqID)
}

func (h *Handler) handleSubmitResignation(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	var payload resignationRequest
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	lastDay, err := shared.OptionalDate(payload.LastWorkingDay)
	if err != nil {
		shared.FailValidation(w, reqID, []shared.ValidationIssue{{Field: "lastWorkingDay", Reason: "must be a valid date in YYYY-MM-DD format"}})
		return
	}
	emp, err := h.Service.SubmitResignation(r.Context(), user, payload.Reason, lastDay)
	if err != nil {
		api.FailError(w, err, "failed to submit resignation", reqID)
		return
	}
	shared.Audit(r, h.Audit, user, reqID, "employee.resignation.submit", "employee", emp.ID, nil, emp.Resignation)

	tasks := h.Notify.Tasks()
	body := fmt.Sprintf("%s submitted a resignation.", emp.FullName)
	for _, approverID := range []string{emp.TeamLeadID, emp.ManagerID} {
		if approverID == "" {
			continue
		}
		approver, err := h.Service.Get(r.Context(), user.TenantID, approverID)
		if err != nil {
			continue
		}
		h.Notify.Add(tasks, user.TenantID, approver.UserID, notifications.TypeResignationUpdate, "Resignation submitted", body)
	}
	h.Notify.Run(r, tasks)

	api.Created(w, emp, reqID)
}

func (h *Handler) handleApproveResignation(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	var payload approveRequest
	if !shared.DecodeOptionalJSON(w, r, &payload, reqID) {
		return
	}
	emp, err := h.Service.ApproveResignation(r.Context(), user, chi.URLParam(r, "employeeID"), payload.As)
	if err != nil {
		api.FailError(w, err, "failed to approve resignation", reqID)
		return
	}
	shared.Audit(r, h.Audit, user, reqID, "employee.resignation.approve", "employee", emp.ID, nil, emp.Resignation)

	tasks := h.Notify.Tasks()
	msg := "Your resignation received an approval."
	if emp.Status == employee.StatusNoticePeriod {
		msg = "Your resignation is approved. Your notice period has started."
	}
	h.Notify.Add(tasks, user.TenantID, emp.UserID, notifications.TypeResignationUpdate, "Resignation approved", msg)
	h.Notify.Run(r, tasks)

	api.Success(w, emp, reqID)
}

func (h *Handler) handleRejectResignation(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	var payload rejectRequest
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	emp, err := h.Service.RejectResignation(r.Context(), user, chi.URLParam(r, "employeeID"), payload.Reason)
	if err != nil {
		api.FailError(w, err, "failed to reject resignation", reqID)
		return
	}
	shared.Audit(r, h.Audit, user, reqID, "employee.resignation.reject", "employee", emp.ID, nil, emp.Resignation)

	tasks := h.Notify.Tasks()
	h.Notify.Add(tasks, user.TenantID, emp.UserID, notifications.TypeResignationUpdate, "Resignation rejected", payload.Reason)
	h.Notify.Run(r, tasks)

	api.Success(w, emp, reqID)
}
