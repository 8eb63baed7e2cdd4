package leavehandler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"peoplehub/internal/domain/audit"
	"peoplehub/internal/domain/auth"
	"peoplehub/internal/domain/employee"
	"peoplehub/internal/domain/leave"
	"peoplehub/internal/domain/notifications"
	"peoplehub/internal/platform/metrics"
	"peoplehub/internal/transport/http/api"
	"peoplehub/internal/transport/http/middleware"
	"peoplehub/internal/transport/http/shared"
)

type Handler struct {
	Service   *leave.Service
	Employees *employee.Service
	Perms     middleware.PermissionStore
	Audit     *audit.Service
	Notify    *shared.Notifier
	Metrics   *metrics.Collector
}

func NewHandler(service *leave.Service, employees *employee.Service, perms middleware.PermissionStore, auditSvc *audit.Service, notify *shared.Notifier, collector *metrics.Collector) *Handler {
	return &Handler{Service: service, Employees: employees, Perms: perms, Audit: auditSvc, Notify: notify, Metrics: collector}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/leave", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermLeaveRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermLeaveWrite, h.Perms)).Post("/", h.handleApply)
		r.With(middleware.RequirePermission(auth.PermLeaveRead, h.Perms)).Get("/{leaveID}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermLeaveApprove, h.Perms)).Put("/{leaveID}/approve", h.handleApprove)
		r.With(middleware.RequirePermission(auth.PermLeaveApprove, h.Perms)).Put("/{leaveID}/reject", h.handleReject)
	})
}

type applyRequest struct {
	LeaveType string `json:"leaveType" validate:"required"`
	StartDate string `json:"startDate" validate:"required"`
	EndDate   string `json:"endDate" validate:"required"`
	Reason    string `json:"reason" validate:"max=2000"`
}

type approveRequest struct {
	Comment string `json:"comment" validate:"max=2000"`
}

type rejectRequest struct {
	RejectionReason string `json:"rejectionReason" validate:"max=2000"`
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
	v.Enum("scope", q.Get("scope"), []string{leave.ScopeSelf, leave.ScopeTeam, leave.ScopeAll}, "must be one of self, team, all")
	v.Enum("status", q.Get("status"), []string{leave.StatusPending, leave.StatusApproved, leave.StatusRejected}, "must be one of Pending, Approved, Rejected")
	if v.Reject(w, reqID) {
		return
	}
	page := shared.ParsePagination(r, 50, 200)
	items, total, err := h.Service.List(r.Context(), user, leave.Filter{
		Scope:      q.Get("scope"),
		EmployeeID: q.Get("employeeId"),
		Status:     q.Get("status"),
		Stage:      q.Get("stage"),
		Limit:      page.Limit,
		Offset:     page.Offset,
	})
	if err != nil {
		api.FailError(w, err, "failed to list leave requests", reqID)
		return
	}
	w.Header().Set("X-Total-Count", strconv.Itoa(total))
	api.Success(w, items, reqID)
}

// handleGet hides requests outside the caller's scope behind NotFound.
func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	req, err := h.Service.Get(r.Context(), user.TenantID, chi.URLParam(r, "leaveID"))
	if err != nil {
		api.FailError(w, err, "failed to load leave request", reqID)
		return
	}
	if !user.IsHROrAdmin() && req.EmployeeID != user.EmployeeID {
		applicant, err := h.Employees.Get(r.Context(), user.TenantID, req.EmployeeID)
		if err != nil || user.EmployeeID == "" || (applicant.TeamLeadID != user.EmployeeID && applicant.ManagerID != user.EmployeeID) {
			api.FailError(w, leave.ErrLeaveNotFound, "failed to load leave request", reqID)
			return
		}
	}
	api.Success(w, req, reqID)
}

func (h *Handler) handleApply(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	var payload applyRequest
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	v := shared.NewValidator()
	start, _ := v.Date("startDate", payload.StartDate)
	end, _ := v.Date("endDate", payload.EndDate)
	v.DateOrder("startDate", start, "endDate", end)
	v.Enum("leaveType", payload.LeaveType, leave.Types, "must be one of Casual, Sick, Earned, Maternity, Paternity, Compensatory, LOP")
	if v.Reject(w, reqID) {
		return
	}
	req, applicant, err := h.Service.Apply(r.Context(), user, leave.ApplyInput{
		LeaveType: payload.LeaveType,
		StartDate: start,
		EndDate:   end,
		Reason:    payload.Reason,
	})
	if err != nil {
		api.FailError(w, err, "failed to apply for leave", reqID)
		return
	}
	shared.Audit(r, h.Audit, user, reqID, "leave.apply", "leave_request", req.ID, nil, req)

	approverID := applicant.TeamLeadID
	if approverID == "" {
		approverID = applicant.ManagerID
	}
	tasks := h.Notify.Tasks()
	if approver, ok := h.userOf(r, user.TenantID, approverID); ok {
		h.Notify.Add(tasks, user.TenantID, approver, notifications.TypeLeaveSubmitted, "Leave request submitted",
			fmt.Sprintf("%s applied for %d day(s) of %s leave.", applicant.FullName, req.TotalDays, req.LeaveType))
	}
	h.Notify.Run(r, tasks)

	api.Created(w, req, reqID)
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
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
	out, err := h.Service.Approve(r.Context(), user, chi.URLParam(r, "leaveID"), payload.Comment)
	if err != nil {
		api.FailError(w, err, "failed to approve leave request", reqID)
		return
	}
	h.Metrics.Inc(metrics.LeaveDecisions)
	shared.Audit(r, h.Audit, user, reqID, "leave.approve", "leave_request", out.After.ID, out.Before, out.After)

	tasks := h.Notify.Tasks()
	summary := fmt.Sprintf("%s leave from %s to %s", out.After.LeaveType, out.After.StartDate.Format("2006-01-02"), out.After.EndDate.Format("2006-01-02"))
	if out.Completed() {
		h.Notify.Add(tasks, user.TenantID, out.Applicant.UserID, notifications.TypeLeaveApproved, "Leave approved", "Your "+summary+" is approved.")
		h.Notify.AddEmail(tasks, user.TenantID, out.Applicant.UserID, "Leave approved", "Your "+summary+" is approved.")
		h.Notify.AddRoles(r.Context(), tasks, user.TenantID, user.UserID, notifications.TypeLeaveApproved, "Leave approved",
			fmt.Sprintf("%s's %s is approved.", out.Applicant.FullName, summary), auth.RoleHR, auth.RoleAdmin)
	} else {
		h.Notify.Add(tasks, user.TenantID, out.Applicant.UserID, notifications.TypeLeaveStageAdvanced, "Leave request progressed",
			fmt.Sprintf("Your %s moved to %s approval.", summary, out.After.CurrentStage))
		if manager, ok := h.userOf(r, user.TenantID, out.Applicant.ManagerID); ok {
			h.Notify.Add(tasks, user.TenantID, manager, notifications.TypeLeaveStageAdvanced, "Leave awaiting approval",
				fmt.Sprintf("%s's %s awaits your approval.", out.Applicant.FullName, summary))
		}
	}
	h.Notify.Run(r, tasks)

	api.Success(w, out.After, reqID)
}

func (h *Handler) handleReject(w http.ResponseWriter, r *http.Request) {
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
	out, err := h.Service.Reject(r.Context(), user, chi.URLParam(r, "leaveID"), payload.RejectionReason)
	if err != nil {
		api.FailError(w, err, "failed to reject leave request", reqID)
		return
	}
	h.Metrics.Inc(metrics.LeaveDecisions)
	shared.Audit(r, h.Audit, user, reqID, "leave.reject", "leave_request", out.After.ID, out.Before, out.After)

	tasks := h.Notify.Tasks()
	body := fmt.Sprintf("Your %s leave from %s was rejected: %s", out.After.LeaveType, out.After.StartDate.Format("2006-01-02"), out.After.RejectionReason)
	h.Notify.Add(tasks, user.TenantID, out.Applicant.UserID, notifications.TypeLeaveRejected, "Leave rejected", body)
	h.Notify.AddEmail(tasks, user.TenantID, out.Applicant.UserID, "Leave rejected", body)
	h.Notify.Run(r, tasks)

	api.Success(w, out.After, reqID)
}

// userOf resolves an employee id to its login user id.
func (h *Handler) userOf(r *http.Request, tenantID, employeeID string) (string, bool) {
	if employeeID == "" {
		return "", false
	}
	emp, err := h.Employees.Get(r.Context(), tenantID, employeeID)
	if err != nil || emp.UserID == "" {
		return "", false
	}
	return emp.UserID, true
}
