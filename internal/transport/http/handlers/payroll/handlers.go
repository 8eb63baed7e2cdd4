package payrollhandler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"peoplehub/internal/domain/audit"
	"peoplehub/internal/domain/auth"
	"peoplehub/internal/domain/payroll"
	"peoplehub/internal/domain/notifications"
	"peoplehub/internal/platform/jobs"
	"peoplehub/internal/platform/metrics"
	"peoplehub/internal/transport/http/api"
	"peoplehub/internal/transport/http/middleware"
	"peoplehub/internal/transport/http/shared"
)

type Handler struct {
	Service     *payroll.Service
	Perms       middleware.PermissionStore
	Audit       *audit.Service
	Notify      *shared.Notifier
	Jobs        *jobs.Service
	Idempotency middleware.IdempotencyChecker
	Metrics     *metrics.Collector
}

func NewHandler(service *payroll.Service, perms middleware.PermissionStore, auditSvc *audit.Service, notify *shared.Notifier, jobsSvc *jobs.Service, idem middleware.IdempotencyChecker, collector *metrics.Collector) *Handler {
	return &Handler{
		Service:     service,
		Perms:       perms,
		Audit:       auditSvc,
		Notify:      notify,
		Jobs:        jobsSvc,
		Idempotency: idem,
		Metrics:     collector,
	}
}

// RegisterPublic mounts the payslip verification endpoint that QR codes
// point at. It needs no session but is scoped by tenant.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Get("/payroll/verify", h.handleVerify)
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/payroll", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermPayrollRead, h.Perms)).Get("/", h.handleList)
		r.With(
			middleware.RequirePermission(auth.PermPayrollRun, h.Perms),
			middleware.Idempotent(h.Idempotency, "payroll.generate"),
		).Post("/generate", h.handleGenerate)
		r.With(middleware.RequirePermission(auth.PermPayrollRun, h.Perms)).Post("/generate-bulk", h.handleGenerateBulk)
		r.Get("/me", h.handleMine)
		r.With(middleware.RequirePermission(auth.PermPayrollRead, h.Perms)).Get("/register", h.handleRegister)
		r.With(middleware.RequirePermission(auth.PermPayrollRun, h.Perms)).Get("/runs/{runID}", h.handleRun)
		r.Get("/{payrollID}", h.handleGet)
		r.Get("/{payrollID}/payslip", h.handlePayslip)
		r.With(middleware.RequirePermission(auth.PermPayrollPay, h.Perms)).Put("/{payrollID}/status", h.handleStatus)
	})
}

// generateRequest accepts deductions for compatibility; the value is ignored
// and the record is stored with zero manual deductions.
type generateRequest struct {
	EmployeeID   string   `json:"employeeId" validate:"required,uuid"`
	Month        int      `json:"month" validate:"required,min=1,max=12"`
	Year         int      `json:"year" validate:"required,min=2000,max=2100"`
	Allowances   *float64 `json:"allowances" validate:"omitempty,gte=0"`
	Deductions   *float64 `json:"deductions"`
	Bonus        float64  `json:"bonus" validate:"gte=0"`
	PaymentDate  string   `json:"paymentDate"`
	SandwichRule bool     `json:"enableSandwichRule"`
}

type bulkRequest struct {
	Month        int      `json:"month" validate:"required,min=1,max=12"`
	Year         int      `json:"year" validate:"required,min=2000,max=2100"`
	Deductions   *float64 `json:"deductions"`
	SandwichRule bool     `json:"enableSandwichRule"`
}

type statusRequest struct {
	PaymentStatus string `json:"paymentStatus" validate:"required"`
}

// canRead lets payroll readers see every record and employees their own.
func (h *Handler) canRead(r *http.Request, user auth.UserContext, p payroll.Payroll) bool {
	if user.EmployeeID != "" && p.EmployeeID == user.EmployeeID {
		return true
	}
	if h.Perms == nil {
		return false
	}
	allowed, err := h.Perms.HasPermission(r.Context(), user.RoleID, auth.PermPayrollRead)
	return err == nil && allowed
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
	v.Enum("paymentStatus", q.Get("paymentStatus"), payroll.Statuses, "must be one of Pending, Paid, Failed")
	if v.Reject(w, reqID) {
		return
	}
	page := shared.ParsePagination(r, 50, 500)
	items, total, err := h.Service.List(r.Context(), user.TenantID, payroll.Filter{
		EmployeeID: q.Get("employeeId"),
		Month:      shared.QueryInt(r, "month", 0),
		Year:       shared.QueryInt(r, "year", 0),
		Status:     q.Get("paymentStatus"),
		Limit:      page.Limit,
		Offset:     page.Offset,
	})
	if err != nil {
		api.FailError(w, err, "failed to list payroll", reqID)
		return
	}
	w.Header().Set("X-Total-Count", strconv.Itoa(total))
	api.Success(w, items, reqID)
}

func (h *Handler) handleMine(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	if user.EmployeeID == "" {
		w.Header().Set("X-Total-Count", "0")
		api.Success(w, []payroll.Payroll{}, reqID)
		return
	}
	page := shared.ParsePagination(r, 24, 120)
	items, total, err := h.Service.List(r.Context(), user.TenantID, payroll.Filter{
		EmployeeID: user.EmployeeID,
		Year:       shared.QueryInt(r, "year", 0),
		Limit:      page.Limit,
		Offset:     page.Offset,
	})
	if err != nil {
		api.FailError(w, err, "failed to list payroll", reqID)
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
	p, err := h.Service.Get(r.Context(), user.TenantID, chi.URLParam(r, "payrollID"))
	if err != nil {
		api.FailError(w, err, "failed to load payroll", reqID)
		return
	}
	if !h.canRead(r, user, p) {
		api.FailError(w, payroll.ErrPayrollNotFound, "failed to load payroll", reqID)
		return
	}
	api.Success(w, p, reqID)
}

func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	var payload generateRequest
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	v := shared.NewValidator()
	paymentDate := v.OptionalDate("paymentDate", payload.PaymentDate)
	if v.Reject(w, reqID) {
		return
	}
	in := payroll.GenerateInput{
		EmployeeID:   payload.EmployeeID,
		Month:        payload.Month,
		Year:         payload.Year,
		Allowances:   payload.Allowances,
		Bonus:        payload.Bonus,
		SandwichRule: payload.SandwichRule,
	}
	if !paymentDate.IsZero() {
		in.PaymentDate = &paymentDate
	}
	p, err := h.Service.Generate(r.Context(), user.TenantID, user.UserID, in)
	if err != nil {
		api.FailError(w, err, "failed to generate payroll", reqID)
		return
	}
	h.Metrics.Inc(metrics.PayrollGenerated)
	shared.Audit(r, h.Audit, user, reqID, "payroll.generate", "payroll", p.ID, nil, p)
	api.Created(w, p, reqID)
}

// handleGenerateBulk queues a run for every active employee and answers with
// the run id to poll.
func (h *Handler) handleGenerateBulk(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	var payload bulkRequest
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	tenantID, actorID := user.TenantID, user.UserID
	runID, err := h.Jobs.Submit(r.Context(), jobs.JobPayrollBulk, tenantID, func(ctx context.Context) (any, error) {
		report, err := h.Service.GenerateBulk(ctx, tenantID, actorID, payload.Month, payload.Year, payload.SandwichRule)
		h.Metrics.Add(metrics.PayrollGenerated, uint64(report.Generated))
		return report, err
	})
	if errors.Is(err, jobs.ErrQueueFull) {
		api.Fail(w, http.StatusServiceUnavailable, "queue_full", "job queue is full, retry later", reqID)
		return
	}
	if err != nil {
		api.FailError(w, err, "failed to queue payroll run", reqID)
		return
	}
	shared.Audit(r, h.Audit, user, reqID, "payroll.generate_bulk", "job_run", runID, nil, payload)
	api.Accepted(w, map[string]any{"runId": runID, "month": payload.Month, "year": payload.Year}, reqID)
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
		api.FailError(w, err, "failed to load run", reqID)
		return
	}
	api.Success(w, run, reqID)
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
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
	v := shared.NewValidator()
	v.Enum("paymentStatus", payload.PaymentStatus, payroll.Statuses, "must be one of Pending, Paid, Failed")
	if v.Reject(w, reqID) {
		return
	}
	res, err := h.Service.UpdateStatus(r.Context(), user.TenantID, user.UserID, chi.URLParam(r, "payrollID"), payload.PaymentStatus)
	if err != nil {
		api.FailError(w, err, "failed to update payment status", reqID)
		return
	}
	if !res.Changed {
		api.SuccessMessage(w, "payment status unchanged", res.After, reqID)
		return
	}
	shared.Audit(r, h.Audit, user, reqID, "payroll.status", "payroll", res.After.ID, res.Before, res.After)
	if res.ExpenseCreated {
		h.Metrics.Inc(metrics.ExpensesRecorded)
	}
	if res.After.PaymentStatus == payroll.StatusPaid {
		h.Metrics.Inc(metrics.PayrollPaid)
		h.notifyPaid(r, user.TenantID, res.After)
	}
	api.Success(w, res.After, reqID)
}

func (h *Handler) notifyPaid(r *http.Request, tenantID string, p payroll.Payroll) {
	emp, err := h.Service.Employees.Get(r.Context(), tenantID, p.EmployeeID)
	if err != nil {
		return
	}
	tasks := h.Notify.Tasks()
	period := time.Month(p.Month).String() + " " + strconv.Itoa(p.Year)
	h.Notify.Add(tasks, tenantID, emp.UserID, notifications.TypePayrollPaid,
		"Salary credited", fmt.Sprintf("Your salary of %.2f for %s has been paid.", p.NetSalary, period))
	h.Notify.Run(r, tasks)
}

func (h *Handler) handlePayslip(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	id := chi.URLParam(r, "payrollID")
	p, err := h.Service.Get(r.Context(), user.TenantID, id)
	if err != nil {
		api.FailError(w, err, "failed to render payslip", reqID)
		return
	}
	if !h.canRead(r, user, p) {
		api.FailError(w, payroll.ErrPayrollNotFound, "failed to render payslip", reqID)
		return
	}
	doc, p, err := h.Service.Payslip(r.Context(), user.TenantID, id)
	if err != nil {
		api.FailError(w, err, "failed to render payslip", reqID)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=payslip-%s-%d-%02d.pdf", p.EmployeeCode, p.Year, p.Month))
	if p.PayslipURL != "" {
		w.Header().Set("X-Payslip-URL", p.PayslipURL)
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	now := time.Now().UTC()
	month := shared.QueryInt(r, "month", int(now.Month()))
	year := shared.QueryInt(r, "year", now.Year())
	v := shared.NewValidator()
	v.Range("month", month, 1, 12)
	v.Range("year", year, 2000, 2100)
	if v.Reject(w, reqID) {
		return
	}
	doc, err := h.Service.Register(r.Context(), user.TenantID, month, year)
	if err != nil {
		api.FailError(w, err, "failed to export payroll register", reqID)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=payroll-register-%d-%02d.xlsx", year, month))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}

// handleVerify checks a payslip QR payload. The tenant comes from the
// query string because scanners carry no session.
func (h *Handler) handleVerify(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	q := r.URL.Query()
	v := shared.NewValidator()
	v.Required("tenant", q.Get("tenant"), "is required")
	v.Required("id", q.Get("id"), "is required")
	v.Required("net", q.Get("net"), "is required")
	for _, key := range []string{"tenant", "id"} {
		if raw := q.Get(key); raw != "" {
			if _, err := uuid.Parse(raw); err != nil {
				v.Add(key, "must be a valid id")
			}
		}
	}
	if v.Reject(w, reqID) {
		return
	}
	valid, err := h.Service.Verify(r.Context(), q.Get("tenant"), q.Get("id"), q.Get("net"))
	if err != nil {
		api.FailError(w, err, "failed to verify payslip", reqID)
		return
	}
	api.Success(w, map[string]bool{"valid": valid}, reqID)
}
