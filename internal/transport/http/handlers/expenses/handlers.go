package expenseshandler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"peoplehub/internal/domain/audit"
	"peoplehub/internal/domain/auth"
	"peoplehub/internal/domain/expense"
	"peoplehub/internal/platform/metrics"
	"peoplehub/internal/transport/http/api"
	"peoplehub/internal/transport/http/middleware"
	"peoplehub/internal/transport/http/shared"
)

type Handler struct {
	Service *expense.Service
	Perms   middleware.PermissionStore
	Audit   *audit.Service
	Metrics *metrics.Collector
}

func NewHandler(service *expense.Service, perms middleware.PermissionStore, auditSvc *audit.Service, collector *metrics.Collector) *Handler {
	return &Handler{Service: service, Perms: perms, Audit: auditSvc, Metrics: collector}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/expenses", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermExpensesRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermExpensesWrite, h.Perms)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermExpensesRead, h.Perms)).Get("/{expenseID}", h.handleGet)
	})
}

type createRequest struct {
	Category    string  `json:"category" validate:"required,max=100"`
	Amount      float64 `json:"amount" validate:"gt=0"`
	Description string  `json:"description" validate:"max=1000"`
	ExpenseDate string  `json:"expenseDate"`
	Status      string  `json:"status"`
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
	if v.Reject(w, reqID) {
		return
	}
	page := shared.ParsePagination(r, 50, 200)
	filter := expense.Filter{
		Category:      q.Get("category"),
		ReferenceType: q.Get("referenceType"),
		Limit:         page.Limit,
		Offset:        page.Offset,
	}
	if !from.IsZero() {
		filter.From = &from
	}
	if !to.IsZero() {
		filter.To = &to
	}
	items, total, err := h.Service.List(r.Context(), user.TenantID, filter)
	if err != nil {
		api.FailError(w, err, "failed to list expenses", reqID)
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
	item, err := h.Service.Get(r.Context(), user.TenantID, chi.URLParam(r, "expenseID"))
	if err != nil {
		api.FailError(w, err, "failed to load expense", reqID)
		return
	}
	api.Success(w, item, reqID)
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
	date := v.OptionalDate("expenseDate", payload.ExpenseDate)
	v.Enum("status", payload.Status, expense.Statuses, "must be one of Pending, Paid, Rejected")
	if v.Reject(w, reqID) {
		return
	}
	created, err := h.Service.Create(r.Context(), user.TenantID, user.UserID, expense.Expense{
		Category:    payload.Category,
		Amount:      payload.Amount,
		Description: payload.Description,
		ExpenseDate: date,
		Status:      payload.Status,
	})
	if err != nil {
		api.FailError(w, err, "failed to create expense", reqID)
		return
	}
	h.Metrics.Inc(metrics.ExpensesRecorded)
	shared.Audit(r, h.Audit, user, reqID, "expense.create", "expense", created.ID, nil, created)
	api.Created(w, created, reqID)
}
