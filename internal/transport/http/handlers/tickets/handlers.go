package ticketshandler

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"

	"peoplehub/internal/domain/audit"
	"peoplehub/internal/domain/auth"
	"peoplehub/internal/domain/notifications"
	"peoplehub/internal/domain/ticket"
	"peoplehub/internal/transport/http/api"
	"peoplehub/internal/transport/http/middleware"
	"peoplehub/internal/transport/http/shared"
)

const maxAttachmentBytes = 10 << 20

type Handler struct {
	Service *ticket.Service
	Perms   middleware.PermissionStore
	Audit   *audit.Service
	Notify  *shared.Notifier
}

func NewHandler(service *ticket.Service, perms middleware.PermissionStore, auditSvc *audit.Service, notify *shared.Notifier) *Handler {
	return &Handler{Service: service, Perms: perms, Audit: auditSvc, Notify: notify}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/tickets", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermTicketsRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermTicketsWrite, h.Perms)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermTicketsRead, h.Perms)).Get("/{ticketID}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermTicketsWrite, h.Perms)).Put("/{ticketID}/status", h.handleStatus)
		r.With(middleware.RequirePermission(auth.PermTicketsManage, h.Perms)).Put("/{ticketID}/assign", h.handleAssign)
		r.With(middleware.RequirePermission(auth.PermTicketsWrite, h.Perms)).Post("/{ticketID}/messages", h.handleReply)
		r.With(middleware.RequirePermission(auth.PermTicketsWrite, h.Perms)).Post("/{ticketID}/attachments", h.handleAttach)
		r.With(middleware.RequirePermission(auth.PermTicketsWrite, h.Perms)).Delete("/{ticketID}", h.handleDelete)
	})
}

type createRequest struct {
	Subject     string `json:"subject" validate:"required,max=300"`
	Description string `json:"description" validate:"max=10000"`
	Category    string `json:"category" validate:"required"`
	Priority    string `json:"priority"`
}

type statusRequest struct {
	Status string `json:"status" validate:"required"`
}

type assignRequest struct {
	AssigneeID string `json:"assigneeId" validate:"required,uuid"`
}

type replyRequest struct {
	Body string `json:"body" validate:"required,max=10000"`
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
	v.Enum("status", q.Get("status"), ticket.Statuses, "must be one of Open, InProgress, Resolved, Closed, Reopened")
	v.Enum("category", q.Get("category"), ticket.Categories, "must be one of IT, HR, Payroll, Facilities, Other")
	if v.Reject(w, reqID) {
		return
	}
	page := shared.ParsePagination(r, 50, 200)
	items, total, err := h.Service.List(r.Context(), user, ticket.Filter{
		RaisedBy:   q.Get("raisedBy"),
		AssigneeID: q.Get("assigneeId"),
		Status:     q.Get("status"),
		Category:   q.Get("category"),
		Limit:      page.Limit,
		Offset:     page.Offset,
	})
	if err != nil {
		api.FailError(w, err, "failed to list tickets", reqID)
		return
	}
	w.Header().Set("X-Total-Count", strconv.Itoa(total))
	api.Success(w, items, reqID)
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
	t, err := h.Service.Create(r.Context(), user, ticket.CreateInput{
		Subject:     payload.Subject,
		Description: payload.Description,
		Category:    payload.Category,
		Priority:    payload.Priority,
	})
	if err != nil {
		api.FailError(w, err, "failed to create ticket", reqID)
		return
	}
	shared.Audit(r, h.Audit, user, reqID, "ticket.create", "ticket", t.ID, nil, t)

	tasks := h.Notify.Tasks()
	h.Notify.AddRoles(r.Context(), tasks, user.TenantID, user.UserID, notifications.TypeTicketUpdated, "New ticket "+t.Code,
		fmt.Sprintf("[%s] %s", t.Category, t.Subject), auth.RoleHR, auth.RoleAdmin)
	h.Notify.Run(r, tasks)

	api.Created(w, t, reqID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	t, err := h.Service.Get(r.Context(), user, chi.URLParam(r, "ticketID"))
	if err != nil {
		api.FailError(w, err, "failed to load ticket", reqID)
		return
	}
	api.Success(w, t, reqID)
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
	before, after, err := h.Service.ChangeStatus(r.Context(), user, chi.URLParam(r, "ticketID"), payload.Status)
	if err != nil {
		api.FailError(w, err, "failed to change ticket status", reqID)
		return
	}
	shared.Audit(r, h.Audit, user, reqID, "ticket.status", "ticket", after.ID, before, after)
	h.notifyParties(r, user, after, "Ticket "+after.Code+" updated", fmt.Sprintf("Status changed from %s to %s.", before.Status, after.Status))
	api.Success(w, after, reqID)
}

func (h *Handler) handleAssign(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	var payload assignRequest
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	before, after, err := h.Service.Assign(r.Context(), user, chi.URLParam(r, "ticketID"), payload.AssigneeID)
	if err != nil {
		api.FailError(w, err, "failed to assign ticket", reqID)
		return
	}
	shared.Audit(r, h.Audit, user, reqID, "ticket.assign", "ticket", after.ID, before, after)
	h.notifyParties(r, user, after, "Ticket "+after.Code+" assigned", after.Subject)
	api.Success(w, after, reqID)
}

func (h *Handler) handleReply(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	var payload replyRequest
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	t, msg, err := h.Service.Reply(r.Context(), user, chi.URLParam(r, "ticketID"), payload.Body)
	if err != nil {
		api.FailError(w, err, "failed to reply to ticket", reqID)
		return
	}
	shared.Audit(r, h.Audit, user, reqID, "ticket.reply", "ticket", t.ID, nil, msg)
	h.notifyParties(r, user, t, "New reply on "+t.Code, msg.Body)
	api.Created(w, msg, reqID)
}

// handleAttach accepts one multipart "file" part and stores it through the
// configured object store.
func (h *Handler) handleAttach(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxAttachmentBytes+1<<20)
	if err := r.ParseMultipartForm(maxAttachmentBytes); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid multipart payload", reqID)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		shared.FailValidation(w, reqID, []shared.ValidationIssue{{Field: "file", Reason: "is required"}})
		return
	}
	defer file.Close()
	if header.Size > maxAttachmentBytes {
		shared.FailValidation(w, reqID, []shared.ValidationIssue{{Field: "file", Reason: "must be 10MB or smaller"}})
		return
	}
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	att, err := h.Service.Attach(r.Context(), user, chi.URLParam(r, "ticketID"), filepath.Base(header.Filename), contentType, file)
	if err != nil {
		api.FailError(w, err, "failed to upload attachment", reqID)
		return
	}
	shared.Audit(r, h.Audit, user, reqID, "ticket.attach", "ticket", chi.URLParam(r, "ticketID"), nil, att)
	api.Created(w, att, reqID)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	t, err := h.Service.Delete(r.Context(), user, chi.URLParam(r, "ticketID"))
	if err != nil {
		api.FailError(w, err, "failed to delete ticket", reqID)
		return
	}
	shared.Audit(r, h.Audit, user, reqID, "ticket.delete", "ticket", t.ID, t, nil)
	api.SuccessMessage(w, "ticket deleted", nil, reqID)
}

// notifyParties tells the raiser and the assignee about a change, except
// whoever made it.
func (h *Handler) notifyParties(r *http.Request, user auth.UserContext, t ticket.Ticket, title, body string) {
	tasks := h.Notify.Tasks()
	for _, id := range []string{t.RaisedBy, t.AssigneeID} {
		if id != user.UserID {
			h.Notify.Add(tasks, user.TenantID, id, notifications.TypeTicketUpdated, title, body)
		}
	}
	h.Notify.Run(r, tasks)
}
