package projectshandler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"peoplehub/internal/domain/audit"
	"peoplehub/internal/domain/auth"
	"peoplehub/internal/domain/employee"
	"peoplehub/internal/domain/notifications"
	"peoplehub/internal/domain/project"
	"peoplehub/internal/transport/http/api"
	"peoplehub/internal/transport/http/middleware"
	"peoplehub/internal/transport/http/shared"
)

type Handler struct {
	Service   *project.Service
	Employees *employee.Service
	Perms     middleware.PermissionStore
	Audit     *audit.Service
	Notify    *shared.Notifier
}

func NewHandler(service *project.Service, employees *employee.Service, perms middleware.PermissionStore, auditSvc *audit.Service, notify *shared.Notifier) *Handler {
	return &Handler{Service: service, Employees: employees, Perms: perms, Audit: auditSvc, Notify: notify}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/projects", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermProjectsRead, h.Perms)).Get("/", h.handleListProjects)
		r.With(middleware.RequirePermission(auth.PermProjectsWrite, h.Perms)).Post("/", h.handleCreateProject)
		r.With(middleware.RequirePermission(auth.PermProjectsRead, h.Perms)).Get("/{projectID}", h.handleGetProject)
		r.With(middleware.RequirePermission(auth.PermProjectsWrite, h.Perms)).Put("/{projectID}", h.handleUpdateProject)
		r.With(middleware.RequirePermission(auth.PermProjectsWrite, h.Perms)).Delete("/{projectID}", h.handleDeleteProject)
	})
	r.Route("/tasks", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermProjectsRead, h.Perms)).Get("/", h.handleListTasks)
		r.With(middleware.RequirePermission(auth.PermTasksWrite, h.Perms)).Post("/", h.handleCreateTask)
		r.With(middleware.RequirePermission(auth.PermProjectsRead, h.Perms)).Get("/{taskID}", h.handleGetTask)
		r.With(middleware.RequirePermission(auth.PermTasksWrite, h.Perms)).Put("/{taskID}", h.handleUpdateTask)
		r.With(middleware.RequirePermission(auth.PermTasksWrite, h.Perms)).Put("/{taskID}/status", h.handleTaskStatus)
		r.With(middleware.RequirePermission(auth.PermTasksWrite, h.Perms)).Put("/{taskID}/progress", h.handleTaskProgress)
		r.With(middleware.RequirePermission(auth.PermTasksWrite, h.Perms)).Post("/{taskID}/comments", h.handleTaskComment)
		r.With(middleware.RequirePermission(auth.PermTasksWrite, h.Perms)).Delete("/{taskID}", h.handleDeleteTask)
	})
}

type projectRequest struct {
	Name        string   `json:"name" validate:"max=200"`
	Description string   `json:"description" validate:"max=5000"`
	Client      string   `json:"client" validate:"max=200"`
	Status      string   `json:"status"`
	Priority    string   `json:"priority"`
	StartDate   string   `json:"startDate"`
	EndDate     string   `json:"endDate"`
	ManagerID   string   `json:"managerId" validate:"omitempty,uuid"`
	Members     []string `json:"members" validate:"omitempty,dive,uuid"`
	Note        string   `json:"note"`
}

type taskRequest struct {
	ProjectID   string `json:"projectId" validate:"omitempty,uuid"`
	Title       string `json:"title" validate:"max=300"`
	Description string `json:"description" validate:"max=5000"`
	AssigneeID  string `json:"assigneeId" validate:"omitempty,uuid"`
	Priority    string `json:"priority"`
	DueDate     string `json:"dueDate"`
}

type statusRequest struct {
	Status string `json:"status" validate:"required"`
}

type progressRequest struct {
	Progress int    `json:"progress" validate:"gte=0,lte=100"`
	Note     string `json:"note" validate:"max=2000"`
}

type commentRequest struct {
	Body string `json:"body" validate:"required,max=5000"`
}

func optional(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func (h *Handler) projectInput(w http.ResponseWriter, payload projectRequest, reqID string) (project.ProjectInput, bool) {
	v := shared.NewValidator()
	start := v.OptionalDate("startDate", payload.StartDate)
	end := v.OptionalDate("endDate", payload.EndDate)
	v.DateOrder("startDate", start, "endDate", end)
	v.Enum("status", payload.Status, project.ProjectStatuses, "must be one of Planning, Active, OnHold, Completed, Cancelled")
	v.Enum("priority", payload.Priority, project.Priorities, "must be one of Low, Medium, High, Critical")
	if v.Reject(w, reqID) {
		return project.ProjectInput{}, false
	}
	return project.ProjectInput{
		Name:        payload.Name,
		Description: payload.Description,
		Client:      payload.Client,
		Status:      payload.Status,
		Priority:    payload.Priority,
		StartDate:   optional(start),
		EndDate:     optional(end),
		ManagerID:   payload.ManagerID,
		Members:     payload.Members,
	}, true
}

func (h *Handler) handleListProjects(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	page := shared.ParsePagination(r, 50, 200)
	filter := project.ProjectFilter{Status: r.URL.Query().Get("status"), Limit: page.Limit, Offset: page.Offset}
	if shared.QueryBool(r, "mine") {
		filter.MemberOf = user.EmployeeID
	}
	items, total, err := h.Service.ListProjects(r.Context(), user.TenantID, filter)
	if err != nil {
		api.FailError(w, err, "failed to list projects", reqID)
		return
	}
	w.Header().Set("X-Total-Count", strconv.Itoa(total))
	api.Success(w, items, reqID)
}

func (h *Handler) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	var payload projectRequest
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	in, ok := h.projectInput(w, payload, reqID)
	if !ok {
		return
	}
	p, err := h.Service.CreateProject(r.Context(), user, in)
	if err != nil {
		api.FailError(w, err, "failed to create project", reqID)
		return
	}
	shared.Audit(r, h.Audit, user, reqID, "project.create", "project", p.ID, nil, p)
	api.Created(w, p, reqID)
}

func (h *Handler) handleGetProject(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	p, err := h.Service.GetProject(r.Context(), user.TenantID, chi.URLParam(r, "projectID"))
	if err != nil {
		api.FailError(w, err, "failed to load project", reqID)
		return
	}
	api.Success(w, p, reqID)
}

func (h *Handler) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	var payload projectRequest
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	in, ok := h.projectInput(w, payload, reqID)
	if !ok {
		return
	}
	before, after, err := h.Service.UpdateProject(r.Context(), user, chi.URLParam(r, "projectID"), in, payload.Note)
	if err != nil {
		api.FailError(w, err, "failed to update project", reqID)
		return
	}
	shared.Audit(r, h.Audit, user, reqID, "project.update", "project", after.ID, before, after)
	api.Success(w, after, reqID)
}

func (h *Handler) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	p, err := h.Service.DeleteProject(r.Context(), user, chi.URLParam(r, "projectID"))
	if err != nil {
		api.FailError(w, err, "failed to delete project", reqID)
		return
	}
	shared.Audit(r, h.Audit, user, reqID, "project.delete", "project", p.ID, p, nil)
	api.SuccessMessage(w, "project deleted", nil, reqID)
}

func (h *Handler) handleListTasks(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	q := r.URL.Query()
	v := shared.NewValidator()
	v.Enum("status", q.Get("status"), project.TaskStatuses, "must be one of Todo, InProgress, Review, Completed, Blocked")
	if v.Reject(w, reqID) {
		return
	}
	page := shared.ParsePagination(r, 50, 200)
	filter := project.TaskFilter{
		ProjectID:  q.Get("projectId"),
		AssigneeID: q.Get("assigneeId"),
		Status:     q.Get("status"),
		Limit:      page.Limit,
		Offset:     page.Offset,
	}
	if shared.QueryBool(r, "mine") {
		filter.AssigneeID = user.EmployeeID
	}
	items, total, err := h.Service.ListTasks(r.Context(), user.TenantID, filter)
	if err != nil {
		api.FailError(w, err, "failed to list tasks", reqID)
		return
	}
	w.Header().Set("X-Total-Count", strconv.Itoa(total))
	api.Success(w, items, reqID)
}

func (h *Handler) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	var payload taskRequest
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	v := shared.NewValidator()
	due := v.OptionalDate("dueDate", payload.DueDate)
	v.Enum("priority", payload.Priority, project.Priorities, "must be one of Low, Medium, High, Critical")
	if v.Reject(w, reqID) {
		return
	}
	t, err := h.Service.CreateTask(r.Context(), user, project.TaskInput{
		ProjectID:   payload.ProjectID,
		Title:       payload.Title,
		Description: payload.Description,
		AssigneeID:  payload.AssigneeID,
		Priority:    payload.Priority,
		DueDate:     optional(due),
	})
	if err != nil {
		api.FailError(w, err, "failed to create task", reqID)
		return
	}
	shared.Audit(r, h.Audit, user, reqID, "task.create", "task", t.ID, nil, t)
	h.notifyAssignee(r, user, t)
	api.Created(w, t, reqID)
}

func (h *Handler) handleGetTask(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	t, err := h.Service.GetTask(r.Context(), user.TenantID, chi.URLParam(r, "taskID"))
	if err != nil {
		api.FailError(w, err, "failed to load task", reqID)
		return
	}
	api.Success(w, t, reqID)
}

func (h *Handler) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	var payload taskRequest
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	v := shared.NewValidator()
	due := v.OptionalDate("dueDate", payload.DueDate)
	v.Enum("priority", payload.Priority, project.Priorities, "must be one of Low, Medium, High, Critical")
	if v.Reject(w, reqID) {
		return
	}
	before, after, err := h.Service.UpdateTask(r.Context(), user, chi.URLParam(r, "taskID"), project.TaskInput{
		Title:       payload.Title,
		Description: payload.Description,
		AssigneeID:  payload.AssigneeID,
		Priority:    payload.Priority,
		DueDate:     optional(due),
	})
	if err != nil {
		api.FailError(w, err, "failed to update task", reqID)
		return
	}
	shared.Audit(r, h.Audit, user, reqID, "task.update", "task", after.ID, before, after)
	if after.AssigneeID != before.AssigneeID {
		h.notifyAssignee(r, user, after)
	}
	api.Success(w, after, reqID)
}

func (h *Handler) handleTaskStatus(w http.ResponseWriter, r *http.Request) {
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
	before, after, err := h.Service.ChangeTaskStatus(r.Context(), user, chi.URLParam(r, "taskID"), payload.Status)
	if err != nil {
		api.FailError(w, err, "failed to change task status", reqID)
		return
	}
	shared.Audit(r, h.Audit, user, reqID, "task.status", "task", after.ID, before, after)
	api.Success(w, after, reqID)
}

func (h *Handler) handleTaskProgress(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	var payload progressRequest
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	before, after, err := h.Service.RecordProgress(r.Context(), user, chi.URLParam(r, "taskID"), payload.Progress, payload.Note)
	if err != nil {
		api.FailError(w, err, "failed to record progress", reqID)
		return
	}
	shared.Audit(r, h.Audit, user, reqID, "task.progress", "task", after.ID, before, after)
	api.Success(w, after, reqID)
}

func (h *Handler) handleTaskComment(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	var payload commentRequest
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	taskID := chi.URLParam(r, "taskID")
	c, err := h.Service.Comment(r.Context(), user, taskID, payload.Body)
	if err != nil {
		api.FailError(w, err, "failed to add comment", reqID)
		return
	}
	shared.Audit(r, h.Audit, user, reqID, "task.comment", "task", taskID, nil, c)
	api.Created(w, c, reqID)
}

func (h *Handler) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	t, err := h.Service.DeleteTask(r.Context(), user, chi.URLParam(r, "taskID"))
	if err != nil {
		api.FailError(w, err, "failed to delete task", reqID)
		return
	}
	shared.Audit(r, h.Audit, user, reqID, "task.delete", "task", t.ID, t, nil)
	api.SuccessMessage(w, "task deleted", nil, reqID)
}

func (h *Handler) notifyAssignee(r *http.Request, user auth.UserContext, t project.Task) {
	if t.AssigneeID == "" || t.AssigneeID == user.EmployeeID {
		return
	}
	assignee, err := h.Employees.Get(r.Context(), user.TenantID, t.AssigneeID)
	if err != nil {
		return
	}
	tasks := h.Notify.Tasks()
	h.Notify.Add(tasks, user.TenantID, assignee.UserID, notifications.TypeTaskAssigned, "Task assigned", "You were assigned: "+t.Title)
	h.Notify.Run(r, tasks)
}
