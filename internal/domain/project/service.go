package project

import (
	"context"
	"strings"
	"time"

	"peoplehub/internal/domain/auth"
)

type Service struct {
	Store *Store
	Now   func() time.Time
}

func NewService(store *Store) *Service {
	return &Service{Store: store, Now: time.Now}
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

func validateProject(in *ProjectInput) error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return ErrNameRequired
	}
	if in.Status == "" {
		in.Status = ProjectPlanning
	}
	if in.Priority == "" {
		in.Priority = "Medium"
	}
	if !ValidProjectStatus(in.Status) {
		return ErrInvalidProjectStatus
	}
	if !ValidPriority(in.Priority) {
		return ErrInvalidPriority
	}
	if in.StartDate != nil && in.EndDate != nil && in.EndDate.Before(*in.StartDate) {
		return ErrInvalidDateRange
	}
	return nil
}

func (s *Service) CreateProject(ctx context.Context, user auth.UserContext, in ProjectInput) (Project, error) {
	if err := validateProject(&in); err != nil {
		return Project{}, err
	}
	id, err := s.Store.CreateProject(ctx, user.TenantID, user.UserID, in)
	if err != nil {
		return Project{}, err
	}
	return s.Store.GetProject(ctx, user.TenantID, id)
}

func (s *Service) GetProject(ctx context.Context, tenantID, id string) (Project, error) {
	return s.Store.GetProject(ctx, tenantID, id)
}

func (s *Service) ListProjects(ctx context.Context, tenantID string, filter ProjectFilter) ([]Project, int, error) {
	return s.Store.ListProjects(ctx, tenantID, filter)
}

// UpdateProject replaces the editable fields; a nil Members keeps the
// current member list.
func (s *Service) UpdateProject(ctx context.Context, user auth.UserContext, id string, in ProjectInput, note string) (Project, Project, error) {
	before, err := s.Store.GetProject(ctx, user.TenantID, id)
	if err != nil {
		return Project{}, Project{}, err
	}
	if in.Status == "" {
		in.Status = before.Status
	}
	if in.Priority == "" {
		in.Priority = before.Priority
	}
	if in.Name == "" {
		in.Name = before.Name
	}
	if err := validateProject(&in); err != nil {
		return Project{}, Project{}, err
	}
	after := before
	after.Name, after.Description, after.Client = in.Name, in.Description, in.Client
	after.Status, after.Priority = in.Status, in.Priority
	after.StartDate, after.EndDate, after.ManagerID = in.StartDate, in.EndDate, in.ManagerID
	after.Members = in.Members
	if err := s.Store.UpdateProject(ctx, user.TenantID, user.UserID, before, after, note); err != nil {
		return Project{}, Project{}, err
	}
	updated, err := s.Store.GetProject(ctx, user.TenantID, id)
	return before, updated, err
}

func (s *Service) DeleteProject(ctx context.Context, user auth.UserContext, id string) (Project, error) {
	p, err := s.Store.GetProject(ctx, user.TenantID, id)
	if err != nil {
		return Project{}, err
	}
	if err := CanDelete(user, p.CreatedBy); err != nil {
		return Project{}, err
	}
	return p, s.Store.DeleteProject(ctx, user.TenantID, id)
}

func (s *Service) CreateTask(ctx context.Context, user auth.UserContext, in TaskInput) (Task, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return Task{}, ErrTitleRequired
	}
	if in.Priority == "" {
		in.Priority = "Medium"
	}
	if !ValidPriority(in.Priority) {
		return Task{}, ErrInvalidPriority
	}
	if in.ProjectID != "" {
		if _, err := s.Store.GetProject(ctx, user.TenantID, in.ProjectID); err != nil {
			return Task{}, err
		}
	}
	id, err := s.Store.CreateTask(ctx, user.TenantID, user.UserID, in)
	if err != nil {
		return Task{}, err
	}
	return s.Store.GetTask(ctx, user.TenantID, id)
}

func (s *Service) GetTask(ctx context.Context, tenantID, id string) (Task, error) {
	return s.Store.TaskDetail(ctx, tenantID, id)
}

func (s *Service) ListTasks(ctx context.Context, tenantID string, filter TaskFilter) ([]Task, int, error) {
	return s.Store.ListTasks(ctx, tenantID, filter)
}

func (s *Service) UpdateTask(ctx context.Context, user auth.UserContext, id string, in TaskInput) (Task, Task, error) {
	before, err := s.Store.GetTask(ctx, user.TenantID, id)
	if err != nil {
		return Task{}, Task{}, err
	}
	after := before
	if t := strings.TrimSpace(in.Title); t != "" {
		after.Title = t
	}
	after.Description = in.Description
	after.AssigneeID = in.AssigneeID
	after.DueDate = in.DueDate
	if in.Priority != "" {
		if !ValidPriority(in.Priority) {
			return Task{}, Task{}, ErrInvalidPriority
		}
		after.Priority = in.Priority
	}
	if err := s.Store.UpdateTaskFields(ctx, user.TenantID, after); err != nil {
		return Task{}, Task{}, err
	}
	return before, after, nil
}

func (s *Service) ChangeTaskStatus(ctx context.Context, user auth.UserContext, id, status string) (Task, Task, error) {
	if !ValidTaskStatus(status) {
		return Task{}, Task{}, ErrInvalidTaskStatus
	}
	before, err := s.Store.GetTask(ctx, user.TenantID, id)
	if err != nil {
		return Task{}, Task{}, err
	}
	now := s.now()
	after := ApplyStatus(before, status, now)
	if err := s.Store.SaveTaskState(ctx, user.TenantID, user.UserID, before, after, "", now); err != nil {
		return Task{}, Task{}, err
	}
	return before, after, nil
}

func (s *Service) RecordProgress(ctx context.Context, user auth.UserContext, id string, progress int, note string) (Task, Task, error) {
	if progress < 0 || progress > 100 {
		return Task{}, Task{}, ErrInvalidProgress
	}
	before, err := s.Store.GetTask(ctx, user.TenantID, id)
	if err != nil {
		return Task{}, Task{}, err
	}
	now := s.now()
	after, _ := ApplyProgress(before, progress, now)
	if err := s.Store.SaveTaskState(ctx, user.TenantID, user.UserID, before, after, strings.TrimSpace(note), now); err != nil {
		return Task{}, Task{}, err
	}
	return before, after, nil
}

func (s *Service) Comment(ctx context.Context, user auth.UserContext, id, body string) (Comment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return Comment{}, ErrEmptyComment
	}
	if _, err := s.Store.GetTask(ctx, user.TenantID, id); err != nil {
		return Comment{}, err
	}
	return s.Store.AddComment(ctx, id, user.UserID, body)
}

func (s *Service) DeleteTask(ctx context.Context, user auth.UserContext, id string) (Task, error) {
	t, err := s.Store.GetTask(ctx, user.TenantID, id)
	if err != nil {
		return Task{}, err
	}
	if err := CanDelete(user, t.CreatedBy); err != nil {
		return Task{}, err
	}
	return t, s.Store.DeleteTask(ctx, user.TenantID, id)
}
