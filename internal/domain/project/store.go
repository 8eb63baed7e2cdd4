package project

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"peoplehub/internal/platform/querier"
)

type Store struct {
	DB querier.TxBeginner
}

func NewStore(db querier.TxBeginner) *Store {
	return &Store{DB: db}
}

const projectColumns = `
    id, name, description, client, status, priority, start_date, end_date,
    COALESCE(manager_id::text, ''), created_by, created_at, updated_at
`

func scanProject(row pgx.Row) (Project, error) {
	var p Project
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Client, &p.Status, &p.Priority, &p.StartDate, &p.EndDate,
		&p.ManagerID, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (s *Store) CreateProject(ctx context.Context, tenantID, actorID string, in ProjectInput) (string, error) {
	var id string
	err := querier.InTx(ctx, s.DB, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, `
      INSERT INTO projects (tenant_id, name, description, client, status, priority, start_date, end_date, manager_id, created_by)
      VALUES ($1,$2,$3,$4,$5,$6,$7,$8,NULLIF($9, '')::uuid,$10)
      RETURNING id
    `, tenantID, in.Name, in.Description, in.Client, in.Status, in.Priority, in.StartDate, in.EndDate, in.ManagerID, actorID).Scan(&id); err != nil {
			return err
		}
		if err := replaceMembers(ctx, tx, id, in.Members); err != nil {
			return err
		}
		return addProjectHistory(ctx, tx, id, in.Status, actorID, "created")
	})
	if querier.IsForeignKeyViolation(err) {
		return "", ErrUnknownEmployee
	}
	return id, err
}

func replaceMembers(ctx context.Context, tx pgx.Tx, projectID string, members []string) error {
	if _, err := tx.Exec(ctx, "DELETE FROM project_members WHERE project_id = $1", projectID); err != nil {
		return err
	}
	for _, m := range members {
		if _, err := tx.Exec(ctx, `
      INSERT INTO project_members (project_id, employee_id) VALUES ($1,$2)
      ON CONFLICT DO NOTHING
    `, projectID, m); err != nil {
			return err
		}
	}
	return nil
}

func addProjectHistory(ctx context.Context, q querier.Querier, projectID, status, actorID, note string) error {
	_, err := q.Exec(ctx, `
    INSERT INTO project_status_history (project_id, status, changed_by, note) VALUES ($1,$2,$3,$4)
  `, projectID, status, actorID, note)
	return err
}

func (s *Store) GetProject(ctx context.Context, tenantID, id string) (Project, error) {
	p, err := scanProject(s.DB.QueryRow(ctx, "SELECT "+projectColumns+" FROM projects WHERE tenant_id = $1 AND id = $2", tenantID, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Project{}, ErrProjectNotFound
	}
	if err != nil {
		return Project{}, err
	}
	if p.Members, err = s.members(ctx, id); err != nil {
		return Project{}, err
	}
	p.History, err = s.projectHistory(ctx, id)
	return p, err
}

func (s *Store) members(ctx context.Context, projectID string) ([]string, error) {
	rows, err := s.DB.Query(ctx, "SELECT employee_id FROM project_members WHERE project_id = $1 ORDER BY employee_id", projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (s *Store) projectHistory(ctx context.Context, projectID string) ([]StatusChange, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT status, changed_by, note, changed_at FROM project_status_history
    WHERE project_id = $1 ORDER BY changed_at
  `, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []StatusChange{}
	for rows.Next() {
		var c StatusChange
		if err := rows.Scan(&c.Status, &c.ChangedBy, &c.Note, &c.ChangedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) ListProjects(ctx context.Context, tenantID string, filter ProjectFilter) ([]Project, int, error) {
	where := " WHERE tenant_id = $1"
	args := []any{tenantID}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.MemberOf != "" {
		args = append(args, filter.MemberOf)
		n := len(args)
		where += fmt.Sprintf(" AND (manager_id = $%d OR id IN (SELECT project_id FROM project_members WHERE employee_id = $%d))", n, n)
	}
	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM projects"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := s.DB.Query(ctx, "SELECT "+projectColumns+" FROM projects"+where+
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2),
		append(args, filter.Limit, filter.Offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	out := []Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}

// UpdateProject writes the project fields and, when the status changed,
// appends a history entry.
func (s *Store) UpdateProject(ctx context.Context, tenantID, actorID string, before, after Project, note string) error {
	err := querier.InTx(ctx, s.DB, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
      UPDATE projects
      SET name = $3, description = $4, client = $5, status = $6, priority = $7, start_date = $8, end_date = $9,
          manager_id = NULLIF($10, '')::uuid, updated_at = now()
      WHERE tenant_id = $1 AND id = $2
    `, tenantID, after.ID, after.Name, after.Description, after.Client, after.Status, after.Priority,
			after.StartDate, after.EndDate, after.ManagerID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrProjectNotFound
		}
		if after.Members != nil {
			if err := replaceMembers(ctx, tx, after.ID, after.Members); err != nil {
				return err
			}
		}
		if before.Status != after.Status {
			return addProjectHistory(ctx, tx, after.ID, after.Status, actorID, note)
		}
		return nil
	})
	if querier.IsForeignKeyViolation(err) {
		return ErrUnknownEmployee
	}
	return err
}

func (s *Store) DeleteProject(ctx context.Context, tenantID, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM projects WHERE tenant_id = $1 AND id = $2", tenantID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProjectNotFound
	}
	return nil
}

const taskColumns = `
    id, COALESCE(project_id::text, ''), title, description, COALESCE(assignee_id::text, ''), created_by,
    priority, status, due_date, progress, completed_at, created_at, updated_at
`

func scanTask(row pgx.Row) (Task, error) {
	var t Task
	err := row.Scan(&t.ID, &t.ProjectID, &t.Title, &t.Description, &t.AssigneeID, &t.CreatedBy,
		&t.Priority, &t.Status, &t.DueDate, &t.Progress, &t.CompletedAt, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func (s *Store) CreateTask(ctx context.Context, tenantID, actorID string, in TaskInput) (string, error) {
	var id string
	err := querier.InTx(ctx, s.DB, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, `
      INSERT INTO tasks (tenant_id, project_id, title, description, assignee_id, created_by, priority, status, due_date)
      VALUES ($1,NULLIF($2, '')::uuid,$3,$4,NULLIF($5, '')::uuid,$6,$7,$8,$9)
      RETURNING id
    `, tenantID, in.ProjectID, in.Title, in.Description, in.AssigneeID, actorID, in.Priority, TaskTodo, in.DueDate).Scan(&id); err != nil {
			return err
		}
		return addTaskHistory(ctx, tx, id, TaskTodo, actorID)
	})
	if querier.IsForeignKeyViolation(err) {
		return "", ErrUnknownEmployee
	}
	return id, err
}

func addTaskHistory(ctx context.Context, q querier.Querier, taskID, status, actorID string) error {
	_, err := q.Exec(ctx, "INSERT INTO task_status_history (task_id, status, changed_by) VALUES ($1,$2,$3)", taskID, status, actorID)
	return err
}

func (s *Store) GetTask(ctx context.Context, tenantID, id string) (Task, error) {
	t, err := scanTask(s.DB.QueryRow(ctx, "SELECT "+taskColumns+" FROM tasks WHERE tenant_id = $1 AND id = $2", tenantID, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Task{}, ErrTaskNotFound
	}
	return t, err
}

// TaskDetail loads a task with its status history, progress log and comments.
func (s *Store) TaskDetail(ctx context.Context, tenantID, id string) (Task, error) {
	t, err := s.GetTask(ctx, tenantID, id)
	if err != nil {
		return Task{}, err
	}

	rows, err := s.DB.Query(ctx, "SELECT status, changed_by, changed_at FROM task_status_history WHERE task_id = $1 ORDER BY changed_at", id)
	if err != nil {
		return Task{}, err
	}
	t.History = []StatusChange{}
	for rows.Next() {
		var c StatusChange
		if err := rows.Scan(&c.Status, &c.ChangedBy, &c.ChangedAt); err != nil {
			rows.Close()
			return Task{}, err
		}
		t.History = append(t.History, c)
	}
	rows.Close()

	rows, err = s.DB.Query(ctx, "SELECT progress, note, recorded_by, recorded_at FROM task_progress WHERE task_id = $1 ORDER BY recorded_at", id)
	if err != nil {
		return Task{}, err
	}
	t.ProgressLog = []ProgressUpdate{}
	for rows.Next() {
		var p ProgressUpdate
		if err := rows.Scan(&p.Progress, &p.Note, &p.RecordedBy, &p.RecordedAt); err != nil {
			rows.Close()
			return Task{}, err
		}
		t.ProgressLog = append(t.ProgressLog, p)
	}
	rows.Close()

	rows, err = s.DB.Query(ctx, "SELECT id, author_id, body, created_at FROM task_comments WHERE task_id = $1 ORDER BY created_at", id)
	if err != nil {
		return Task{}, err
	}
	defer rows.Close()
	t.Comments = []Comment{}
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.AuthorID, &c.Body, &c.CreatedAt); err != nil {
			return Task{}, err
		}
		t.Comments = append(t.Comments, c)
	}
	return t, rows.Err()
}

func (s *Store) ListTasks(ctx context.Context, tenantID string, filter TaskFilter) ([]Task, int, error) {
	where := " WHERE tenant_id = $1"
	args := []any{tenantID}
	add := func(clause string, value any) {
		args = append(args, value)
		where += fmt.Sprintf(clause, len(args))
	}
	if filter.ProjectID != "" {
		add(" AND project_id = $%d", filter.ProjectID)
	}
	if filter.AssigneeID != "" {
		add(" AND assignee_id = $%d", filter.AssigneeID)
	}
	if filter.Status != "" {
		add(" AND status = $%d", filter.Status)
	}
	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM tasks"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := s.DB.Query(ctx, "SELECT "+taskColumns+" FROM tasks"+where+
		fmt.Sprintf(" ORDER BY due_date NULLS LAST, created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2),
		append(args, filter.Limit, filter.Offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	out := []Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, t)
	}
	return out, total, rows.Err()
}

// SaveTaskState writes status, progress and completion, appending history
// rows for whichever of them changed.
func (s *Store) SaveTaskState(ctx context.Context, tenantID, actorID string, before, after Task, progressNote string, at time.Time) error {
	return querier.InTx(ctx, s.DB, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
      UPDATE tasks SET status = $3, progress = $4, completed_at = $5, updated_at = now()
      WHERE tenant_id = $1 AND id = $2
    `, tenantID, after.ID, after.Status, after.Progress, after.CompletedAt)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrTaskNotFound
		}
		if before.Status != after.Status {
			if err := addTaskHistory(ctx, tx, after.ID, after.Status, actorID); err != nil {
				return err
			}
		}
		if before.Progress != after.Progress || progressNote != "" {
			_, err := tx.Exec(ctx, `
        INSERT INTO task_progress (task_id, progress, note, recorded_by, recorded_at) VALUES ($1,$2,$3,$4,$5)
      `, after.ID, after.Progress, progressNote, actorID, at)
			return err
		}
		return nil
	})
}

func (s *Store) UpdateTaskFields(ctx context.Context, tenantID string, t Task) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE tasks SET title = $3, description = $4, assignee_id = NULLIF($5, '')::uuid, priority = $6, due_date = $7, updated_at = now()
    WHERE tenant_id = $1 AND id = $2
  `, tenantID, t.ID, t.Title, t.Description, t.AssigneeID, t.Priority, t.DueDate)
	if querier.IsForeignKeyViolation(err) {
		return ErrUnknownEmployee
	}
	return err
}

func (s *Store) AddComment(ctx context.Context, taskID, authorID, body string) (Comment, error) {
	c := Comment{AuthorID: authorID, Body: body}
	err := s.DB.QueryRow(ctx, `
    INSERT INTO task_comments (task_id, author_id, body) VALUES ($1,$2,$3)
    RETURNING id, created_at
  `, taskID, authorID, body).Scan(&c.ID, &c.CreatedAt)
	return c, err
}

func (s *Store) DeleteTask(ctx context.Context, tenantID, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM tasks WHERE tenant_id = $1 AND id = $2", tenantID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTaskNotFound
	}
	return nil
}
