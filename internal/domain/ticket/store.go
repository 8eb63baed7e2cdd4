package ticket

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

const ticketColumns = `
    id, code, raised_by, subject, description, category, priority, status,
    COALESCE(assignee_id::text, ''), resolved_at, created_at, updated_at
`

func scanTicket(row pgx.Row) (Ticket, error) {
	var t Ticket
	err := row.Scan(&t.ID, &t.Code, &t.RaisedBy, &t.Subject, &t.Description, &t.Category, &t.Priority, &t.Status,
		&t.AssigneeID, &t.ResolvedAt, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

// Create inserts the ticket and its first history row. A code collision
// surfaces as a unique violation for the caller to retry.
func (s *Store) Create(ctx context.Context, tenantID, code, raisedBy string, in CreateInput) (Ticket, error) {
	var t Ticket
	err := querier.InTx(ctx, s.DB, func(tx pgx.Tx) error {
		var err error
		t, err = scanTicket(tx.QueryRow(ctx, `
      INSERT INTO tickets (tenant_id, code, raised_by, subject, description, category, priority, status)
      VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
      RETURNING `+ticketColumns,
			tenantID, code, raisedBy, in.Subject, in.Description, in.Category, in.Priority, StatusOpen))
		if err != nil {
			return err
		}
		return addHistory(ctx, tx, t.ID, StatusOpen, raisedBy)
	})
	return t, err
}

func addHistory(ctx context.Context, q querier.Querier, ticketID, status, actorID string) error {
	_, err := q.Exec(ctx, "INSERT INTO ticket_status_history (ticket_id, status, changed_by) VALUES ($1,$2,$3)", ticketID, status, actorID)
	return err
}

func (s *Store) Get(ctx context.Context, tenantID, id string) (Ticket, error) {
	t, err := scanTicket(s.DB.QueryRow(ctx, "SELECT "+ticketColumns+" FROM tickets WHERE tenant_id = $1 AND id = $2", tenantID, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Ticket{}, ErrTicketNotFound
	}
	return t, err
}

// Detail loads a ticket with its conversation, history and attachments.
func (s *Store) Detail(ctx context.Context, tenantID, id string) (Ticket, error) {
	t, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return Ticket{}, err
	}
	if t.Messages, err = s.messages(ctx, id); err != nil {
		return Ticket{}, err
	}
	if t.History, err = s.history(ctx, id); err != nil {
		return Ticket{}, err
	}
	t.Attachments, err = s.Attachments(ctx, id)
	return t, err
}

func (s *Store) messages(ctx context.Context, ticketID string) ([]Message, error) {
	rows, err := s.DB.Query(ctx, "SELECT id, author_id, body, created_at FROM ticket_messages WHERE ticket_id = $1 ORDER BY created_at", ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Message{}
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.AuthorID, &m.Body, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *Store) history(ctx context.Context, ticketID string) ([]StatusChange, error) {
	rows, err := s.DB.Query(ctx, "SELECT status, changed_by, changed_at FROM ticket_status_history WHERE ticket_id = $1 ORDER BY changed_at", ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []StatusChange{}
	for rows.Next() {
		var c StatusChange
		if err := rows.Scan(&c.Status, &c.ChangedBy, &c.ChangedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) Attachments(ctx context.Context, ticketID string) ([]Attachment, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, file_name, content_type, file_size, object_key, url, uploaded_by, created_at
    FROM ticket_attachments WHERE ticket_id = $1 ORDER BY created_at
  `, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Attachment{}
	for rows.Next() {
		var a Attachment
		if err := rows.Scan(&a.ID, &a.FileName, &a.ContentType, &a.FileSize, &a.ObjectKey, &a.URL, &a.UploadedBy, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// List returns tickets matching filter. A non-empty filter.RaisedBy together
// with filter.AssigneeID matches either of them.
func (s *Store) List(ctx context.Context, tenantID string, filter Filter) ([]Ticket, int, error) {
	where := " WHERE tenant_id = $1"
	args := []any{tenantID}
	add := func(clause string, value any) {
		args = append(args, value)
		where += fmt.Sprintf(clause, len(args))
	}
	switch {
	case filter.RaisedBy != "" && filter.AssigneeID != "":
		args = append(args, filter.RaisedBy, filter.AssigneeID)
		where += fmt.Sprintf(" AND (raised_by = $%d OR assignee_id = $%d)", len(args)-1, len(args))
	case filter.RaisedBy != "":
		add(" AND raised_by = $%d", filter.RaisedBy)
	case filter.AssigneeID != "":
		add(" AND assignee_id = $%d", filter.AssigneeID)
	}
	if filter.Status != "" {
		add(" AND status = $%d", filter.Status)
	}
	if filter.Category != "" {
		add(" AND category = $%d", filter.Category)
	}
	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM tickets"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := s.DB.Query(ctx, "SELECT "+ticketColumns+" FROM tickets"+where+
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2),
		append(args, filter.Limit, filter.Offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	out := []Ticket{}
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, t)
	}
	return out, total, rows.Err()
}

// SetStatus moves the ticket from the expected status, so concurrent changes
// cannot both apply.
func (s *Store) SetStatus(ctx context.Context, tenantID, id, from, to, actorID string, resolvedAt *time.Time) error {
	return querier.InTx(ctx, s.DB, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
      UPDATE tickets SET status = $4, resolved_at = $5, updated_at = now()
      WHERE tenant_id = $1 AND id = $2 AND status = $3
    `, tenantID, id, from, to, resolvedAt)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrInvalidTransition
		}
		return addHistory(ctx, tx, id, to, actorID)
	})
}

func (s *Store) Assign(ctx context.Context, tenantID, id, assigneeID string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE tickets SET assignee_id = NULLIF($3, '')::uuid, updated_at = now()
    WHERE tenant_id = $1 AND id = $2
  `, tenantID, id, assigneeID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTicketNotFound
	}
	return nil
}

func (s *Store) AddMessage(ctx context.Context, ticketID, authorID, body string) (Message, error) {
	m := Message{AuthorID: authorID, Body: body}
	err := s.DB.QueryRow(ctx, `
    INSERT INTO ticket_messages (ticket_id, author_id, body) VALUES ($1,$2,$3)
    RETURNING id, created_at
  `, ticketID, authorID, body).Scan(&m.ID, &m.CreatedAt)
	return m, err
}

func (s *Store) AddAttachment(ctx context.Context, ticketID string, a Attachment) (Attachment, error) {
	err := s.DB.QueryRow(ctx, `
    INSERT INTO ticket_attachments (ticket_id, file_name, content_type, file_size, object_key, url, uploaded_by)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
    RETURNING id, created_at
  `, ticketID, a.FileName, a.ContentType, a.FileSize, a.ObjectKey, a.URL, a.UploadedBy).Scan(&a.ID, &a.CreatedAt)
	return a, err
}

func (s *Store) Delete(ctx context.Context, tenantID, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM tickets WHERE tenant_id = $1 AND id = $2", tenantID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTicketNotFound
	}
	return nil
}
