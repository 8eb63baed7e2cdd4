package announcement

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"peoplehub/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

// columns selects an announcement with its read state for the user bound
// at placeholder readerArg.
func columns(readerArg int) string {
	return fmt.Sprintf(`
    a.id, a.title, a.content, a.priority, a.department, a.pinned, a.published_by, a.publish_at, a.expires_at,
    (SELECT COUNT(1) FROM announcement_reads r WHERE r.announcement_id = a.id),
    EXISTS (SELECT 1 FROM announcement_reads r WHERE r.announcement_id = a.id AND r.user_id = $%d),
    a.created_at
`, readerArg)
}

func scan(row pgx.Row) (Announcement, error) {
	var a Announcement
	err := row.Scan(&a.ID, &a.Title, &a.Content, &a.Priority, &a.Department, &a.Pinned, &a.PublishedBy,
		&a.PublishAt, &a.ExpiresAt, &a.ReadCount, &a.Read, &a.CreatedAt)
	return a, err
}

func (s *Store) Create(ctx context.Context, tenantID, actorID string, in Input) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO announcements (tenant_id, title, content, priority, department, pinned, published_by, publish_at, expires_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
    RETURNING id
  `, tenantID, in.Title, in.Content, in.Priority, in.Department, in.Pinned, actorID, in.PublishAt, in.ExpiresAt).Scan(&id)
	return id, err
}

func (s *Store) Get(ctx context.Context, tenantID, readerID, id string) (Announcement, error) {
	a, err := scan(s.DB.QueryRow(ctx, "SELECT "+columns(2)+" FROM announcements a WHERE a.tenant_id = $1 AND a.id = $3", tenantID, readerID, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Announcement{}, ErrAnnouncementNotFound
	}
	if err != nil {
		return Announcement{}, err
	}
	a.Comments, err = s.comments(ctx, id)
	return a, err
}

func (s *Store) comments(ctx context.Context, id string) ([]Comment, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, author_id, body, created_at FROM announcement_comments
    WHERE announcement_id = $1 ORDER BY created_at
  `, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Comment{}
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.AuthorID, &c.Body, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// List orders pinned announcements first, newest publish time next.
func (s *Store) List(ctx context.Context, tenantID, readerID string, filter Filter) ([]Announcement, int, error) {
	where := " WHERE a.tenant_id = $1"
	args := []any{tenantID}
	add := func(clause string, value any) {
		args = append(args, value)
		where += fmt.Sprintf(clause, len(args))
	}
	if filter.Audience != nil {
		add(" AND (a.department = '' OR lower(a.department) = lower($%d))", *filter.Audience)
	}
	if filter.ActiveAt != nil {
		add(" AND a.publish_at <= $%d", *filter.ActiveAt)
		add(" AND (a.expires_at IS NULL OR a.expires_at > $%d)", *filter.ActiveAt)
	}
	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM announcements a"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	n := len(args)
	rows, err := s.DB.Query(ctx, "SELECT "+columns(n+1)+" FROM announcements a"+where+
		fmt.Sprintf(" ORDER BY a.pinned DESC, a.publish_at DESC LIMIT $%d OFFSET $%d", n+2, n+3),
		append(args, readerID, filter.Limit, filter.Offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	out := []Announcement{}
	for rows.Next() {
		a, err := scan(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, a)
	}
	return out, total, rows.Err()
}

func (s *Store) Update(ctx context.Context, tenantID, id string, in Input) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE announcements
    SET title = $3, content = $4, priority = $5, department = $6, pinned = $7, publish_at = $8, expires_at = $9
    WHERE tenant_id = $1 AND id = $2
  `, tenantID, id, in.Title, in.Content, in.Priority, in.Department, in.Pinned, in.PublishAt, in.ExpiresAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAnnouncementNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, tenantID, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM announcements WHERE tenant_id = $1 AND id = $2", tenantID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAnnouncementNotFound
	}
	return nil
}

func (s *Store) AddComment(ctx context.Context, id, authorID, body string) (Comment, error) {
	c := Comment{AuthorID: authorID, Body: body}
	err := s.DB.QueryRow(ctx, `
    INSERT INTO announcement_comments (announcement_id, author_id, body) VALUES ($1,$2,$3)
    RETURNING id, created_at
  `, id, authorID, body).Scan(&c.ID, &c.CreatedAt)
	return c, err
}

// MarkRead records a read receipt; repeated reads keep the first timestamp.
func (s *Store) MarkRead(ctx context.Context, id, userID string) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO announcement_reads (announcement_id, user_id) VALUES ($1,$2)
    ON CONFLICT (announcement_id, user_id) DO NOTHING
  `, id, userID)
	return err
}

// AudienceUserIDs returns active users in department, or every active user
// when department is empty.
func (s *Store) AudienceUserIDs(ctx context.Context, tenantID, department string) ([]string, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT u.id FROM users u
    LEFT JOIN employees e ON e.user_id = u.id
    WHERE u.tenant_id = $1 AND u.status = 'active'
      AND ($2 = '' OR lower(COALESCE(e.department, '')) = lower($2))
  `, tenantID, department)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
