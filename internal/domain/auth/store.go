package auth

import (
	"context"
	"time"

	"peoplehub/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

type AuthUser struct {
	ID         string
	TenantID   string
	RoleID     string
	RoleName   string
	Email      string
	Password   string
	EmployeeID string
}

const authUserSelect = `
    SELECT u.id, u.tenant_id, u.role_id, r.name, u.email, u.password_hash, COALESCE(e.id::text, '')
    FROM users u
    JOIN roles r ON u.role_id = r.id
    LEFT JOIN employees e ON e.user_id = u.id AND e.is_active
`

func (s *Store) FindActiveUserByEmail(ctx context.Context, email string) (AuthUser, error) {
	var out AuthUser
	err := s.DB.QueryRow(ctx, authUserSelect+`
    WHERE lower(u.email) = lower($1) AND u.status = 'active'
    LIMIT 1
  `, email).Scan(&out.ID, &out.TenantID, &out.RoleID, &out.RoleName, &out.Email, &out.Password, &out.EmployeeID)
	return out, err
}

func (s *Store) UserByID(ctx context.Context, userID string) (AuthUser, error) {
	var out AuthUser
	err := s.DB.QueryRow(ctx, authUserSelect+`
    WHERE u.id = $1 AND u.status = 'active'
  `, userID).Scan(&out.ID, &out.TenantID, &out.RoleID, &out.RoleName, &out.Email, &out.Password, &out.EmployeeID)
	return out, err
}

func (s *Store) CreateSession(ctx context.Context, userID, refreshTokenHash string, expires time.Time) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO sessions (user_id, refresh_token, expires_at)
    VALUES ($1,$2,$3)
  `, userID, refreshTokenHash, expires)
	return err
}

func (s *Store) UpdateLastLogin(ctx context.Context, userID string) error {
	_, err := s.DB.Exec(ctx, "UPDATE users SET last_login = now() WHERE id = $1", userID)
	return err
}

func (s *Store) RevokeSession(ctx context.Context, refreshTokenHash string) error {
	_, err := s.DB.Exec(ctx, "UPDATE sessions SET revoked_at = now() WHERE refresh_token = $1 AND revoked_at IS NULL", refreshTokenHash)
	return err
}

// SessionUser returns the owner of a live refresh session.
func (s *Store) SessionUser(ctx context.Context, refreshTokenHash string) (string, error) {
	var userID string
	err := s.DB.QueryRow(ctx, `
    SELECT user_id
    FROM sessions
    WHERE refresh_token = $1 AND expires_at > now() AND revoked_at IS NULL
  `, refreshTokenHash).Scan(&userID)
	return userID, err
}

func (s *Store) RotateSession(ctx context.Context, userID, oldHash, newHash string, expires time.Time) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE sessions
    SET refresh_token = $1, expires_at = $2, rotated_at = now()
    WHERE user_id = $3 AND refresh_token = $4
  `, newHash, expires, userID, oldHash)
	return err
}

func (s *Store) HasPermission(ctx context.Context, roleID, permission string) (bool, error) {
	var exists bool
	err := s.DB.QueryRow(ctx, `
    SELECT EXISTS (
      SELECT 1
      FROM role_permissions rp
      JOIN permissions p ON p.id = rp.permission_id
      WHERE rp.role_id = $1 AND p.key = $2
    )
  `, roleID, permission).Scan(&exists)
	return exists, err
}
