package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
)

type Tokens struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
	User         Profile   `json:"user"`
}

type Profile struct {
	ID         string `json:"id"`
	TenantID   string `json:"tenantId"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	EmployeeID string `json:"employeeId,omitempty"`
}

type Service struct {
	Store      *Store
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

func NewService(store *Store, secret string, accessTTL, refreshTTL time.Duration) *Service {
	return &Service{Store: store, Secret: secret, AccessTTL: accessTTL, RefreshTTL: refreshTTL}
}

func (s *Service) Login(ctx context.Context, email, password string) (Tokens, error) {
	user, err := s.Store.FindActiveUserByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, pgx.ErrNoRows) {
		return Tokens{}, ErrInvalidCredentials
	}
	if err != nil {
		return Tokens{}, fmt.Errorf("find user: %w", err)
	}
	if CheckPassword(user.Password, password) != nil {
		return Tokens{}, ErrInvalidCredentials
	}

	tokens, err := s.issue(ctx, user)
	if err != nil {
		return Tokens{}, err
	}
	if err := s.Store.UpdateLastLogin(ctx, user.ID); err != nil {
		slog.Warn("update last login failed", "err", err, "user_id", user.ID)
	}
	return tokens, nil
}

func (s *Service) Refresh(ctx context.Context, refreshToken string) (Tokens, error) {
	oldHash := HashRefreshToken(strings.TrimSpace(refreshToken))
	userID, err := s.Store.SessionUser(ctx, oldHash)
	if errors.Is(err, pgx.ErrNoRows) {
		return Tokens{}, ErrInvalidSession
	}
	if err != nil {
		return Tokens{}, fmt.Errorf("load session: %w", err)
	}
	user, err := s.Store.UserByID(ctx, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return Tokens{}, ErrInvalidSession
	}
	if err != nil {
		return Tokens{}, fmt.Errorf("load user: %w", err)
	}

	access, expiresAt, err := s.accessToken(user)
	if err != nil {
		return Tokens{}, err
	}
	next, nextHash, err := NewRefreshToken()
	if err != nil {
		return Tokens{}, err
	}
	if err := s.Store.RotateSession(ctx, user.ID, oldHash, nextHash, time.Now().Add(s.RefreshTTL)); err != nil {
		return Tokens{}, fmt.Errorf("rotate session: %w", err)
	}
	return Tokens{AccessToken: access, RefreshToken: next, ExpiresAt: expiresAt, User: profileOf(user)}, nil
}

func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	return s.Store.RevokeSession(ctx, HashRefreshToken(strings.TrimSpace(refreshToken)))
}

func (s *Service) Me(ctx context.Context, userID string) (Profile, error) {
	user, err := s.Store.UserByID(ctx, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return Profile{}, ErrUserNotFound
	}
	if err != nil {
		return Profile{}, err
	}
	return profileOf(user), nil
}

func (s *Service) HasPermission(ctx context.Context, roleID, permission string) (bool, error) {
	return s.Store.HasPermission(ctx, roleID, permission)
}

func (s *Service) issue(ctx context.Context, user AuthUser) (Tokens, error) {
	access, expiresAt, err := s.accessToken(user)
	if err != nil {
		return Tokens{}, err
	}
	refresh, refreshHash, err := NewRefreshToken()
	if err != nil {
		return Tokens{}, err
	}
	if err := s.Store.CreateSession(ctx, user.ID, refreshHash, time.Now().Add(s.RefreshTTL)); err != nil {
		return Tokens{}, fmt.Errorf("create session: %w", err)
	}
	return Tokens{AccessToken: access, RefreshToken: refresh, ExpiresAt: expiresAt, User: profileOf(user)}, nil
}

func (s *Service) accessToken(user AuthUser) (string, time.Time, error) {
	claims := Claims{
		UserID:     user.ID,
		TenantID:   user.TenantID,
		RoleID:     user.RoleID,
		RoleName:   user.RoleName,
		EmployeeID: user.EmployeeID,
	}
	token, err := GenerateToken(s.Secret, claims, s.AccessTTL)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return token, time.Now().Add(s.AccessTTL), nil
}

func profileOf(user AuthUser) Profile {
	return Profile{
		ID:         user.ID,
		TenantID:   user.TenantID,
		Email:      user.Email,
		Role:       user.RoleName,
		EmployeeID: user.EmployeeID,
	}
}
