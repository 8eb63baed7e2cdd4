package calendar

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"peoplehub/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

func (s *Store) Holidays(ctx context.Context, tenantID string, from, to time.Time) ([]Holiday, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, date, name FROM holidays
    WHERE tenant_id = $1 AND date BETWEEN $2 AND $3
    ORDER BY date
  `, tenantID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Holiday{}
	for rows.Next() {
		var h Holiday
		if err := rows.Scan(&h.ID, &h.Date, &h.Name); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (s *Store) CreateHoliday(ctx context.Context, tenantID string, h Holiday) (Holiday, error) {
	err := s.DB.QueryRow(ctx, `
    INSERT INTO holidays (tenant_id, date, name) VALUES ($1,$2,$3)
    RETURNING id
  `, tenantID, h.Date, h.Name).Scan(&h.ID)
	if querier.IsUniqueViolation(err) {
		return Holiday{}, ErrDuplicateHoliday
	}
	return h, err
}

func (s *Store) DeleteHoliday(ctx context.Context, tenantID, id string) (Holiday, error) {
	var h Holiday
	err := s.DB.QueryRow(ctx, `
    DELETE FROM holidays WHERE tenant_id = $1 AND id = $2
    RETURNING id, date, name
  `, tenantID, id).Scan(&h.ID, &h.Date, &h.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return Holiday{}, ErrHolidayNotFound
	}
	return h, err
}

func (s *Store) WeeklyOffRule(ctx context.Context, tenantID string) (string, error) {
	var rule string
	err := s.DB.QueryRow(ctx, "SELECT weekly_off_rule FROM tenant_settings WHERE tenant_id = $1", tenantID).Scan(&rule)
	if errors.Is(err, pgx.ErrNoRows) {
		return DefaultWeeklyOff, nil
	}
	return rule, err
}

func (s *Store) SetWeeklyOffRule(ctx context.Context, tenantID, rule string) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO tenant_settings (tenant_id, weekly_off_rule) VALUES ($1,$2)
    ON CONFLICT (tenant_id) DO UPDATE SET weekly_off_rule = EXCLUDED.weekly_off_rule, updated_at = now()
  `, tenantID, rule)
	return err
}
