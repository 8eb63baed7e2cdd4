package leave

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

const requestColumns = `
    lr.id, lr.employee_id, COALESCE(e.full_name, ''), lr.leave_type, lr.start_date, lr.end_date, lr.total_days,
    lr.reason, lr.status, lr.current_stage, lr.rejection_reason, lr.version, lr.created_at, lr.updated_at
`

const requestFrom = " FROM leave_requests lr LEFT JOIN employees e ON e.id = lr.employee_id"

func scanRequest(row pgx.Row) (Request, error) {
	var r Request
	var stage string
	err := row.Scan(&r.ID, &r.EmployeeID, &r.EmployeeName, &r.LeaveType, &r.StartDate, &r.EndDate, &r.TotalDays,
		&r.Reason, &r.Status, &stage, &r.RejectionReason, &r.Version, &r.CreatedAt, &r.UpdatedAt)
	r.CurrentStage = Stage(stage)
	return r, err
}

func (s *Store) Insert(ctx context.Context, tenantID string, r Request) (Request, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO leave_requests (tenant_id, employee_id, leave_type, start_date, end_date, total_days, reason, status, current_stage)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
    RETURNING id
  `, tenantID, r.EmployeeID, r.LeaveType, r.StartDate, r.EndDate, r.TotalDays, r.Reason, r.Status, string(r.CurrentStage)).Scan(&id)
	if err != nil {
		return Request{}, err
	}
	return s.Get(ctx, tenantID, id)
}

func (s *Store) HasOverlap(ctx context.Context, tenantID, employeeID string, start, end time.Time) (bool, error) {
	var exists bool
	err := s.DB.QueryRow(ctx, `
    SELECT EXISTS (
      SELECT 1 FROM leave_requests
      WHERE tenant_id = $1 AND employee_id = $2 AND status IN ('Pending', 'Approved')
        AND start_date <= $4 AND end_date >= $3
    )
  `, tenantID, employeeID, start, end).Scan(&exists)
	return exists, err
}

func (s *Store) Get(ctx context.Context, tenantID, id string) (Request, error) {
	r, err := scanRequest(s.DB.QueryRow(ctx, "SELECT "+requestColumns+requestFrom+" WHERE lr.tenant_id = $1 AND lr.id = $2", tenantID, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Request{}, ErrLeaveNotFound
	}
	if err != nil {
		return Request{}, err
	}
	r.Decisions, err = s.decisions(ctx, id)
	return r, err
}

func (s *Store) decisions(ctx context.Context, requestID string) ([]StageDecision, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT stage, decision, actor_user_id, comment, decided_at
    FROM leave_stage_decisions
    WHERE leave_request_id = $1
    ORDER BY decided_at
  `, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []StageDecision{}
	for rows.Next() {
		var d StageDecision
		var stage string
		if err := rows.Scan(&stage, &d.Decision, &d.ActorUserID, &d.Comment, &d.DecidedAt); err != nil {
			return nil, err
		}
		d.Stage = Stage(stage)
		out = append(out, d)
	}
	return out, rows.Err()
}

// List applies the caller's scope: self is the actor's own requests, team
// adds requests of employees the actor leads or manages.
func (s *Store) List(ctx context.Context, tenantID, actorEmployeeID string, filter Filter) ([]Request, int, error) {
	where := " WHERE lr.tenant_id = $1"
	args := []any{tenantID}
	add := func(clause string, value any) {
		args = append(args, value)
		where += fmt.Sprintf(clause, len(args))
	}
	switch filter.Scope {
	case ScopeSelf:
		add(" AND lr.employee_id = $%d", actorEmployeeID)
	case ScopeTeam:
		args = append(args, actorEmployeeID)
		n := len(args)
		where += fmt.Sprintf(" AND (lr.employee_id = $%d OR e.team_lead_id = $%d OR e.manager_id = $%d)", n, n, n)
	}
	if filter.EmployeeID != "" {
		add(" AND lr.employee_id = $%d", filter.EmployeeID)
	}
	if filter.Status != "" {
		add(" AND lr.status = $%d", filter.Status)
	}
	if filter.Stage != "" {
		add(" AND lr.current_stage = $%d", filter.Stage)
	}

	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1)"+requestFrom+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	query := "SELECT " + requestColumns + requestFrom + where +
		fmt.Sprintf(" ORDER BY lr.created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	rows, err := s.DB.Query(ctx, query, append(args, filter.Limit, filter.Offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	out := []Request{}
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, r)
	}
	return out, total, rows.Err()
}

// Decide moves a request to its next stage only if nobody changed it since it
// was read, and records the stage decision in the same transaction.
func (s *Store) Decide(ctx context.Context, tenantID string, current Request, next Request, decision StageDecision) error {
	return querier.InTx(ctx, s.DB, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
      UPDATE leave_requests
      SET current_stage = $4, status = $5, rejection_reason = $6, version = version + 1, updated_at = now()
      WHERE tenant_id = $1 AND id = $2 AND version = $3
    `, tenantID, current.ID, current.Version, string(next.CurrentStage), next.Status, next.RejectionReason)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrStaleLeave
		}
		_, err = tx.Exec(ctx, `
      INSERT INTO leave_stage_decisions (leave_request_id, stage, decision, actor_user_id, comment, decided_at)
      VALUES ($1,$2,$3,$4,$5,$6)
    `, current.ID, string(decision.Stage), decision.Decision, decision.ActorUserID, decision.Comment, decision.DecidedAt)
		if querier.IsUniqueViolation(err) {
			return ErrStaleLeave
		}
		return err
	})
}
