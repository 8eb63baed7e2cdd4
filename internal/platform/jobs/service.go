package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"peoplehub/internal/apperr"
	"peoplehub/internal/platform/querier"
)

const (
	JobPayrollAutorun    = "payroll_autorun"
	JobAnalyticsSnapshot = "analytics_snapshot"
	JobPayrollBulk       = "payroll_bulk"
)

// TenantFunc runs one job for one tenant and returns details recorded on the run.
type TenantFunc func(ctx context.Context, tenantID string) (any, error)

type Service struct {
	DB    querier.Querier
	queue chan job

	mu        sync.Mutex
	schedules []schedule
}

type job struct {
	RunID    string
	Type     string
	TenantID string
	Run      func(context.Context) (any, error)
}

var (
	ErrQueueFull   = errors.New("job queue full")
	ErrRunNotFound = apperr.NotFound("job run not found")
)

type schedule struct {
	Type     string
	Interval time.Duration
	Run      TenantFunc
}

func New(db querier.Querier) *Service {
	return &Service{
		DB:    db,
		queue: make(chan job, 128),
	}
}

// Every registers a per-tenant job fired on each tick. A non-positive
// interval disables it.
func (s *Service) Every(jobType string, interval time.Duration, run TenantFunc) {
	if interval <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.schedules = append(s.schedules, schedule{Type: jobType, Interval: interval, Run: run})
}

func (s *Service) Start(ctx context.Context) {
	go s.worker(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sch := range s.schedules {
		go s.loop(ctx, sch)
	}
}

func (s *Service) Enqueue(jobType, tenantID string, run func(context.Context) (any, error)) bool {
	select {
	case s.queue <- job{Type: jobType, TenantID: tenantID, Run: run}:
		return true
	default:
		slog.Warn("job queue full", "job_type", jobType, "tenant_id", tenantID)
		return false
	}
}

// Submit records a queued run and hands it to the worker. The returned id
// can be polled with Get.
func (s *Service) Submit(ctx context.Context, jobType, tenantID string, run func(context.Context) (any, error)) (string, error) {
	var runID string
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO job_runs (tenant_id, job_type, status)
    VALUES ($1,$2,'queued')
    RETURNING id
  `, tenantID, jobType).Scan(&runID); err != nil {
		return "", err
	}
	select {
	case s.queue <- job{RunID: runID, Type: jobType, TenantID: tenantID, Run: run}:
		return runID, nil
	default:
		if _, err := s.DB.Exec(ctx, "UPDATE job_runs SET status = 'failed', completed_at = now() WHERE id = $1", runID); err != nil {
			slog.Warn("job run update failed", "err", err)
		}
		return "", ErrQueueFull
	}
}

func (s *Service) RunNow(ctx context.Context, jobType, tenantID string, run func(context.Context) (any, error)) (any, error) {
	return s.runJob(ctx, job{Type: jobType, TenantID: tenantID, Run: run})
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			if _, err := s.runJob(ctx, j); err != nil {
				slog.Warn("job run failed", "job_type", j.Type, "tenant_id", j.TenantID, "err", err)
			}
		}
	}
}

func (s *Service) runJob(ctx context.Context, j job) (any, error) {
	runID := j.RunID
	if runID == "" {
		if err := s.DB.QueryRow(ctx, `
      INSERT INTO job_runs (tenant_id, job_type, status)
      VALUES ($1,$2,'running')
      RETURNING id
    `, j.TenantID, j.Type).Scan(&runID); err != nil {
			slog.Warn("job run insert failed", "err", err)
		}
	} else if _, err := s.DB.Exec(ctx, "UPDATE job_runs SET status = 'running', started_at = now() WHERE id = $1", runID); err != nil {
		slog.Warn("job run update failed", "err", err)
	}

	details, err := j.Run(ctx)
	status := "completed"
	if err != nil {
		status = "failed"
		details = map[string]any{"error": err.Error(), "partial": details}
	}
	detailsJSON, marshalErr := json.Marshal(details)
	if marshalErr != nil {
		slog.Warn("job details marshal failed", "err", marshalErr)
		detailsJSON = []byte("{}")
	}
	if runID != "" {
		if _, updErr := s.DB.Exec(ctx, `
      UPDATE job_runs
      SET status = $1, details_json = $2, completed_at = now()
      WHERE id = $3
    `, status, detailsJSON, runID); updErr != nil {
			slog.Warn("job run update failed", "err", updErr)
		}
	}
	return details, err
}

func (s *Service) loop(ctx context.Context, sch schedule) {
	ticker := time.NewTicker(sch.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			tenants, err := s.listTenants(ctx)
			if err != nil {
				slog.Warn("scheduler tenant lookup failed", "job_type", sch.Type, "err", err)
				continue
			}
			for _, tenantID := range tenants {
				tenant := tenantID
				run := sch.Run
				s.Enqueue(sch.Type, tenant, func(ctx context.Context) (any, error) {
					return run(ctx, tenant)
				})
			}
		}
	}
}

type Run struct {
	ID          string          `json:"id"`
	JobType     string          `json:"jobType"`
	Status      string          `json:"status"`
	Details     json.RawMessage `json:"details,omitempty"`
	StartedAt   time.Time       `json:"startedAt"`
	CompletedAt *time.Time      `json:"completedAt,omitempty"`
}

func (s *Service) Get(ctx context.Context, tenantID, runID string) (Run, error) {
	var run Run
	err := s.DB.QueryRow(ctx, `
    SELECT id, job_type, status, COALESCE(details_json, '{}'::jsonb), started_at, completed_at
    FROM job_runs
    WHERE tenant_id = $1 AND id = $2
  `, tenantID, runID).Scan(&run.ID, &run.JobType, &run.Status, &run.Details, &run.StartedAt, &run.CompletedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Run{}, ErrRunNotFound
	}
	return run, err
}

func (s *Service) listTenants(ctx context.Context) ([]string, error) {
	rows, err := s.DB.Query(ctx, `SELECT id FROM tenants`)
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
