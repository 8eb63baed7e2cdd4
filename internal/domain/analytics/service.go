package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

// SnapshotLabelMonthly labels snapshots written by the scheduled job.
const SnapshotLabelMonthly = "monthly"

type Service struct {
	Store     *Store
	Snapshots *SnapshotStore
	Now       func() time.Time
}

func NewService(store *Store, snapshots *SnapshotStore) *Service {
	return &Service{Store: store, Snapshots: snapshots, Now: time.Now}
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

func (s *Service) Range(start, end *time.Time) (Range, error) {
	return ResolveRange(start, end, s.now())
}

// Report runs the named report over r.
func (s *Service) Report(ctx context.Context, tenantID, name string, r Range) (any, error) {
	switch name {
	case ReportWorkforce:
		return s.Store.Workforce(ctx, tenantID, r)
	case ReportAttendance:
		return s.Store.Attendance(ctx, tenantID, r)
	case ReportLeave:
		return s.Store.Leave(ctx, tenantID, r)
	case ReportPerformance:
		return s.Store.Performance(ctx, tenantID, r)
	case ReportPayroll:
		return s.Store.Payroll(ctx, tenantID, r)
	case ReportTickets:
		return s.Store.Tickets(ctx, tenantID, r)
	case ReportRecruitment:
		return s.Store.Recruitment(ctx, tenantID, r)
	case ReportAttrition:
		return s.Store.Attrition(ctx, tenantID, r)
	default:
		return nil, ErrUnknownReport
	}
}

// Snapshot archives the named reports (all of them when names is empty).
func (s *Service) Snapshot(ctx context.Context, tenantID, actorID, label string, r Range, names []string) (Snapshot, error) {
	if s.Snapshots == nil {
		return Snapshot{}, ErrSnapshotsDisabled
	}
	if len(names) == 0 {
		names = Reports
	}
	reports := bson.M{}
	for _, name := range names {
		if !ValidReport(name) {
			return Snapshot{}, ErrUnknownReport
		}
		report, err := s.Report(ctx, tenantID, name, r)
		if err != nil {
			return Snapshot{}, fmt.Errorf("%s report: %w", name, err)
		}
		doc, err := toDocument(report)
		if err != nil {
			return Snapshot{}, err
		}
		reports[name] = doc
	}
	if label == "" {
		label = "manual"
	}
	return s.Snapshots.Save(ctx, Snapshot{
		TenantID:  tenantID,
		Label:     label,
		Range:     r,
		Reports:   reports,
		CreatedBy: actorID,
		CreatedAt: s.now(),
	})
}

// MonthlySnapshot archives workforce and payroll for the previous calendar month.
func (s *Service) MonthlySnapshot(ctx context.Context, tenantID string) (any, error) {
	r := PreviousMonth(s.now())
	snap, err := s.Snapshot(ctx, tenantID, "", SnapshotLabelMonthly, r, []string{ReportWorkforce, ReportPayroll})
	if err != nil {
		return nil, err
	}
	return map[string]any{"snapshotId": snap.ID, "startDate": r.Start, "endDate": r.End}, nil
}

func (s *Service) ListSnapshots(ctx context.Context, tenantID string, limit, offset int) ([]Snapshot, error) {
	if s.Snapshots == nil {
		return nil, ErrSnapshotsDisabled
	}
	return s.Snapshots.List(ctx, tenantID, limit, offset)
}

// toDocument re-encodes a report through JSON so archived keys match the API.
func toDocument(v any) (bson.M, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc bson.M
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}
