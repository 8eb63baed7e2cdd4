package leave

import (
	"context"
	"errors"
	"testing"
	"time"

	"peoplehub/internal/apperr"
	"peoplehub/internal/domain/auth"
	"peoplehub/internal/domain/employee"
)

type fakeStore struct {
	requests  map[string]Request
	decisions []StageDecision
	// racer, when set, runs after Get to model a concurrent writer.
	racer     func(id string)
}

func (f *fakeStore) Insert(_ context.Context, _ string, r Request) (Request, error) {
	r.ID = "lr1"
	r.Version = 1
	f.requests[r.ID] = r
	return r, nil
}

func (f *fakeStore) HasOverlap(context.Context, string, string, time.Time, time.Time) (bool, error) {
	return false, nil
}

func (f *fakeStore) Get(_ context.Context, _, id string) (Request, error) {
	r, ok := f.requests[id]
	if !ok {
		return Request{}, ErrLeaveNotFound
	}
	if f.racer != nil {
		f.racer(id)
	}
	return r, nil
}

func (f *fakeStore) List(context.Context, string, string, Filter) ([]Request, int, error) {
	return nil, 0, nil
}

func (f *fakeStore) Decide(_ context.Context, _ string, current Request, next Request, decision StageDecision) error {
	stored := f.requests[current.ID]
	if stored.Version != current.Version {
		return ErrStaleLeave
	}
	f.requests[current.ID] = next
	f.decisions = append(f.decisions, decision)
	return nil
}

type fakeEmployees map[string]employee.Employee

func (f fakeEmployees) Get(_ context.Context, _, id string) (employee.Employee, error) {
	e, ok := f[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func newTestService() (*Service, *fakeStore) {
	store := &fakeStore{requests: map[string]Request{}}
	emps := fakeEmployees{"e1": {ID: "e1", TeamLeadID: "tl", ManagerID: "mg", UserID: "u1"}}
	svc := NewService(store, emps)
	svc.Now = func() time.Time { return time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC) }
	return svc, store
}

func TestApproveChainCompletes(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()
	applicant := auth.UserContext{UserID: "u1", TenantID: "t1", EmployeeID: "e1", RoleName: auth.RoleEmployee}

	req, _, err := svc.Apply(ctx, applicant, ApplyInput{
		LeaveType: TypeCasual,
		StartDate: time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if req.TotalDays != 3 || req.CurrentStage != StageTeamLead {
		t.Fatalf("unexpected request: %+v", req)
	}

	if _, err := svc.Approve(ctx, applicant, req.ID, ""); !errors.Is(err, ErrOwnLeave) {
		t.Fatalf("expected own leave error, got %v", err)
	}

	tl := auth.UserContext{UserID: "u-tl", TenantID: "t1", EmployeeID: "tl", RoleName: auth.RoleTeamLead}
	out, err := svc.Approve(ctx, tl, req.ID, "ok")
	if err != nil {
		t.Fatalf("tl approve: %v", err)
	}
	if out.After.CurrentStage != StageManager || out.After.Status != StatusPending || out.Completed() {
		t.Fatalf("unexpected after tl: %+v", out.After)
	}

	mg := auth.UserContext{UserID: "u-mg", TenantID: "t1", EmployeeID: "mg", RoleName: auth.RoleManager}
	out, err = svc.Approve(ctx, mg, req.ID, "")
	if err != nil {
		t.Fatalf("manager approve: %v", err)
	}
	if !out.Completed() || out.After.Status != StatusApproved || out.Applicant.UserID != "u1" {
		t.Fatalf("unexpected after manager: %+v", out)
	}
	if len(store.decisions) != 2 || store.decisions[0].Stage != StageTeamLead || store.decisions[1].Stage != StageManager {
		t.Fatalf("unexpected decisions: %+v", store.decisions)
	}

	if _, err := svc.Approve(ctx, mg, req.ID, ""); !errors.Is(err, ErrAlreadyCompleted) {
		t.Fatalf("expected completed error, got %v", err)
	}
}

func TestRejectRequiresReason(t *testing.T) {
	svc, store := newTestService()
	store.requests["lr1"] = Request{ID: "lr1", EmployeeID: "e1", CurrentStage: StageTeamLead, Status: StatusPending, Version: 1}
	hr := auth.UserContext{UserID: "u-hr", TenantID: "t1", RoleName: auth.RoleHR}

	if _, err := svc.Reject(context.Background(), hr, "lr1", "  "); !errors.Is(err, ErrRejectionReasonRequired) {
		t.Fatalf("expected validation error, got %v", err)
	}
	out, err := svc.Reject(context.Background(), hr, "lr1", "project deadline")
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if out.After.Status != StatusRejected || out.After.CurrentStage != StageCompleted || out.After.RejectionReason != "project deadline" {
		t.Fatalf("unexpected after reject: %+v", out.After)
	}
}

func TestRejectAtManagerStage(t *testing.T) {
	svc, store := newTestService()
	store.requests["lr1"] = Request{ID: "lr1", EmployeeID: "e1", CurrentStage: StageManager, Status: StatusPending, Version: 2}
	ctx := context.Background()

	tl := auth.UserContext{UserID: "u-tl", TenantID: "t1", EmployeeID: "tl", RoleName: auth.RoleTeamLead}
	if _, err := svc.Reject(ctx, tl, "lr1", "no cover"); !errors.Is(err, ErrNotStageApprover) {
		t.Fatalf("team lead must not decide the manager stage, got %v", err)
	}

	mg := auth.UserContext{UserID: "u-mg", TenantID: "t1", EmployeeID: "mg", RoleName: auth.RoleManager}
	if _, err := svc.Reject(ctx, mg, "lr1", ""); !errors.Is(err, ErrRejectionReasonRequired) {
		t.Fatalf("expected validation error, got %v", err)
	}
	out, err := svc.Reject(ctx, mg, "lr1", "release week")
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if out.After.Status != StatusRejected || out.After.CurrentStage != StageCompleted || out.After.Version != 3 {
		t.Fatalf("unexpected after reject: %+v", out.After)
	}
	if len(store.decisions) != 1 || store.decisions[0].Stage != StageManager || store.decisions[0].Decision != StatusRejected {
		t.Fatalf("unexpected decisions: %+v", store.decisions)
	}
}

func TestConcurrentDecisionLosesWithConflict(t *testing.T) {
	svc, store := newTestService()
	store.requests["lr1"] = Request{ID: "lr1", EmployeeID: "e1", CurrentStage: StageTeamLead, Status: StatusPending, Version: 1}
	store.racer = func(id string) {
		won := store.requests[id]
		won.CurrentStage = StageManager
		won.Version++
		store.requests[id] = won
		store.racer = nil
	}

	hr := auth.UserContext{UserID: "u-hr", TenantID: "t1", RoleName: auth.RoleHR}
	_, err := svc.Reject(context.Background(), hr, "lr1", "overlaps audit")
	if !errors.Is(err, ErrStaleLeave) || apperr.KindOf(err) != apperr.KindConflict {
		t.Fatalf("expected stale conflict, got %v", err)
	}
	if got := store.requests["lr1"]; got.CurrentStage != StageManager || got.Status != StatusPending || len(store.decisions) != 0 {
		t.Fatalf("stale write must not overwrite the winner: %+v %+v", got, store.decisions)
	}
}
