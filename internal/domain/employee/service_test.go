package employee

import (
	"context"
	"errors"
	"testing"
	"time"

	"peoplehub/internal/domain/auth"
	"peoplehub/internal/platform/querier"
)

type fakeStore struct {
	employees map[string]Employee
	history   []StatusChange
}

func newFakeStore(emps ...Employee) *fakeStore {
	f := &fakeStore{employees: map[string]Employee{}}
	for _, e := range emps {
		f.employees[e.ID] = e
	}
	return f
}

func (f *fakeStore) Get(_ context.Context, _, id string) (Employee, error) {
	e, ok := f.employees[id]
	if !ok {
		return Employee{}, ErrEmployeeNotFound
	}
	return e, nil
}

func (f *fakeStore) GetByUserID(_ context.Context, _, userID string) (Employee, error) {
	for _, e := range f.employees {
		if e.UserID == userID {
			return e, nil
		}
	}
	return Employee{}, ErrNoLinkedEmployee
}

func (f *fakeStore) List(context.Context, string, Filter) ([]Employee, int, error) {
	return nil, 0, nil
}

func (f *fakeStore) Exists(_ context.Context, _, id string) (bool, error) {
	_, ok := f.employees[id]
	return ok, nil
}

func (f *fakeStore) Create(_ context.Context, _, _ string, in CreateInput, fullName, _ string) (Employee, error) {
	e := Employee{ID: "new", FirstName: in.FirstName, LastName: in.LastName, FullName: fullName, Status: in.Status, IsActive: true}
	f.employees[e.ID] = e
	return e, nil
}

func (f *fakeStore) Update(_ context.Context, _, id string, emp Employee) error {
	f.employees[id] = emp
	return nil
}

func (f *fakeStore) SetStatus(_ context.Context, _ querier.Querier, _, id, from, to, actor, note string, emp Employee) error {
	cur := f.employees[id]
	if cur.Status != from {
		return ErrInvalidTransition
	}
	cur.Status = to
	cur.IsActive = emp.IsActive
	cur.ExitDate = emp.ExitDate
	f.employees[id] = cur
	f.history = append(f.history, StatusChange{FromStatus: from, ToStatus: to, ChangedBy: actor, Note: note})
	return nil
}

func (f *fakeStore) SaveResignation(_ context.Context, _ querier.Querier, _, id string, res *Resignation) error {
	cur := f.employees[id]
	copied := *res
	cur.Resignation = &copied
	f.employees[id] = cur
	return nil
}

func (f *fakeStore) History(context.Context, string, string) ([]StatusChange, error) {
	return f.history, nil
}

func (f *fakeStore) InTx(_ context.Context, fn func(q querier.Querier) error) error {
	return fn(nil)
}

func fixedService(store *fakeStore) *Service {
	svc := NewService(store)
	svc.Now = func() time.Time { return time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC) }
	return svc
}

func TestCreateDefaultsAndRelations(t *testing.T) {
	store := newFakeStore()
	svc := fixedService(store)

	emp, err := svc.Create(context.Background(), "t1", "admin", CreateInput{FirstName: " Asha ", LastName: "Rao"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if emp.FullName != "Asha Rao" || emp.Status != StatusProbation {
		t.Fatalf("unexpected employee: %+v", emp)
	}

	_, err = svc.Create(context.Background(), "t1", "admin", CreateInput{FirstName: "B", ManagerID: "missing"})
	if !errors.Is(err, ErrUnknownManager) {
		t.Fatalf("expected unknown manager, got %v", err)
	}
}

func TestChangeStatusTerminalDeactivates(t *testing.T) {
	store := newFakeStore(Employee{ID: "e1", Status: StatusExitProcess, IsActive: true})
	svc := fixedService(store)

	_, after, err := svc.ChangeStatus(context.Background(), "t1", "hr", "e1", StatusRelieved, "")
	if err != nil {
		t.Fatalf("change status: %v", err)
	}
	if after.IsActive || after.ExitDate == nil {
		t.Fatalf("expected inactive with exit date: %+v", after)
	}
	if len(store.history) != 1 || store.history[0].ToStatus != StatusRelieved {
		t.Fatalf("unexpected history: %+v", store.history)
	}

	if _, _, err := svc.ChangeStatus(context.Background(), "t1", "hr", "e1", StatusConfirmed, ""); !errors.Is(err, ErrInactiveEmployee) {
		t.Fatalf("expected inactive error, got %v", err)
	}
}

func TestDeactivateIsSoft(t *testing.T) {
	store := newFakeStore(Employee{ID: "e1", Status: StatusConfirmed, IsActive: true})
	svc := fixedService(store)

	after, err := svc.Deactivate(context.Background(), "t1", "hr", "e1")
	if err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if after.Status != StatusTerminated || after.IsActive {
		t.Fatalf("unexpected state: %+v", after)
	}
	if _, ok := store.employees["e1"]; !ok {
		t.Fatal("employee row removed")
	}
}

func TestResignationNeedsBothApprovals(t *testing.T) {
	store := newFakeStore(
		Employee{ID: "e1", Status: StatusConfirmed, IsActive: true, TeamLeadID: "tl", ManagerID: "mg"},
		Employee{ID: "tl", Status: StatusConfirmed, IsActive: true},
		Employee{ID: "mg", Status: StatusConfirmed, IsActive: true},
	)
	svc := fixedService(store)
	ctx := context.Background()

	self := auth.UserContext{UserID: "u1", TenantID: "t1", EmployeeID: "e1", RoleName: auth.RoleEmployee}
	if _, err := svc.SubmitResignation(ctx, self, "relocating", nil); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := svc.SubmitResignation(ctx, self, "again", nil); !errors.Is(err, ErrResignationExists) {
		t.Fatalf("expected duplicate resignation error, got %v", err)
	}
	if _, err := svc.ApproveResignation(ctx, self, "e1", ""); !errors.Is(err, ErrNotResignationActor) {
		t.Fatalf("expected self approval to fail, got %v", err)
	}

	tl := auth.UserContext{UserID: "u-tl", TenantID: "t1", EmployeeID: "tl", RoleName: auth.RoleTeamLead}
	emp, err := svc.ApproveResignation(ctx, tl, "e1", "")
	if err != nil {
		t.Fatalf("tl approve: %v", err)
	}
	if emp.Status != StatusResignationSubmitted || !emp.Resignation.TeamLeadApproved {
		t.Fatalf("unexpected after tl: %+v", emp)
	}
	if _, err := svc.ApproveResignation(ctx, tl, "e1", ApproverManager); !errors.Is(err, ErrNotResignationActor) {
		t.Fatalf("expected tl acting as manager to fail, got %v", err)
	}

	mg := auth.UserContext{UserID: "u-mg", TenantID: "t1", EmployeeID: "mg", RoleName: auth.RoleManager}
	emp, err = svc.ApproveResignation(ctx, mg, "e1", "")
	if err != nil {
		t.Fatalf("manager approve: %v", err)
	}
	if emp.Status != StatusNoticePeriod {
		t.Fatalf("expected notice period, got %s", emp.Status)
	}
}

func TestRejectResignationRestoresPreviousStatus(t *testing.T) {
	store := newFakeStore(Employee{ID: "e1", Status: StatusProbation, IsActive: true})
	svc := fixedService(store)
	ctx := context.Background()

	self := auth.UserContext{UserID: "u1", TenantID: "t1", EmployeeID: "e1"}
	if _, err := svc.SubmitResignation(ctx, self, "", nil); err != nil {
		t.Fatalf("submit: %v", err)
	}
	hr := auth.UserContext{UserID: "u-hr", TenantID: "t1", RoleName: auth.RoleHR}
	if _, err := svc.RejectResignation(ctx, hr, "e1", " "); !errors.Is(err, ErrRejectionReasonRequired) {
		t.Fatalf("expected reason required, got %v", err)
	}
	emp, err := svc.RejectResignation(ctx, hr, "e1", "needed on project")
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if emp.Status != StatusProbation || emp.Resignation.Pending() {
		t.Fatalf("unexpected after reject: %+v", emp)
	}
}
