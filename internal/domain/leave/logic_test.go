package leave

import (
	"errors"
	"testing"
	"time"

	"peoplehub/internal/domain/auth"
)

func TestTransitionTable(t *testing.T) {
	cases := []struct {
		stage      Stage
		action     Action
		wantStage  Stage
		wantStatus string
		wantErr    error
	}{
		{StageTeamLead, ActionApprove, StageManager, StatusPending, nil},
		{StageTeamLead, ActionReject, StageCompleted, StatusRejected, nil},
		{StageManager, ActionApprove, StageCompleted, StatusApproved, nil},
		{StageManager, ActionReject, StageCompleted, StatusRejected, nil},
		{StageHR, ActionApprove, StageCompleted, StatusApproved, nil},
		{StageHR, ActionReject, StageCompleted, StatusRejected, nil},
		{StageCompleted, ActionApprove, StageCompleted, "", ErrAlreadyCompleted},
		{StageCompleted, ActionReject, StageCompleted, "", ErrAlreadyCompleted},
		{Stage("Director"), ActionApprove, Stage("Director"), "", ErrUnknownStage},
	}
	for _, tc := range cases {
		stage, status, err := Transition(tc.stage, tc.action)
		if stage != tc.wantStage || status != tc.wantStatus || !errors.Is(err, tc.wantErr) {
			t.Fatalf("%s/%s: got (%s, %q, %v)", tc.stage, tc.action, stage, status, err)
		}
	}
}

func TestTotalDays(t *testing.T) {
	start := time.Date(2026, 3, 30, 0, 0, 0, 0, time.UTC)
	if got := TotalDays(start, start); got != 1 {
		t.Fatalf("expected 1, got %d", got)
	}
	if got := TotalDays(start, time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)); got != 4 {
		t.Fatalf("expected 4 across month end, got %d", got)
	}
}

func TestCanDecide(t *testing.T) {
	rel := Relations{EmployeeID: "e1", TeamLeadID: "tl", ManagerID: "mg"}
	teamLead := auth.UserContext{EmployeeID: "tl", RoleName: auth.RoleTeamLead}
	otherLead := auth.UserContext{EmployeeID: "tl2", RoleName: auth.RoleTeamLead}
	manager := auth.UserContext{EmployeeID: "mg", RoleName: auth.RoleManager}
	otherManager := auth.UserContext{EmployeeID: "mg2", RoleName: auth.RoleManager}
	hr := auth.UserContext{EmployeeID: "hr", RoleName: auth.RoleHR}
	self := auth.UserContext{EmployeeID: "e1", RoleName: auth.RoleHR}

	cases := []struct {
		name  string
		actor auth.UserContext
		stage Stage
		want  error
	}{
		{"team lead at tl stage", teamLead, StageTeamLead, nil},
		{"other lead at tl stage", otherLead, StageTeamLead, ErrNotStageApprover},
		{"any manager at tl stage", otherManager, StageTeamLead, nil},
		{"team lead at manager stage", teamLead, StageManager, ErrNotStageApprover},
		{"own manager at manager stage", manager, StageManager, nil},
		{"other manager at manager stage", otherManager, StageManager, ErrNotStageApprover},
		{"hr at hr stage", hr, StageHR, nil},
		{"manager at hr stage", manager, StageHR, ErrNotStageApprover},
		{"own leave", self, StageManager, ErrOwnLeave},
	}
	for _, tc := range cases {
		if err := CanDecide(tc.actor, tc.stage, rel); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestEffectiveScope(t *testing.T) {
	employee := auth.UserContext{EmployeeID: "e1", RoleName: auth.RoleEmployee}
	lead := auth.UserContext{EmployeeID: "tl", RoleName: auth.RoleTeamLead}
	admin := auth.UserContext{RoleName: auth.RoleAdmin}

	if got := EffectiveScope(employee, ScopeAll); got != ScopeSelf {
		t.Fatalf("employee widened to %s", got)
	}
	if got := EffectiveScope(lead, ""); got != ScopeTeam {
		t.Fatalf("expected team default for lead, got %s", got)
	}
	if got := EffectiveScope(lead, ScopeSelf); got != ScopeSelf {
		t.Fatalf("expected lead to narrow to self, got %s", got)
	}
	if got := EffectiveScope(admin, ScopeSelf); got != ScopeAll {
		t.Fatalf("admin without profile should see all, got %s", got)
	}
}
