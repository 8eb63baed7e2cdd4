package employee

import (
	"testing"
	"time"
)

func TestFullName(t *testing.T) {
	if got := FullName("  Asha ", " Rao "); got != "Asha Rao" {
		t.Fatalf("unexpected full name %q", got)
	}
	if got := FullName("Asha", ""); got != "Asha" {
		t.Fatalf("unexpected single name %q", got)
	}
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to, previous string
		want               bool
	}{
		{StatusIntern, StatusProbation, "", true},
		{StatusIntern, StatusNoticePeriod, "", false},
		{StatusProbation, StatusConfirmed, "", true},
		{StatusProbation, StatusRelieved, "", false},
		{StatusConfirmed, StatusResignationSubmitted, "", true},
		{StatusResignationSubmitted, StatusNoticePeriod, StatusConfirmed, true},
		{StatusResignationSubmitted, StatusConfirmed, StatusConfirmed, true},
		{StatusResignationSubmitted, StatusProbation, StatusConfirmed, false},
		{StatusNoticePeriod, StatusExitProcess, "", true},
		{StatusExitProcess, StatusRelieved, "", true},
		{StatusRelieved, StatusConfirmed, "", false},
		{StatusTerminated, StatusProbation, "", false},
		{StatusConfirmed, StatusConfirmed, "", false},
	}
	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to, tc.previous); got != tc.want {
			t.Fatalf("%s -> %s (prev %q): expected %v, got %v", tc.from, tc.to, tc.previous, tc.want, got)
		}
	}
}

func TestResignationNeedsBothFlags(t *testing.T) {
	res := &Resignation{PreviousStatus: StatusConfirmed}
	now := time.Now()
	if res.Approve(ApproverTeamLead, "tl-user", now) {
		t.Fatal("expected team lead approval alone to be insufficient")
	}
	if !res.Pending() {
		t.Fatal("expected resignation to still be pending")
	}
	if !res.Approve(ApproverManager, "mgr-user", now) {
		t.Fatal("expected both approvals to complete the resignation")
	}
	if res.Pending() {
		t.Fatal("expected resignation to be decided")
	}
}

func TestRejectedResignationIsNotPending(t *testing.T) {
	res := &Resignation{}
	res.Reject("mgr-user", "needed for release", time.Now())
	if res.Pending() {
		t.Fatal("expected rejected resignation to be decided")
	}
}
