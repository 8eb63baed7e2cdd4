package handlers_test

import (
	"fmt"
	"net/http"
	"testing"
)

type leaveView struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	CurrentStage string `json:"currentStage"`
	Version      int    `json:"version"`
	TotalDays    int    `json:"totalDays"`
}

// leaveDates returns a date range unlikely to collide with other runs.
func leaveDates(offset int) (string, string) {
	day := int(uniq.Add(1)%20) + 1
	return fmt.Sprintf("2030-%02d-%02d", offset, day), fmt.Sprintf("2030-%02d-%02d", offset, day+2)
}

func applyLeave(t *testing.T, env *testEnv, token string, month int) leaveView {
	t.Helper()
	start, end := leaveDates(month)
	resp := env.do(t, http.MethodPost, "/api/leave", token, map[string]any{
		"leaveType": "Casual",
		"startDate": start,
		"endDate":   end,
		"reason":    "Family trip",
	}, http.StatusCreated)
	var lv leaveView
	decodeData(t, resp, &lv)
	return lv
}

func TestLeaveMovesThroughTeamLeadAndManager(t *testing.T) {
	env := setup(t)
	manager := env.createEmployee(t, "Manager", nil)
	lead := env.createEmployee(t, "TeamLead", map[string]any{"managerId": manager.ID})
	worker := env.createEmployee(t, "Employee", map[string]any{"teamLeadId": lead.ID, "managerId": manager.ID})

	lv := applyLeave(t, env, worker.Token, 3)
	if lv.Status != "Pending" || lv.CurrentStage != "TeamLead" || lv.TotalDays != 3 {
		t.Fatalf("unexpected new leave: %+v", lv)
	}

	env.do(t, http.MethodPut, "/api/leave/"+lv.ID+"/approve", worker.Token, map[string]any{}, http.StatusForbidden)

	resp := env.do(t, http.MethodPut, "/api/leave/"+lv.ID+"/approve", lead.Token, map[string]any{"comment": "ok"}, http.StatusOK)
	decodeData(t, resp, &lv)
	if lv.Status != "Pending" || lv.CurrentStage != "Manager" {
		t.Fatalf("expected manager stage, got %+v", lv)
	}

	env.do(t, http.MethodPut, "/api/leave/"+lv.ID+"/approve", lead.Token, map[string]any{}, http.StatusForbidden)

	resp = env.do(t, http.MethodPut, "/api/leave/"+lv.ID+"/approve", manager.Token, map[string]any{}, http.StatusOK)
	decodeData(t, resp, &lv)
	if lv.Status != "Approved" || lv.CurrentStage != "Completed" {
		t.Fatalf("expected completed approval, got %+v", lv)
	}

	env.do(t, http.MethodPut, "/api/leave/"+lv.ID+"/approve", env.Admin, map[string]any{}, http.StatusConflict)

	resp = env.do(t, http.MethodGet, "/api/leave/"+lv.ID, worker.Token, nil, http.StatusOK)
	decodeData(t, resp, &lv)
	if lv.Status != "Approved" {
		t.Fatalf("expected applicant to see approval, got %+v", lv)
	}
}

func TestLeaveRejectRequiresReason(t *testing.T) {
	env := setup(t)
	worker := env.createEmployee(t, "Employee", nil)
	lv := applyLeave(t, env, worker.Token, 4)

	resp := env.do(t, http.MethodPut, "/api/leave/"+lv.ID+"/reject", env.Admin, map[string]any{"rejectionReason": "  "}, http.StatusBadRequest)
	assertIssue(t, resp, "rejectionReason")

	resp = env.do(t, http.MethodPut, "/api/leave/"+lv.ID+"/reject", env.Admin, map[string]any{"rejectionReason": "Peak season"}, http.StatusOK)
	decodeData(t, resp, &lv)
	if lv.Status != "Rejected" || lv.CurrentStage != "Completed" {
		t.Fatalf("expected rejection, got %+v", lv)
	}
}

func TestLeaveOverlapIsRejected(t *testing.T) {
	env := setup(t)
	worker := env.createEmployee(t, "Employee", nil)
	env.do(t, http.MethodPost, "/api/leave", worker.Token, map[string]any{
		"leaveType": "Sick",
		"startDate": "2030-06-10",
		"endDate":   "2030-06-12",
	}, http.StatusCreated)
	env.do(t, http.MethodPost, "/api/leave", worker.Token, map[string]any{
		"leaveType": "Casual",
		"startDate": "2030-06-12",
		"endDate":   "2030-06-14",
	}, http.StatusConflict)
}

func TestLeaveHiddenFromUnrelatedEmployee(t *testing.T) {
	env := setup(t)
	worker := env.createEmployee(t, "Employee", nil)
	other := env.createEmployee(t, "Employee", nil)
	lv := applyLeave(t, env, worker.Token, 5)

	env.do(t, http.MethodGet, "/api/leave/"+lv.ID, other.Token, nil, http.StatusNotFound)
}
