package handlers_test

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"
)

type ticketView struct {
	ID         string `json:"id"`
	Code       string `json:"code"`
	Status     string `json:"status"`
	AssigneeID string `json:"assigneeId"`
	Messages   []struct {
		Body string `json:"body"`
	} `json:"messages"`
}

type notificationView struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	Title string `json:"title"`
}

func listNotifications(t *testing.T, env *testEnv, token string) []notificationView {
	t.Helper()
	resp := env.do(t, http.MethodGet, "/api/notifications?unread=true", token, nil, http.StatusOK)
	var items []notificationView
	decodeData(t, resp, &items)
	return items
}

func hasNotification(items []notificationView, ntype string) bool {
	for _, n := range items {
		if n.Type == ntype {
			return true
		}
	}
	return false
}

func TestTicketLifecycleJourney(t *testing.T) {
	env := setup(t)
	hr := env.createEmployee(t, "HR", nil)
	worker := env.createEmployee(t, "Employee", nil)
	other := env.createEmployee(t, "Employee", nil)

	resp := env.do(t, http.MethodPost, "/api/tickets", worker.Token, map[string]any{
		"subject":     "Laptop will not boot",
		"description": "Black screen since this morning",
		"category":    "IT",
		"priority":    "High",
	}, http.StatusCreated)
	var tk ticketView
	decodeData(t, resp, &tk)
	if !strings.HasPrefix(tk.Code, "TKT-") || tk.Status != "Open" {
		t.Fatalf("unexpected ticket: %+v", tk)
	}

	env.do(t, http.MethodGet, "/api/tickets/"+tk.ID, other.Token, nil, http.StatusNotFound)
	env.do(t, http.MethodPut, "/api/tickets/"+tk.ID+"/assign", worker.Token, map[string]any{"assigneeId": hr.UserID}, http.StatusForbidden)

	resp = env.do(t, http.MethodPut, "/api/tickets/"+tk.ID+"/assign", env.Admin, map[string]any{"assigneeId": hr.UserID}, http.StatusOK)
	decodeData(t, resp, &tk)
	if tk.AssigneeID != hr.UserID {
		t.Fatalf("expected assignee %s, got %+v", hr.UserID, tk)
	}

	env.do(t, http.MethodPost, "/api/tickets/"+tk.ID+"/messages", hr.Token, map[string]any{"body": "Please try a hard reset"}, http.StatusCreated)
	resp = env.do(t, http.MethodPut, "/api/tickets/"+tk.ID+"/status", hr.Token, map[string]any{"status": "Resolved"}, http.StatusOK)
	decodeData(t, resp, &tk)
	if tk.Status != "Resolved" {
		t.Fatalf("expected Resolved, got %+v", tk)
	}
	env.do(t, http.MethodPut, "/api/tickets/"+tk.ID+"/status", hr.Token, map[string]any{"status": "InProgress"}, http.StatusConflict)

	resp = env.do(t, http.MethodGet, "/api/tickets/"+tk.ID, worker.Token, nil, http.StatusOK)
	decodeData(t, resp, &tk)
	if len(tk.Messages) != 1 {
		t.Fatalf("expected one message, got %+v", tk.Messages)
	}

	if !hasNotification(listNotifications(t, env, worker.Token), "ticket_updated") {
		t.Fatal("expected ticket notification for the requester")
	}
}

func TestAnnouncementReachesEmployees(t *testing.T) {
	env := setup(t)
	worker := env.createEmployee(t, "Employee", nil)

	resp := env.do(t, http.MethodPost, "/api/announcements", env.Admin, map[string]any{
		"title":   "Office closed",
		"content": "The office is closed on Friday.",
		"pinned":  true,
	}, http.StatusCreated)
	var ann struct {
		ID     string `json:"id"`
		Pinned bool   `json:"pinned"`
	}
	decodeData(t, resp, &ann)
	if ann.ID == "" || !ann.Pinned {
		t.Fatalf("unexpected announcement: %+v", ann)
	}

	env.do(t, http.MethodPost, "/api/announcements", worker.Token, map[string]any{"title": "x", "content": "y"}, http.StatusForbidden)
	env.do(t, http.MethodPost, "/api/announcements/"+ann.ID+"/read", worker.Token, nil, http.StatusOK)

	resp = env.do(t, http.MethodGet, "/api/announcements/"+ann.ID, worker.Token, nil, http.StatusOK)
	var seen struct {
		Read bool `json:"read"`
	}
	decodeData(t, resp, &seen)
	if !seen.Read {
		t.Fatal("expected announcement marked read")
	}

	items := listNotifications(t, env, worker.Token)
	if !hasNotification(items, "announcement_posted") {
		t.Fatalf("expected announcement notification, got %+v", items)
	}
	env.do(t, http.MethodPost, "/api/notifications/read-all", worker.Token, nil, http.StatusOK)
	if left := listNotifications(t, env, worker.Token); len(left) != 0 {
		t.Fatalf("expected no unread notifications, got %d", len(left))
	}
}

func TestBulkPayrollRunCompletes(t *testing.T) {
	env := setup(t)
	env.createEmployee(t, "Employee", nil)

	resp := env.do(t, http.MethodPost, "/api/payroll/generate-bulk", env.Admin, map[string]any{"month": 1, "year": 2024}, http.StatusAccepted)
	var queued struct {
		RunID string `json:"runId"`
	}
	decodeData(t, resp, &queued)
	if queued.RunID == "" {
		t.Fatal("expected run id")
	}

	deadline := time.Now().Add(30 * time.Second)
	for {
		resp = env.do(t, http.MethodGet, "/api/payroll/runs/"+queued.RunID, env.Admin, nil, http.StatusOK)
		var run struct {
			Status string `json:"status"`
		}
		decodeData(t, resp, &run)
		if run.Status == "completed" {
			return
		}
		if run.Status == "failed" || time.Now().After(deadline) {
			t.Fatalf("bulk run did not complete: %s", run.Status)
		}
		time.Sleep(200 * time.Millisecond)
	}
}

func TestEmployeePagesAreStableForSameName(t *testing.T) {
	env := setup(t)
	surname := fmt.Sprintf("Samename%d", time.Now().UnixNano())
	want := map[string]bool{}
	for i := 0; i < 3; i++ {
		fx := env.createEmployee(t, "Employee", map[string]any{"firstName": "Pat", "lastName": surname})
		want[fx.ID] = true
	}

	seen := map[string]bool{}
	for offset := 0; offset < 3; offset++ {
		resp := env.do(t, http.MethodGet, fmt.Sprintf("/api/employees?q=%s&limit=1&offset=%d", surname, offset), env.Admin, nil, http.StatusOK)
		var page []struct {
			ID string `json:"id"`
		}
		decodeData(t, resp, &page)
		if len(page) != 1 || !want[page[0].ID] || seen[page[0].ID] {
			t.Fatalf("page %d repeated or lost an employee: %+v (seen %v)", offset, page, seen)
		}
		seen[page[0].ID] = true
	}
}
