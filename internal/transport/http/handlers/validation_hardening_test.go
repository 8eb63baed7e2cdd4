package handlers_test

import (
	"net/http"
	"testing"
)

func TestHighRiskEndpointsReturnValidationErrors(t *testing.T) {
	env := setup(t)

	resp := env.do(t, http.MethodPost, "/api/leave", env.Admin, map[string]any{
		"leaveType": "Holiday",
		"startDate": "2030-02-10",
		"endDate":   "2030-02-01",
	}, http.StatusBadRequest)
	assertIssue(t, resp, "leaveType")
	assertIssue(t, resp, "endDate")

	resp = env.do(t, http.MethodPost, "/api/payroll/generate", env.Admin, map[string]any{
		"employeeId": "not-an-id",
		"month":      13,
		"year":       2025,
	}, http.StatusBadRequest)
	assertIssue(t, resp, "employeeId")
	assertIssue(t, resp, "month")

	resp = env.do(t, http.MethodPost, "/api/employees", env.Admin, map[string]any{
		"firstName":     "",
		"email":         "nope",
		"dateOfJoining": "2024-01-01",
	}, http.StatusBadRequest)
	assertIssue(t, resp, "firstName")
	assertIssue(t, resp, "email")

	env.do(t, http.MethodPost, "/api/employees", env.Admin, map[string]any{
		"firstName": "Unknown",
		"surprise":  true,
	}, http.StatusBadRequest)
}

func TestProtectedRoutesRequireAuthentication(t *testing.T) {
	env := setup(t)
	for _, path := range []string{"/api/employees", "/api/leave", "/api/payroll/me", "/api/notifications", "/api/tickets"} {
		env.do(t, http.MethodGet, path, "", nil, http.StatusUnauthorized)
	}
	env.do(t, http.MethodGet, "/api/employees", "not-a-token", nil, http.StatusUnauthorized)
}

func TestAdminRoutesRequireSystemPermission(t *testing.T) {
	env := setup(t)
	hr := env.createEmployee(t, "HR", nil)

	env.do(t, http.MethodGet, "/api/admin/metrics", hr.Token, nil, http.StatusForbidden)
	env.do(t, http.MethodGet, "/api/admin/metrics", env.Admin, nil, http.StatusOK)
	env.do(t, http.MethodPost, "/api/admin/jobs/unknown", env.Admin, nil, http.StatusNotFound)
	env.do(t, http.MethodGet, "/api/audit", hr.Token, nil, http.StatusOK)
}
