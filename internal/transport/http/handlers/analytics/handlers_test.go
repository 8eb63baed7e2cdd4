package analyticshandler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"peoplehub/internal/domain/analytics"
	"peoplehub/internal/domain/auth"
	"peoplehub/internal/transport/http/middleware"
)

type allowAll struct{}

func (allowAll) HasPermission(context.Context, string, string) (bool, error) { return true, nil }

func newRouter() http.Handler {
	h := NewHandler(analytics.NewService(nil, nil), allowAll{}, nil, nil)
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			user := auth.UserContext{UserID: "u1", TenantID: "t1", RoleID: "r1", RoleName: auth.RoleAdmin}
			next.ServeHTTP(w, req.WithContext(middleware.WithUser(req.Context(), user)))
		})
	})
	h.RegisterRoutes(r)
	return r
}

func serve(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	newRouter().ServeHTTP(rec, req)
	return rec
}

func TestSnapshotsUnavailableWithoutArchive(t *testing.T) {
	if rec := serve(t, http.MethodGet, "/analytics/snapshots", ""); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("list: expected 503, got %d", rec.Code)
	}
	rec := serve(t, http.MethodPost, "/analytics/snapshots", `{"label":"q1"}`)
	if rec.Code != http.StatusServiceUnavailable || !strings.Contains(rec.Body.String(), "snapshots_disabled") {
		t.Fatalf("create: expected snapshots_disabled, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestReportRejectsUnknownNameAndBadRange(t *testing.T) {
	if rec := serve(t, http.MethodGet, "/analytics/sales", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown report, got %d", rec.Code)
	}
	rec := serve(t, http.MethodGet, "/analytics/workforce?startDate=2025-02-10&endDate=2025-02-01", "")
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), "endDate") {
		t.Fatalf("expected range validation error, got %d %s", rec.Code, rec.Body.String())
	}
	rec = serve(t, http.MethodGet, "/analytics/workforce?startDate=02/10/2025", "")
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), "startDate") {
		t.Fatalf("expected date format error, got %d %s", rec.Code, rec.Body.String())
	}
}
