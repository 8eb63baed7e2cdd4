package adminhandler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"peoplehub/internal/domain/auth"
	"peoplehub/internal/platform/jobs"
	"peoplehub/internal/platform/metrics"
	"peoplehub/internal/transport/http/middleware"
)

type rolePerms map[string]bool

func (p rolePerms) HasPermission(_ context.Context, roleID, _ string) (bool, error) {
	return p[roleID], nil
}

func router(collector *metrics.Collector, roleID string) http.Handler {
	h := NewHandler(collector, jobs.New(nil), map[string]jobs.TenantFunc{}, rolePerms{"admin": true}, nil)
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			user := auth.UserContext{UserID: "u1", TenantID: "t1", RoleID: roleID, RoleName: auth.RoleAdmin}
			next.ServeHTTP(w, req.WithContext(middleware.WithUser(req.Context(), user)))
		})
	})
	h.RegisterRoutes(r)
	return r
}

func TestMetricsSnapshot(t *testing.T) {
	collector := metrics.New()
	collector.Record(http.StatusOK, 20*time.Millisecond)
	collector.Inc(metrics.LeaveDecisions)

	rec := httptest.NewRecorder()
	router(collector, "admin").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var env struct {
		Data map[string]any `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Data["requestsTotal"] != float64(1) {
		t.Fatalf("unexpected snapshot: %+v", env.Data)
	}
}

func TestMetricsDisabled(t *testing.T) {
	rec := httptest.NewRecorder()
	router(nil, "admin").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/metrics", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestTriggerUnknownJob(t *testing.T) {
	rec := httptest.NewRecorder()
	router(metrics.New(), "admin").ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/jobs/reindex", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestAdminRoutesForbiddenWithoutPermission(t *testing.T) {
	rec := httptest.NewRecorder()
	router(metrics.New(), "employee").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/metrics", nil))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}
