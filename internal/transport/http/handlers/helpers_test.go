package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"peoplehub/internal/app/server"
	"peoplehub/internal/platform/config"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Errors []struct {
		Field  string `json:"field"`
		Reason string `json:"reason"`
	} `json:"errors"`
}

type testEnv struct {
	App    *server.App
	Server *httptest.Server
	Client *http.Client
	Admin  string
	Config config.Config
}

var uniq atomic.Int64

func uniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%d-%d@example.com", prefix, time.Now().UnixNano(), uniq.Add(1))
}

func testConfig(t *testing.T, dbURL string) config.Config {
	return config.Config{
		DatabaseURL:        dbURL,
		JWTSecret:          "test-secret",
		FrontendDir:        "frontend/dist",
		Environment:        "test",
		SeedTenantName:     "Test Tenant",
		SeedAdminEmail:     "admin@test.local",
		SeedAdminPassword:  "ChangeMe123!",
		EmailFrom:          "no-reply@test.local",
		RunMigrations:      true,
		RunSeed:            true,
		MigrationsDir:      filepath.Join("..", "..", "..", "..", "migrations"),
		MaxBodyBytes:       1048576,
		RateLimitPerMinute: 1000,
		AccessTokenTTL:     15 * time.Minute,
		RefreshTokenTTL:    24 * time.Hour,
		StorageDriver:      "local",
		StorageDir:         t.TempDir(),
		OTELServiceName:    "peoplehub-test",
		MetricsEnabled:     true,
	}
}

func setup(t *testing.T) *testEnv {
	t.Helper()
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	cfg := testConfig(t, dbURL)
	app, err := server.New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("failed to start app: %v", err)
	}
	t.Cleanup(app.Close)

	jobsCtx, cancel := context.WithCancel(context.Background())
	app.Jobs.Start(jobsCtx)
	t.Cleanup(cancel)

	ts := httptest.NewServer(app.Router)
	t.Cleanup(ts.Close)

	env := &testEnv{App: app, Server: ts, Client: ts.Client(), Config: cfg}
	env.Admin = env.login(t, cfg.SeedAdminEmail, cfg.SeedAdminPassword)
	return env
}

func (e *testEnv) login(t *testing.T, email, password string) string {
	t.Helper()
	token, _ := e.session(t, email, password)
	return token
}

// session signs in and returns the access token with the user id.
func (e *testEnv) session(t *testing.T, email, password string) (string, string) {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{
		"email":    email,
		"password": password,
	}, http.StatusOK)
	var payload struct {
		AccessToken string `json:"accessToken"`
		User        struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	decodeData(t, resp, &payload)
	if payload.AccessToken == "" {
		t.Fatal("expected access token")
	}
	return payload.AccessToken, payload.User.ID
}

type employeeFixture struct {
	ID       string
	UserID   string
	Email    string
	Password string
	Token    string
}

// createEmployee creates an employee with a login and signs them in.
func (e *testEnv) createEmployee(t *testing.T, role string, extra map[string]any) employeeFixture {
	t.Helper()
	fx := employeeFixture{Email: uniqueEmail(role), Password: "Password123!"}
	body := map[string]any{
		"firstName":     "Test",
		"lastName":      role,
		"email":         fx.Email,
		"department":    "Engineering",
		"designation":   role,
		"dateOfJoining": "2024-01-01",
		"basicSalary":   30000,
		"allowances":    5000,
		"password":      fx.Password,
		"role":          role,
	}
	for k, v := range extra {
		body[k] = v
	}
	resp := e.do(t, http.MethodPost, "/api/employees", e.Admin, body, http.StatusCreated)
	var emp struct {
		ID string `json:"id"`
	}
	decodeData(t, resp, &emp)
	if emp.ID == "" {
		t.Fatal("expected employee id")
	}
	fx.ID = emp.ID
	fx.Token, fx.UserID = e.session(t, fx.Email, fx.Password)
	return fx
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any, want int) envelope {
	t.Helper()
	return e.doWithHeaders(t, method, path, token, body, nil, want)
}

func (e *testEnv) doWithHeaders(t *testing.T, method, path, token string, body any, headers map[string]string, want int) envelope {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, e.Server.URL+path, reader)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := e.Client.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response: %v", err)
	}
	if resp.StatusCode != want {
		t.Fatalf("%s %s: expected status %d, got %d: %s", method, path, want, resp.StatusCode, string(raw))
	}
	var env envelope
	if len(raw) > 0 && resp.Header.Get("Content-Type") == "application/json" {
		if err := json.Unmarshal(raw, &env); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
	}
	return env
}

func decodeData(t *testing.T, env envelope, dst any) {
	t.Helper()
	if err := json.Unmarshal(env.Data, dst); err != nil {
		t.Fatalf("failed to decode data: %v", err)
	}
}

func assertIssue(t *testing.T, env envelope, field string) {
	t.Helper()
	for _, issue := range env.Errors {
		if issue.Field == field {
			return
		}
	}
	t.Fatalf("expected validation issue for %q, got %+v", field, env.Errors)
}
