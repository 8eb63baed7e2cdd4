package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"peoplehub/internal/domain/auth"
)

type memoryIdempotency struct {
	hashes    map[string]string
	responses map[string]json.RawMessage
}

func newMemoryIdempotency() *memoryIdempotency {
	return &memoryIdempotency{hashes: map[string]string{}, responses: map[string]json.RawMessage{}}
}

func (m *memoryIdempotency) Check(_ context.Context, _, _, _, key, hash string) (json.RawMessage, bool, error) {
	stored, ok := m.hashes[key]
	if !ok {
		return nil, false, nil
	}
	if stored != hash {
		return nil, false, ErrIdempotencyConflict
	}
	return m.responses[key], true, nil
}

func (m *memoryIdempotency) Save(_ context.Context, _, _, _, key, hash string, response json.RawMessage) error {
	m.hashes[key] = hash
	m.responses[key] = response
	return nil
}

func TestRequestHashDeterministic(t *testing.T) {
	if RequestHash([]byte("payload")) != RequestHash([]byte("payload")) {
		t.Fatal("expected deterministic hash")
	}
	if RequestHash([]byte("payload")) == RequestHash([]byte("other")) {
		t.Fatal("expected different hash for different payload")
	}
}

func TestIdempotentReplaysAndRejectsMismatch(t *testing.T) {
	calls := 0
	handler := Idempotent(newMemoryIdempotency(), "payroll.generate")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	ctx := WithUser(context.Background(), auth.UserContext{TenantID: "t1", UserID: "u1"})

	send := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/payroll/generate", bytes.NewBufferString(body)).WithContext(ctx)
		req.Header.Set(IdempotencyHeader, "key-1")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	first := send(`{"month":12}`)
	second := send(`{"month":12}`)
	if calls != 1 {
		t.Fatalf("expected handler to run once, ran %d", calls)
	}
	if second.Code != http.StatusCreated || second.Header().Get("Idempotent-Replayed") != "true" {
		t.Fatalf("expected replay, got %d", second.Code)
	}
	if first.Body.String() == "" || second.Body.String() != `{"success":true}` {
		t.Fatalf("unexpected replay body %q", second.Body.String())
	}

	third := send(`{"month":11}`)
	if third.Code != http.StatusConflict {
		t.Fatalf("expected conflict on key reuse, got %d", third.Code)
	}
}
