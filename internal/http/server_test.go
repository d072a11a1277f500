package httpapp

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alphabot-ai/skillswap/internal/auth"
	"github.com/alphabot-ai/skillswap/internal/config"
	"github.com/alphabot-ai/skillswap/internal/store/sqlite"
)

type allowAllLimiter struct{}

func (a allowAllLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, time.Duration) {
	return true, 0
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newRecorderServer(t *testing.T) *Server {
	t.Helper()
	dsn := "file:" + strings.NewReplacer("/", "_").Replace(t.Name()) + "?mode=memory&cache=shared"
	st, err := sqlite.Open(dsn)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	authSvc := auth.NewService(st, "test-secret", time.Hour, time.Minute)
	return NewServer(st, authSvc, allowAllLimiter{}, config.Config{}, discardLogger())
}

func TestHealthAndRequestID(t *testing.T) {
	server := newRecorderServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp := httptest.NewRecorder()
	server.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if resp.Header().Get("X-Request-Id") == "" {
		t.Fatalf("expected generated request id")
	}

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-Id", "req-123")
	resp = httptest.NewRecorder()
	server.ServeHTTP(resp, req)
	if got := resp.Header().Get("X-Request-Id"); got != "req-123" {
		t.Fatalf("expected propagated request id, got %q", got)
	}
}

func TestOpenAPIDocument(t *testing.T) {
	server := newRecorderServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/openapi.json", nil)
	resp := httptest.NewRecorder()
	server.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var doc struct {
		Info struct {
			Title string `json:"title"`
		} `json:"info"`
		Paths map[string]any `json:"paths"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &doc); err != nil {
		t.Fatalf("json parse: %v", err)
	}
	if doc.Info.Title != "SkillSwap API" {
		t.Fatalf("unexpected title %q", doc.Info.Title)
	}
	if _, ok := doc.Paths["/api/admin/users/{id}/ban"]; !ok {
		t.Fatalf("expected ban endpoint to be documented")
	}
}

func TestUnknownRouteAndMethod(t *testing.T) {
	server := newRecorderServer(t)

	resp := httptest.NewRecorder()
	server.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/nope", nil))
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}

	resp = httptest.NewRecorder()
	server.ServeHTTP(resp, httptest.NewRequest(http.MethodPatch, "/api/skills", nil))
	if resp.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", resp.Code)
	}
}

func TestRecoverMiddleware(t *testing.T) {
	server := newRecorderServer(t)
	handler := server.recoverMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
	if strings.Contains(resp.Body.String(), "boom") {
		t.Fatalf("panic value leaked to client: %s", resp.Body.String())
	}
}

func TestUnsupportedAlg(t *testing.T) {
	server := newRecorderServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/challenge", strings.NewReader(`{"alg":"dsa"}`))
	resp := httptest.NewRecorder()
	server.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}
