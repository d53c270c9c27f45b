package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type stubLimiter struct {
	allowed bool
	count   int64
	err     error
	scope   string
}

func (s *stubLimiter) FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error) {
	s.scope = scope
	return s.allowed, s.count, s.err
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimitPassthroughWithoutStore(t *testing.T) {
	handler := RateLimit(NewRateLimitPolicy(time.Minute, 10), nil, nil)(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/dashboard", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected passthrough, got %d", rec.Code)
	}
}

func TestRateLimitAllows(t *testing.T) {
	store := &stubLimiter{allowed: true, count: 1}
	handler := RateLimit(NewRateLimitPolicy(time.Minute, 10), store, nil)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	req.RemoteAddr = "203.0.113.9:4411"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if store.scope != "ip:203.0.113.9" {
		t.Fatalf("unexpected scope %q", store.scope)
	}
}

func TestRateLimitBlocks(t *testing.T) {
	store := &stubLimiter{allowed: false, count: 11}
	handler := RateLimit(NewRateLimitPolicy(time.Minute, 10), store, nil)(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/dashboard", nil))

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
}

func TestClientIPPrefersForwardedFor(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:1000"
	req.Header.Set("X-Forwarded-For", "198.51.100.7, 10.0.0.1")

	if got := clientIP(req); got != "198.51.100.7" {
		t.Fatalf("expected first forwarded hop, got %q", got)
	}
}
