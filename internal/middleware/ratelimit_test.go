package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestLimiter(n int, window time.Duration) (*RateLimiter, *time.Time) {
	rl := NewRateLimiter(n, window)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }
	return rl, &now
}

func TestRateLimiterAllow(t *testing.T) {
	rl, _ := newTestLimiter(5, time.Minute)

	for i := 0; i < 5; i++ {
		if !rl.Allow("key") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}

	if rl.Allow("key") {
		t.Error("6th request should be denied")
	}
	if !rl.Allow("other") {
		t.Error("other key should have its own bucket")
	}
}

func TestRateLimiterRefill(t *testing.T) {
	rl, now := newTestLimiter(3, 3*time.Second)

	for i := 0; i < 3; i++ {
		rl.Allow("key")
	}

	ok, retry := rl.Reserve("key")
	if ok {
		t.Fatal("should be blocked within window")
	}
	if retry <= 0 || retry > time.Second {
		t.Errorf("retryAfter = %v, want (0, 1s]", retry)
	}

	*now = now.Add(time.Second)

	if !rl.Allow("key") {
		t.Error("should be allowed after one token refills")
	}
	if rl.Allow("key") {
		t.Error("only one token should have refilled")
	}
}

func TestRateLimiterDeniedRequestsDoNotConsume(t *testing.T) {
	rl, now := newTestLimiter(1, time.Second)

	rl.Allow("key")
	for i := 0; i < 10; i++ {
		rl.Allow("key")
	}
	*now = now.Add(time.Second)
	if !rl.Allow("key") {
		t.Error("denied requests should not push the next token further out")
	}
}

func TestRateLimiterCleanup(t *testing.T) {
	rl, now := newTestLimiter(5, time.Minute)

	rl.Allow("expired")
	*now = now.Add(2 * time.Minute)
	rl.Allow("active")

	rl.Cleanup()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if _, ok := rl.entries["expired"]; ok {
		t.Error("expired entry should have been cleaned up")
	}
	if _, ok := rl.entries["active"]; !ok {
		t.Error("active entry should still exist")
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	rl, _ := newTestLimiter(2, time.Minute)
	keyFunc := func(r *http.Request) string { return "test" }

	handler := RateLimit(rl, keyFunc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// First 2 requests should pass
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest("POST", "/", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("request %d: status = %d, want %d", i+1, rec.Code, http.StatusOK)
		}
	}

	// 3rd request should be rate limited
	req := httptest.NewRequest("POST", "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("3rd request: status = %d, want %d", rec.Code, http.StatusTooManyRequests)
	}
	if ra := rec.Header().Get("Retry-After"); ra != "30" {
		t.Errorf("Retry-After = %q, want %q", ra, "30")
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
}

func TestRealIP(t *testing.T) {
	tests := []struct {
		name   string
		header map[string]string
		remote string
		want   string
	}{
		{"cloudflare", map[string]string{"CF-Connecting-IP": "1.1.1.1", "X-Forwarded-For": "2.2.2.2"}, "3.3.3.3:1", "1.1.1.1"},
		{"forwarded chain", map[string]string{"X-Forwarded-For": "2.2.2.2, 10.0.0.1"}, "3.3.3.3:1", "2.2.2.2"},
		{"remote addr", nil, "3.3.3.3:1234", "3.3.3.3"},
		{"remote without port", nil, "3.3.3.3", "3.3.3.3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}
			if got := RealIP(req); got != tt.want {
				t.Errorf("RealIP = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "3.3.3.3:1234"
	req.Header.Set("X-Forwarded-For", "2.2.2.2")
	req.Header.Set("CF-Connecting-IP", "1.1.1.1")

	if got := ClientIP(false)(req); got != "3.3.3.3" {
		t.Errorf("untrusted ClientIP = %q, want remote addr", got)
	}
	if got := ClientIP(true)(req); got != "1.1.1.1" {
		t.Errorf("trusted ClientIP = %q, want CF-Connecting-IP", got)
	}
}

func TestRateLimitIgnoresSpoofedHeaders(t *testing.T) {
	rl, _ := newTestLimiter(2, time.Minute)
	handler := RateLimit(rl, ClientIP(false))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	var last int
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest("POST", "/", nil)
		req.RemoteAddr = "3.3.3.3:1234"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("10.0.0.%d", i))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		last = rec.Code
	}
	if last != http.StatusTooManyRequests {
		t.Errorf("3rd request with rotated header: status = %d, want 429", last)
	}
}
