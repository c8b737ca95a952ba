package middleware

import (
	"encoding/json"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RealIP extracts the client's real IP address, preferring Cloudflare's
// CF-Connecting-IP header, then X-Forwarded-For, and falling back to RemoteAddr.
// The headers are client-controlled unless a proxy in front sets or strips
// them, so only use this behind such a proxy.
func RealIP(r *http.Request) string {
	if ip := r.Header.Get("CF-Connecting-IP"); ip != "" {
		return ip
	}
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// First IP in the chain is the original client
		if i := strings.IndexByte(xff, ','); i > 0 {
			return strings.TrimSpace(xff[:i])
		}
		return strings.TrimSpace(xff)
	}
	return RemoteIP(r)
}

// RemoteIP returns the host part of r.RemoteAddr, ignoring forwarding headers.
func RemoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// ClientIP returns RealIP when the server sits behind a trusted proxy and
// RemoteIP otherwise.
func ClientIP(trustProxy bool) func(*http.Request) string {
	if trustProxy {
		return RealIP
	}
	return RemoteIP
}

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per key.
type RateLimiter struct {
	mu      sync.Mutex
	entries map[string]*entry
	limit   rate.Limit
	burst   int
	idle    time.Duration
	now     func() time.Time
}

// NewRateLimiter allows n events per window for each key, with a burst of n.
// Buckets idle for longer than the window are dropped by Cleanup.
func NewRateLimiter(n int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		entries: make(map[string]*entry),
		limit:   rate.Limit(float64(n) / window.Seconds()),
		burst:   n,
		idle:    window,
		now:     time.Now,
	}
}

// Reserve takes a token for key. It returns ok=false and the time until the
// next token when the key is over its limit.
func (rl *RateLimiter) Reserve(key string) (ok bool, retryAfter time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	e, found := rl.entries[key]
	if !found {
		e = &entry{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.entries[key] = e
	}
	e.lastSeen = now

	res := e.limiter.ReserveN(now, 1)
	if !res.OK() {
		return false, rl.idle
	}
	if delay := res.DelayFrom(now); delay > 0 {
		res.CancelAt(now)
		return false, delay
	}
	return true, 0
}

// Allow reports whether key may proceed now.
func (rl *RateLimiter) Allow(key string) bool {
	ok, _ := rl.Reserve(key)
	return ok
}

// Cleanup removes buckets that have not been used for a full window.
func (rl *RateLimiter) Cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-rl.idle)
	for key, e := range rl.entries {
		if e.lastSeen.Before(cutoff) {
			delete(rl.entries, key)
		}
	}
}

// RateLimit returns middleware that rate-limits requests by a key function.
func RateLimit(limiter *RateLimiter, keyFunc func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, retryAfter := limiter.Reserve(keyFunc(r))
			if !ok {
				secs := int(math.Ceil(retryAfter.Seconds()))
				if secs < 1 {
					secs = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(secs))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				json.NewEncoder(w).Encode(map[string]string{"message": "Too many requests"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
