package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type keyedLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// limiterSet hands out one token bucket per key. Stale entries are cleaned
// up every 10 minutes to prevent unbounded memory growth.
type limiterSet struct {
	mu       sync.Mutex
	limiters map[string]*keyedLimiter
	limit    rate.Limit
	burst    int
}

func newLimiterSet(ctx context.Context, requestsPerSecond float64, burst int) *limiterSet {
	s := &limiterSet{
		limiters: make(map[string]*keyedLimiter),
		limit:    rate.Limit(requestsPerSecond),
		burst:    burst,
	}

	// Background cleanup of stale limiters.
	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.evict(time.Now().Add(-30 * time.Minute))
			case <-ctx.Done():
				return
			}
		}
	}()

	return s
}

func (s *limiterSet) allow(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	kl, ok := s.limiters[key]
	if !ok {
		kl = &keyedLimiter{limiter: rate.NewLimiter(s.limit, s.burst)}
		s.limiters[key] = kl
	}
	kl.lastAccess = time.Now()
	return kl.limiter.Allow()
}

func (s *limiterSet) evict(cutoff time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, kl := range s.limiters {
		if kl.lastAccess.Before(cutoff) {
			delete(s.limiters, key)
		}
	}
}

func tooManyRequests(w http.ResponseWriter) {
	http.Error(w, `{"title":"Too Many Requests","status":429,"detail":"rate limit exceeded"}`, http.StatusTooManyRequests)
}

// RateLimitByIP applies per-IP rate limiting for the public API. Uses chi's
// RealIP middleware value via r.RemoteAddr.
func RateLimitByIP(ctx context.Context, requestsPerSecond float64, burst int) func(http.Handler) http.Handler {
	set := newLimiterSet(ctx, requestsPerSecond, burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !set.allow(r.RemoteAddr) {
				tooManyRequests(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RateLimit applies per-workspace rate limiting. Requests without a
// workspace in context pass through.
func RateLimit(ctx context.Context, requestsPerSecond float64, burst int) func(http.Handler) http.Handler {
	set := newLimiterSet(ctx, requestsPerSecond, burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			workspaceID, ok := WorkspaceIDFromContext(r.Context())
			if !ok {
				// No workspace in context; skip rate limiting.
				next.ServeHTTP(w, r)
				return
			}

			if !set.allow(workspaceID) {
				tooManyRequests(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
