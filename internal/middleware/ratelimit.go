package middleware

import (
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/sonalikodikara/cloudretail/internal/errors"
	"github.com/sonalikodikara/cloudretail/internal/httputil"
)

// RateLimiter enforces a fixed-window request budget per client address.
// Counters increment atomically and reset when the window rolls over.
type RateLimiter struct {
	mu      sync.Mutex
	windows map[string]*clientWindow
	limit   int64
	window  time.Duration
	logger  *zap.Logger

	now func() time.Time
}

type clientWindow struct {
	start time.Time
	count atomic.Int64
}

// NewRateLimiter creates a limiter allowing limit requests per window.
func NewRateLimiter(limit int, window time.Duration, logger *zap.Logger) *RateLimiter {
	return &RateLimiter{
		windows: make(map[string]*clientWindow),
		limit:   int64(limit),
		window:  window,
		logger:  logger,
		now:     time.Now,
	}
}

// Allow records one request for key and reports whether it is within budget.
func (rl *RateLimiter) Allow(key string) bool {
	now := rl.now()

	rl.mu.Lock()
	w, ok := rl.windows[key]
	if !ok || now.Sub(w.start) >= rl.window {
		w = &clientWindow{start: now}
		rl.windows[key] = w
	}
	rl.mu.Unlock()

	return w.count.Add(1) <= rl.limit
}

// Handler returns the rate limiting middleware handler.
func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := clientAddr(r)

		if !rl.Allow(key) {
			rl.logger.Warn("rate limit exceeded",
				zap.String("client", key),
				zap.String("path", r.URL.Path),
				zap.String("method", r.Method),
			)
			httputil.WriteError(w, r, errors.RateLimitExceeded(int(rl.limit), rl.window.String()))
			return
		}

		next.ServeHTTP(w, r)
	})
}

// StartCleanup periodically drops windows that have rolled over, bounding
// memory for long-running processes.
func (rl *RateLimiter) StartCleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		for range ticker.C {
			rl.cleanup()
		}
	}()
}

func (rl *RateLimiter) cleanup() {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for key, w := range rl.windows {
		if now.Sub(w.start) >= rl.window {
			delete(rl.windows, key)
		}
	}
}

// clientAddr extracts the client address used as the limiter key.
func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
