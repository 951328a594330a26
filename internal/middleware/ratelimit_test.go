package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestRateLimiterAllowWithinBudget(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute, zap.NewNop())

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow("10.0.0.1"), "request %d should be allowed", i+1)
	}
	assert.False(t, rl.Allow("10.0.0.1"))

	// Other clients have their own counters.
	assert.True(t, rl.Allow("10.0.0.2"))
}

func TestRateLimiterWindowRollover(t *testing.T) {
	now := time.Now()
	rl := NewRateLimiter(1, time.Minute, zap.NewNop())
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("10.0.0.1"))
	assert.False(t, rl.Allow("10.0.0.1"))

	now = now.Add(time.Minute)
	assert.True(t, rl.Allow("10.0.0.1"), "counter must reset on window rollover")
}

func TestRateLimiterConcurrentIncrements(t *testing.T) {
	const limit = 100
	rl := NewRateLimiter(limit, time.Minute, zap.NewNop())

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0

	for i := 0; i < limit*2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if rl.Allow("10.0.0.1") {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, limit, allowed)
}

func TestRateLimiterHandlerRejectsWith429(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute, zap.NewNop())

	backendHits := 0
	handler := rl.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		backendHits++
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	req.RemoteAddr = "10.0.0.5:40000"

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, 1, backendHits)
}

func TestRateLimiterCleanupDropsStaleWindows(t *testing.T) {
	now := time.Now()
	rl := NewRateLimiter(1, time.Minute, zap.NewNop())
	rl.now = func() time.Time { return now }

	rl.Allow("10.0.0.1")
	rl.Allow("10.0.0.2")

	now = now.Add(2 * time.Minute)
	rl.cleanup()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.Empty(t, rl.windows)
}
