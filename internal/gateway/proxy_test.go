package gateway

import (
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sonalikodikara/cloudretail/internal/config"
	"github.com/sonalikodikara/cloudretail/internal/httputil"
	"github.com/sonalikodikara/cloudretail/internal/metrics"
)

// backendRecorder is a downstream stub capturing what the gateway forwards.
type backendRecorder struct {
	hits      atomic.Int64
	lastPath  atomic.Value
	lastReqID atomic.Value
}

func (b *backendRecorder) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.hits.Add(1)
		b.lastPath.Store(r.URL.Path)
		b.lastReqID.Store(r.Header.Get(httputil.RequestIDHeader))
		w.Header().Set("X-Backend", "catalog")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
}

func newTestHandler(t *testing.T, rules []Rule, timeout time.Duration) http.Handler {
	t.Helper()
	cfg := &config.Gateway{
		ProxyTimeout:    timeout,
		RateLimitWindow: time.Minute,
		RateLimitMax:    1000,
	}
	return NewHandler(cfg, NewTable(rules), metrics.New("gateway-test"), zap.NewNop())
}

func TestProxyRewriteAndForward(t *testing.T) {
	backend := &backendRecorder{}
	srv := httptest.NewServer(backend.handler())
	defer srv.Close()

	handler := newTestHandler(t, []Rule{
		{Prefix: "/products", Target: srv.URL, Rewrite: "/api", AuthRequired: true},
	}, time.Second)

	req := httptest.NewRequest(http.MethodGet, "/products/products", nil)
	req.Header.Set("Authorization", "Bearer token-1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1), backend.hits.Load())
	assert.Equal(t, "/api/products", backend.lastPath.Load())
	assert.Equal(t, `{"ok":true}`, rec.Body.String())
	assert.Equal(t, "catalog", rec.Header().Get("X-Backend"))
}

func TestProxyAuthGateBlocksBeforeBackend(t *testing.T) {
	backend := &backendRecorder{}
	srv := httptest.NewServer(backend.handler())
	defer srv.Close()

	handler := newTestHandler(t, []Rule{
		{Prefix: "/orders", Target: srv.URL, Rewrite: "/api", AuthRequired: true},
	}, time.Second)

	req := httptest.NewRequest(http.MethodPost, "/orders/orders", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, int64(0), backend.hits.Load(), "backend must never see an unauthenticated request")
}

func TestProxyCorrelationIDPropagation(t *testing.T) {
	backend := &backendRecorder{}
	srv := httptest.NewServer(backend.handler())
	defer srv.Close()

	handler := newTestHandler(t, []Rule{
		{Prefix: "/products", Target: srv.URL, Rewrite: "/api"},
	}, time.Second)

	t.Run("reuses inbound id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/products/products", nil)
		req.Header.Set(httputil.RequestIDHeader, "req-42")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, "req-42", rec.Header().Get(httputil.RequestIDHeader))
		assert.Equal(t, "req-42", backend.lastReqID.Load())
	})

	t.Run("generates id when absent", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/products/products", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		id := rec.Header().Get(httputil.RequestIDHeader)
		require.NotEmpty(t, id)
		assert.Equal(t, id, backend.lastReqID.Load())
	})
}

func TestProxyRouteNotFound(t *testing.T) {
	handler := newTestHandler(t, []Rule{
		{Prefix: "/products", Target: "http://localhost:1", Rewrite: "/api"},
	}, time.Second)

	req := httptest.NewRequest(http.MethodGet, "/nowhere", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)

	var body httputil.ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Message)
	assert.NotEmpty(t, body.RequestID)
}

func TestProxyConnectionRefusedIs503(t *testing.T) {
	// Reserve a port, then close it so connections are refused.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	target := "http://" + ln.Addr().String()
	require.NoError(t, ln.Close())

	handler := newTestHandler(t, []Rule{
		{Prefix: "/products", Target: target, Rewrite: "/api"},
	}, time.Second)

	req := httptest.NewRequest(http.MethodGet, "/products/products", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestProxyTimeoutIs504(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer slow.Close()

	handler := newTestHandler(t, []Rule{
		{Prefix: "/products", Target: slow.URL, Rewrite: "/api"},
	}, 50*time.Millisecond)

	req := httptest.NewRequest(http.MethodGet, "/products/products", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
}

func TestProxyPassesThroughDownstreamStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"message":"conflict"}`))
	}))
	defer srv.Close()

	handler := newTestHandler(t, []Rule{
		{Prefix: "/orders", Target: srv.URL, Rewrite: "/api"},
	}, time.Second)

	req := httptest.NewRequest(http.MethodGet, "/orders/orders", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)

	body, _ := io.ReadAll(rec.Body)
	assert.Equal(t, `{"message":"conflict"}`, string(body))
}

func TestGatewayHealthEndpoint(t *testing.T) {
	handler := newTestHandler(t, nil, time.Second)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestGatewayRateLimit(t *testing.T) {
	backend := &backendRecorder{}
	srv := httptest.NewServer(backend.handler())
	defer srv.Close()

	cfg := &config.Gateway{
		ProxyTimeout:    time.Second,
		RateLimitWindow: time.Minute,
		RateLimitMax:    3,
	}
	table := NewTable([]Rule{{Prefix: "/products", Target: srv.URL, Rewrite: "/api"}})
	handler := NewHandler(cfg, table, metrics.New("gateway-ratelimit-test"), zap.NewNop())

	var lastCode int
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/products/products", nil)
		req.RemoteAddr = "10.0.0.9:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		lastCode = rec.Code
	}

	assert.Equal(t, http.StatusTooManyRequests, lastCode)
	assert.Equal(t, int64(3), backend.hits.Load(), "rejected requests must not reach the backend")
}
