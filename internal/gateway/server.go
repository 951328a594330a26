package gateway

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/sonalikodikara/cloudretail/internal/config"
	"github.com/sonalikodikara/cloudretail/internal/httputil"
	"github.com/sonalikodikara/cloudretail/internal/metrics"
	"github.com/sonalikodikara/cloudretail/internal/middleware"
)

// NewHandler assembles the gateway's middleware pipeline around the proxy.
// The stage order is fixed: CORS → tracing → metrics → rate limit → proxy.
// Health and metrics endpoints are served locally, never proxied.
func NewHandler(cfg *config.Gateway, table *Table, m *metrics.Metrics, logger *zap.Logger) http.Handler {
	proxy := NewProxy(table, cfg.ProxyTimeout, logger)

	limiter := middleware.NewRateLimiter(cfg.RateLimitMax, cfg.RateLimitWindow, logger)
	limiter.StartCleanup(cfg.RateLimitWindow)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, r, http.StatusOK, map[string]interface{}{
			"status":    "ok",
			"service":   "gateway",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})
	mux.Handle("/metrics", m.Handler())
	mux.Handle("/", limiter.Handler(proxy))

	var handler http.Handler = mux
	handler = middleware.Metrics(m)(handler)
	handler = middleware.Tracing(logger)(handler)
	handler = middleware.CORS(cfg.CORSOriginList())(handler)

	return handler
}
