package gateway

import (
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/sonalikodikara/cloudretail/internal/errors"
	"github.com/sonalikodikara/cloudretail/internal/httputil"
	"github.com/sonalikodikara/cloudretail/internal/logging"
	"github.com/sonalikodikara/cloudretail/internal/middleware"
)

// hopHeaders are connection-scoped and must not be forwarded.
var hopHeaders = []string{
	"Connection",
	"Proxy-Connection",
	"Keep-Alive",
	"Proxy-Authenticate",
	"Proxy-Authorization",
	"Te",
	"Trailer",
	"Transfer-Encoding",
	"Upgrade",
}

// Proxy forwards matched requests to the owning backend service. Downstream
// status and payload pass through unchanged; transport failures are
// translated into gateway status codes.
type Proxy struct {
	table  *Table
	client *http.Client
	logger *zap.Logger
}

// NewProxy creates a proxy over the given route table. The timeout bounds
// the whole downstream exchange.
func NewProxy(table *Table, timeout time.Duration, logger *zap.Logger) *Proxy {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Proxy{
		table:  table,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

func (p *Proxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rule, ok := p.table.Match(r.URL.Path)
	if !ok {
		httputil.WriteError(w, r, errors.NotFound("Route not found").WithDetails("path", r.URL.Path))
		return
	}

	// Auth gating happens before any downstream traffic. The gateway only
	// checks credential presence; validation belongs to the services.
	if rule.AuthRequired && middleware.ExtractBearer(r) == "" {
		httputil.WriteError(w, r, errors.Unauthorized("Missing Authorization header (Bearer token required)"))
		return
	}

	target := rule.Target + rule.RewritePath(r.URL.Path)
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}

	req, err := http.NewRequestWithContext(r.Context(), r.Method, target, r.Body)
	if err != nil {
		httputil.WriteError(w, r, errors.Internal("Failed to build upstream request", err))
		return
	}

	copyHeaders(req.Header, r.Header)
	req.Header.Set(httputil.RequestIDHeader, logging.RequestID(r.Context()))

	resp, err := p.client.Do(req)
	if err != nil {
		httputil.WriteError(w, r, translateTransportError(err))
		return
	}
	defer resp.Body.Close()

	copyHeaders(w.Header(), resp.Header)
	w.Header().Set(httputil.RequestIDHeader, logging.RequestID(r.Context()))
	w.WriteHeader(resp.StatusCode)

	if _, err := io.Copy(w, resp.Body); err != nil {
		p.logger.Warn("copying upstream response failed",
			zap.String("target", target),
			zap.Error(err),
		)
	}
}

// translateTransportError maps a forwarding failure onto the gateway's
// status taxonomy: refusal 503, timeout 504, anything else 502.
func translateTransportError(err error) error {
	switch {
	case httputil.IsConnectionRefused(err):
		return errors.Unavailable("Service unavailable", err)
	case httputil.IsTimeout(err):
		return errors.GatewayTimeout("Service timed out", err)
	default:
		return errors.BadGateway("Bad gateway", err)
	}
}

func copyHeaders(dst, src http.Header) {
	for key, values := range src {
		if isHopHeader(key) || key == httputil.RequestIDHeader {
			continue
		}
		for _, v := range values {
			dst.Add(key, v)
		}
	}
}

func isHopHeader(key string) bool {
	for _, h := range hopHeaders {
		if http.CanonicalHeaderKey(h) == http.CanonicalHeaderKey(key) {
			return true
		}
	}
	return false
}
