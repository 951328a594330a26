// Package middleware provides the HTTP middleware shared by the gateway and
// the backend services.
package middleware

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/sonalikodikara/cloudretail/internal/httputil"
	"github.com/sonalikodikara/cloudretail/internal/logging"
)

// Tracing attaches a correlation id to every request and logs its outcome.
// An inbound X-Request-Id is reused, otherwise a fresh id is generated. The
// id is echoed on the response and stored in the context so downstream calls
// carry it forward.
func Tracing(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(httputil.RequestIDHeader)
			if requestID == "" {
				requestID = logging.NewRequestID()
			}

			ctx := logging.WithRequestID(r.Context(), requestID)
			w.Header().Set(httputil.RequestIDHeader, requestID)

			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			start := time.Now()
			next.ServeHTTP(wrapped, r.WithContext(ctx))

			logging.LogRequest(logger, ctx, r.Method, r.URL.Path, wrapped.statusCode, time.Since(start))
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.written {
		rw.statusCode = code
		rw.written = true
		rw.ResponseWriter.WriteHeader(code)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}
