package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorsCarryHTTPStatus(t *testing.T) {
	tests := []struct {
		err  *ServiceError
		code Code
		want int
	}{
		{Validation("bad input"), CodeValidation, http.StatusBadRequest},
		{Unauthorized("no token"), CodeUnauthorized, http.StatusUnauthorized},
		{Forbidden("admin only"), CodeForbidden, http.StatusForbidden},
		{NotFound("missing"), CodeNotFound, http.StatusNotFound},
		{RateLimitExceeded(200, "60s"), CodeRateLimited, http.StatusTooManyRequests},
		{Unavailable("down", nil), CodeUnavailable, http.StatusServiceUnavailable},
		{GatewayTimeout("slow", nil), CodeGatewayTimeout, http.StatusGatewayTimeout},
		{BadGateway("broken", nil), CodeBadGateway, http.StatusBadGateway},
		{UpstreamRejected("refused"), CodeUpstreamRejected, http.StatusBadRequest},
		{Internal("boom", nil), CodeInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.code, tt.err.Code)
		assert.Equal(t, tt.want, tt.err.HTTPStatus, string(tt.code))
	}
}

func TestGetServiceErrorUnwrapsChain(t *testing.T) {
	inner := Unavailable("identity down", errors.New("connection refused"))
	wrapped := fmt.Errorf("validate token: %w", inner)

	got := GetServiceError(wrapped)
	require.NotNil(t, got)
	assert.Equal(t, CodeUnavailable, got.Code)

	assert.Nil(t, GetServiceError(errors.New("plain")))
	assert.Nil(t, GetServiceError(nil))
}

func TestErrorStringIncludesCause(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := Unavailable("inventory unavailable", cause)

	assert.Contains(t, err.Error(), "DEPENDENCY_UNAVAILABLE")
	assert.Contains(t, err.Error(), "connection refused")
	assert.ErrorIs(t, err, cause)
}

func TestWithDetails(t *testing.T) {
	err := RateLimitExceeded(200, "60s")
	assert.Equal(t, 200, err.Details["limit"])
	assert.Equal(t, "60s", err.Details["window"])

	err.WithDetails("client", "10.0.0.1")
	assert.Equal(t, "10.0.0.1", err.Details["client"])
}
