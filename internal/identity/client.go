package identity

import (
	"context"
	"net/http"
	"time"

	apperrors "github.com/sonalikodikara/cloudretail/internal/errors"
	"github.com/sonalikodikara/cloudretail/internal/httputil"
	"github.com/sonalikodikara/cloudretail/internal/middleware"
)

// Client calls the identity service's validate-token endpoint on behalf of
// the other services. It satisfies middleware.TokenValidator.
type Client struct {
	http *httputil.Client
}

// NewClient creates a validator client for the identity service base URL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	return &Client{http: httputil.NewClient(baseURL, timeout)}
}

// Validate resolves a bearer token into an Identity. A verifier transport
// failure is distinguishable from an invalid token: the former maps to 503,
// the latter to 401.
func (c *Client) Validate(ctx context.Context, token string) (*middleware.Identity, error) {
	resp, err := c.http.Get(ctx, "/api/validate-token", token)
	if err != nil {
		return nil, apperrors.Unavailable("Identity service unreachable", err)
	}

	if resp.StatusCode != http.StatusOK {
		httputil.DrainAndClose(resp)
		return nil, apperrors.Unauthorized("Invalid token")
	}

	var body struct {
		User middleware.Identity `json:"user"`
	}
	if err := httputil.DecodeResponse(resp, &body); err != nil {
		return nil, apperrors.Unavailable("Identity service returned an unreadable response", err)
	}
	return &body.User, nil
}
