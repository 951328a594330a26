package middleware

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/sonalikodikara/cloudretail/internal/errors"
	"github.com/sonalikodikara/cloudretail/internal/httputil"
)

// Identity is the resolved caller attached to a request after validation.
// It is a value copy of the identity service's record, never a live link.
type Identity struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

const (
	RoleCustomer = "CUSTOMER"
	RoleAdmin    = "ADMIN"
)

// IsAdmin reports whether the identity holds the ADMIN role.
func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == RoleAdmin
}

// TokenValidator resolves a bearer token into an Identity. Implementations
// must return errors.CodeUnauthorized for rejected tokens and
// errors.CodeUnavailable when the verifier cannot be reached, so callers can
// answer 401 and 503 respectively.
type TokenValidator interface {
	Validate(ctx context.Context, token string) (*Identity, error)
}

type identityKey struct{}

type bearerKey struct{}

// WithIdentity stores the resolved identity in the context.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the resolved identity, if any.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(*Identity)
	return id, ok && id != nil
}

// WithBearerToken stores the caller's raw credential so downstream calls can
// forward it unchanged.
func WithBearerToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, bearerKey{}, token)
}

// BearerFromContext returns the caller's raw bearer token, or "".
func BearerFromContext(ctx context.Context) string {
	token, _ := ctx.Value(bearerKey{}).(string)
	return token
}

// ExtractBearer returns the token from an "Authorization: Bearer" header.
func ExtractBearer(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

// Authenticator delegates credential checks to the identity service. It holds
// no session state and caches nothing: every protected call revalidates.
type Authenticator struct {
	validator TokenValidator
	logger    *zap.Logger
}

// NewAuthenticator creates the auth delegation middleware.
func NewAuthenticator(validator TokenValidator, logger *zap.Logger) *Authenticator {
	return &Authenticator{validator: validator, logger: logger}
}

// Handler rejects requests without a valid token and attaches the resolved
// identity to the context for the remainder of request handling.
func (a *Authenticator) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := ExtractBearer(r)
		if token == "" {
			httputil.WriteError(w, r, errors.Unauthorized("Authorization token missing"))
			return
		}

		identity, err := a.validator.Validate(r.Context(), token)
		if err != nil {
			a.logger.Warn("token validation failed",
				zap.String("path", r.URL.Path),
				zap.Error(err),
			)
			httputil.WriteError(w, r, err)
			return
		}

		ctx := WithIdentity(r.Context(), identity)
		ctx = WithBearerToken(ctx, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin rejects callers whose resolved identity lacks the ADMIN role.
// It must run after the Authenticator.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		if !ok {
			httputil.WriteError(w, r, errors.Unauthorized("Authorization token missing"))
			return
		}
		if !identity.IsAdmin() {
			httputil.WriteError(w, r, errors.Forbidden("Admin role required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}
