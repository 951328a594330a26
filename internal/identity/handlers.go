package identity

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	apperrors "github.com/sonalikodikara/cloudretail/internal/errors"
	"github.com/sonalikodikara/cloudretail/internal/httputil"
	"github.com/sonalikodikara/cloudretail/internal/middleware"
)

// Handler exposes the identity service HTTP surface.
type Handler struct {
	store  *Store
	tokens *TokenManager
	logger *zap.Logger
}

// NewHandler creates the identity HTTP handler.
func NewHandler(store *Store, tokens *TokenManager, logger *zap.Logger) *Handler {
	return &Handler{store: store, tokens: tokens, logger: logger}
}

// Router builds the /api router.
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/login", h.handleLogin).Methods(http.MethodPost)
	api.HandleFunc("/validate-token", h.handleValidateToken).Methods(http.MethodGet)
	api.Handle("/profile", h.requireToken(http.HandlerFunc(h.handleProfile))).Methods(http.MethodGet)
	api.HandleFunc("/up", h.handleUp).Methods(http.MethodGet)

	return r
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httputil.DecodeBody(r, &req); err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	if req.Email == "" || req.Password == "" {
		httputil.WriteError(w, r, apperrors.Validation("Email and password are required"))
		return
	}

	user, err := h.store.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		httputil.WriteError(w, r, apperrors.Unauthorized("The provided credentials are incorrect"))
		return
	}

	token, err := h.tokens.Generate(user)
	if err != nil {
		httputil.WriteError(w, r, apperrors.Internal("Failed to issue token", err))
		return
	}

	h.logger.Info("user logged in", zap.Int64("user_id", user.ID), zap.String("role", user.Role))
	httputil.WriteJSON(w, r, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  user.Identity(),
	})
}

func (h *Handler) handleValidateToken(w http.ResponseWriter, r *http.Request) {
	token := middleware.ExtractBearer(r)
	if token == "" {
		httputil.WriteError(w, r, apperrors.Unauthorized("No token provided"))
		return
	}

	claims, err := h.tokens.Parse(token)
	if err != nil {
		httputil.WriteError(w, r, apperrors.Unauthorized("Invalid token"))
		return
	}

	// Tokens for deleted users must not validate.
	user, err := h.store.Get(r.Context(), claims.UserID)
	if err != nil {
		httputil.WriteError(w, r, apperrors.Unauthorized("Invalid token"))
		return
	}

	httputil.WriteJSON(w, r, http.StatusOK, map[string]interface{}{
		"user": user.Identity(),
	})
}

func (h *Handler) handleProfile(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, r, apperrors.Unauthorized("Authorization token missing"))
		return
	}
	httputil.WriteJSON(w, r, http.StatusOK, map[string]interface{}{"user": identity})
}

func (h *Handler) handleUp(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, r, http.StatusOK, map[string]interface{}{
		"status":    "user-service-ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// requireToken validates the bearer token locally. The identity service is
// the verifier, so it never delegates to itself over the network.
func (h *Handler) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := middleware.ExtractBearer(r)
		if token == "" {
			httputil.WriteError(w, r, apperrors.Unauthorized("Authorization token missing"))
			return
		}
		claims, err := h.tokens.Parse(token)
		if err != nil {
			httputil.WriteError(w, r, apperrors.Unauthorized("Invalid token"))
			return
		}
		user, err := h.store.Get(r.Context(), claims.UserID)
		if err != nil {
			httputil.WriteError(w, r, apperrors.Unauthorized("Invalid token"))
			return
		}

		identity := user.Identity()
		ctx := middleware.WithIdentity(r.Context(), &identity)
		ctx = middleware.WithBearerToken(ctx, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
