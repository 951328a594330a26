package catalog

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	apperrors "github.com/sonalikodikara/cloudretail/internal/errors"
	"github.com/sonalikodikara/cloudretail/internal/httputil"
	"github.com/sonalikodikara/cloudretail/internal/middleware"
)

// Handler exposes the catalog service HTTP surface. Every route sits behind
// the auth delegation middleware; mutations additionally require ADMIN.
type Handler struct {
	store  *Store
	auth   *middleware.Authenticator
	logger *zap.Logger
}

// NewHandler creates the catalog HTTP handler.
func NewHandler(store *Store, auth *middleware.Authenticator, logger *zap.Logger) *Handler {
	return &Handler{store: store, auth: auth, logger: logger}
}

// Router builds the /api router.
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	api.Use(h.auth.Handler)

	api.HandleFunc("/products", h.handleList).Methods(http.MethodGet)
	api.Handle("/products", middleware.RequireAdmin(http.HandlerFunc(h.handleCreate))).Methods(http.MethodPost)
	api.HandleFunc("/products/{id:[0-9]+}", h.handleGet).Methods(http.MethodGet)
	api.Handle("/products/{id:[0-9]+}", middleware.RequireAdmin(http.HandlerFunc(h.handleUpdate))).Methods(http.MethodPut)
	api.HandleFunc("/inventory/update", h.handleReserve).Methods(http.MethodPost)

	return r
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	products, err := h.store.List(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	httputil.WriteJSON(w, r, http.StatusOK, products)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	product, err := h.store.Get(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, apperrors.NotFound("Product not found"))
		return
	}
	httputil.WriteJSON(w, r, http.StatusOK, product)
}

type createProductRequest struct {
	Name  string   `json:"name"`
	Stock *int     `json:"stock"`
	Price *float64 `json:"price"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := httputil.DecodeBody(r, &req); err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	if req.Name == "" || req.Stock == nil || req.Price == nil {
		httputil.WriteError(w, r, apperrors.Validation("Name, stock and price are required"))
		return
	}

	product, err := h.store.Create(r.Context(), req.Name, *req.Stock, *req.Price)
	if err != nil {
		httputil.WriteError(w, r, apperrors.Validation(err.Error()))
		return
	}

	httputil.WriteJSON(w, r, http.StatusCreated, product)
}

type updateProductRequest struct {
	Name  *string  `json:"name"`
	Stock *int     `json:"stock"`
	Price *float64 `json:"price"`
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	var req updateProductRequest
	if err := httputil.DecodeBody(r, &req); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	product, err := h.store.UpdateFields(r.Context(), id, req.Name, req.Stock, req.Price)
	switch {
	case errors.Is(err, ErrNotFound):
		httputil.WriteError(w, r, apperrors.NotFound("Product not found"))
		return
	case err != nil:
		httputil.WriteError(w, r, apperrors.Validation(err.Error()))
		return
	}

	httputil.WriteJSON(w, r, http.StatusOK, product)
}

type reserveRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// handleReserve is the service-to-service reservation endpoint: an atomic,
// conditional stock decrement that either succeeds fully or leaves stock
// unchanged.
func (h *Handler) handleReserve(w http.ResponseWriter, r *http.Request) {
	var req reserveRequest
	if err := httputil.DecodeBody(r, &req); err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	if req.Quantity < 1 {
		httputil.WriteError(w, r, apperrors.Validation("Quantity must be at least 1"))
		return
	}

	product, err := h.store.Reserve(r.Context(), req.ProductID, req.Quantity)
	switch {
	case errors.Is(err, ErrNotFound):
		httputil.WriteError(w, r, apperrors.NotFound("Product not found"))
		return
	case errors.Is(err, ErrInsufficientStock):
		h.logger.Info("reservation rejected",
			zap.Int64("product_id", req.ProductID),
			zap.Int("quantity", req.Quantity),
		)
		httputil.WriteError(w, r, apperrors.UpstreamRejected("Insufficient stock"))
		return
	case err != nil:
		httputil.WriteError(w, r, apperrors.Validation(err.Error()))
		return
	}

	httputil.WriteJSON(w, r, http.StatusOK, map[string]interface{}{
		"message": "Stock updated",
		"product": product,
	})
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		return 0, apperrors.Validation("Invalid id")
	}
	return id, nil
}
