package orders

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	apperrors "github.com/sonalikodikara/cloudretail/internal/errors"
	"github.com/sonalikodikara/cloudretail/internal/httputil"
	"github.com/sonalikodikara/cloudretail/internal/middleware"
)

// Handler exposes the order service HTTP surface behind auth delegation.
type Handler struct {
	service *Service
	auth    *middleware.Authenticator
	logger  *zap.Logger
}

// NewHandler creates the orders HTTP handler.
func NewHandler(service *Service, auth *middleware.Authenticator, logger *zap.Logger) *Handler {
	return &Handler{service: service, auth: auth, logger: logger}
}

// Router builds the /api router.
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	api.Use(h.auth.Handler)

	api.HandleFunc("/orders", h.handlePlaceOrder).Methods(http.MethodPost)
	api.HandleFunc("/orders/{id:[0-9]+}", h.handleGet).Methods(http.MethodGet)
	api.Handle("/orders/{id:[0-9]+}/status", middleware.RequireAdmin(http.HandlerFunc(h.handleUpdateStatus))).Methods(http.MethodPut)

	return r
}

type placeOrderRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

func (h *Handler) handlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, r, apperrors.Unauthorized("Authorization token missing"))
		return
	}

	var req placeOrderRequest
	if err := httputil.DecodeBody(r, &req); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	bearer := middleware.BearerFromContext(r.Context())
	order, err := h.service.PlaceOrder(r.Context(), identity, bearer, req.ProductID, req.Quantity)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	h.logger.Info("order placed",
		zap.Int64("order_id", order.ID),
		zap.Int64("user_id", order.UserID),
		zap.Int64("product_id", order.ProductID),
		zap.Int("quantity", order.Quantity),
	)
	httputil.WriteJSON(w, r, http.StatusCreated, order)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	order, err := h.service.Get(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	httputil.WriteJSON(w, r, http.StatusOK, order)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	var req updateStatusRequest
	if err := httputil.DecodeBody(r, &req); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	order, err := h.service.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	httputil.WriteJSON(w, r, http.StatusOK, order)
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		return 0, apperrors.Validation("Invalid id")
	}
	return id, nil
}
