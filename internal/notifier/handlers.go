package notifier

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/sonalikodikara/cloudretail/internal/httputil"
)

// Handler exposes the notification service HTTP surface. The notify endpoint
// stays open for service-to-service calls; the gateway gates the public
// /notifications prefix.
type Handler struct {
	store  *Store
	logger *zap.Logger
}

// NewHandler creates the notifier HTTP handler.
func NewHandler(store *Store, logger *zap.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

// Router builds the /api router.
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/notify", h.handleNotify).Methods(http.MethodPost)
	api.HandleFunc("/notifications", h.handleList).Methods(http.MethodGet)

	return r
}

type notifyRequest struct {
	OrderID int64  `json:"order_id"`
	Status  string `json:"status"`
}

func (h *Handler) handleNotify(w http.ResponseWriter, r *http.Request) {
	var req notifyRequest
	if err := httputil.DecodeBody(r, &req); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	n := h.store.Append(r.Context(), req.OrderID, req.Status)
	h.logger.Info("notification triggered",
		zap.Int64("order_id", n.OrderID),
		zap.String("status", n.Status),
	)

	httputil.WriteJSON(w, r, http.StatusOK, map[string]interface{}{
		"sent":    true,
		"message": "Notification processed successfully",
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, r, http.StatusOK, h.store.List(r.Context()))
}
