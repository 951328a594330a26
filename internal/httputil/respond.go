package httputil

import (
	"encoding/json"
	"net/http"

	"github.com/sonalikodikara/cloudretail/internal/errors"
	"github.com/sonalikodikara/cloudretail/internal/logging"
)

// RequestIDHeader carries the correlation id across every hop.
const RequestIDHeader = "X-Request-Id"

// ErrorBody is the JSON shape of every user-visible error.
type ErrorBody struct {
	Message   string                 `json:"message"`
	Error     string                 `json:"error,omitempty"`
	Details   map[string]interface{} `json:"details,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
}

// WriteJSON writes a JSON response, echoing the correlation id header.
func WriteJSON(w http.ResponseWriter, r *http.Request, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if id := logging.RequestID(r.Context()); id != "" {
		w.Header().Set(RequestIDHeader, id)
	}
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

// WriteError writes the ServiceError in err's chain as a JSON error body,
// falling back to a 500 for unclassified errors.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	svcErr := errors.GetServiceError(err)
	if svcErr == nil {
		svcErr = errors.Internal("Internal server error", err)
	}

	body := ErrorBody{
		Message:   svcErr.Message,
		Details:   svcErr.Details,
		RequestID: logging.RequestID(r.Context()),
	}
	if svcErr.Err != nil {
		body.Error = svcErr.Err.Error()
	}

	WriteJSON(w, r, svcErr.HTTPStatus, body)
}

// DecodeBody decodes a JSON request body into target.
func DecodeBody(r *http.Request, target interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		return errors.Validation("Invalid request body")
	}
	return nil
}
