package transport

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/payment-portal/internal"
	"github.com/frahmantamala/payment-portal/pkg/logger"
)

// BaseHandler provides common functionality for HTTP handlers
type BaseHandler struct {
	Logger *slog.Logger
}

// NewBaseHandler creates a base handler with logger
func NewBaseHandler(lg *slog.Logger) *BaseHandler {
	if lg == nil {
		lg = logger.LoggerWrapper()
		if lg == nil {
			lg = slog.Default()
		}
	}
	return &BaseHandler{Logger: lg}
}

// WriteJSON writes a JSON response
func (h *BaseHandler) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteError writes an error response
func (h *BaseHandler) WriteError(w http.ResponseWriter, status int, message string) {
	h.Logger.Error("http error", "status", status, "message", message)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	errorResp := map[string]interface{}{
		"code":    status,
		"message": message,
	}

	if err := json.NewEncoder(w).Encode(errorResp); err != nil {
		h.Logger.Error("failed to encode error response", "error", err)
	}
}

// HandleServiceError maps service-layer errors onto HTTP responses. AppError
// carries its own status; anything else is a generic 500 so store faults
// never leak diagnostics to the caller.
func (h *BaseHandler) HandleServiceError(w http.ResponseWriter, err error) {
	if appErr, ok := internal.IsAppError(err); ok {
		if appErr.StatusCode >= http.StatusInternalServerError {
			h.Logger.Error("internal error", "error", appErr.Error())
			h.WriteError(w, appErr.StatusCode, "Internal server error")
			return
		}
		status, body := appErr.ToHTTPResponse()
		h.WriteJSON(w, status, body)
		return
	}

	h.Logger.Error("unhandled service error", "error", err)
	h.WriteError(w, http.StatusInternalServerError, "Internal server error")
}

// DecodeJSON decodes a request body into a typed DTO, rejecting unknown
// fields so operator-like keys cannot ride through on loosely typed maps.
func (h *BaseHandler) DecodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
