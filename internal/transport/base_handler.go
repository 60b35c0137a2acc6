package transport

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/procurement-portal/internal"
	"github.com/frahmantamala/procurement-portal/pkg/logger"
)

// BaseHandler provides common functionality for HTTP handlers
type BaseHandler struct {
	Logger *slog.Logger
}

// NewBaseHandler creates a base handler with logger
func NewBaseHandler(lg *slog.Logger) *BaseHandler {
	if lg == nil {
		lg = logger.LoggerWrapper()
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
	h.WriteJSON(w, status, map[string]interface{}{
		"code":    status,
		"message": message,
	})
}

// StatusFor maps an error to the HTTP status the preview API answers with.
func StatusFor(err error) int {
	appErr, ok := internal.IsAppError(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch appErr.Type {
	case internal.ErrorTypeValidation:
		return http.StatusUnprocessableEntity
	case internal.ErrorTypeNotFound:
		return http.StatusNotFound
	case internal.ErrorTypeUnauthorized:
		return http.StatusUnauthorized
	case internal.ErrorTypeForbidden:
		return http.StatusForbidden
	case internal.ErrorTypeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// WriteAppError writes err as JSON, hiding the details of internal failures.
func (h *BaseHandler) WriteAppError(w http.ResponseWriter, err error, extra map[string]interface{}) {
	status := StatusFor(err)
	body := map[string]interface{}{}
	for k, v := range extra {
		body[k] = v
	}

	if appErr, ok := internal.IsAppError(err); ok && status != http.StatusInternalServerError {
		body["error"] = appErr
	} else {
		h.Logger.Error("request failed", "error", err)
		body["error"] = map[string]interface{}{
			"type":    internal.ErrorTypeInternal,
			"message": "internal server error",
		}
	}
	h.WriteJSON(w, status, body)
}
