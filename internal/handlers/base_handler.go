package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/japanesestudent/learning-summary/internal/middlewares"
	"go.uber.org/zap"
)

// BaseHandler provides common handler functionality
type BaseHandler struct {
	Logger *zap.Logger
}

// RespondJSON sends a JSON response.
//
// The body is encoded before anything is written, so an unencodable value becomes a 500
// instead of a truncated 200.
func (h *BaseHandler) RespondJSON(w http.ResponseWriter, status int, data any) {
	body, err := json.Marshal(data)
	if err != nil {
		h.Logger.Error("failed to encode JSON response", zap.Int("status", status), zap.Error(err))
		status = http.StatusInternalServerError
		body = []byte(`{"error":"internal server error"}`)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(body, '\n')); err != nil {
		h.Logger.Debug("failed to write response", zap.Error(err))
	}
}

// RespondError sends an error JSON response
func (h *BaseHandler) RespondError(w http.ResponseWriter, status int, message string) {
	h.RespondJSON(w, status, map[string]string{"error": message})
}

// RespondServerError logs err with the request ID and sends a 500 carrying only message,
// internal error details never reach the client
func (h *BaseHandler) RespondServerError(w http.ResponseWriter, r *http.Request, message string, err error, fields ...zap.Field) {
	fields = append(fields,
		zap.String("request_id", middlewares.GetRequestID(r.Context())),
		zap.Error(err),
	)
	h.Logger.Error(message, fields...)
	h.RespondError(w, http.StatusInternalServerError, message)
}
