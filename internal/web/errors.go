package web

// errors.go writes JSON error bodies of the form {"error": "..."} and logs
// the technical cause server-side with the request ID for correlation.

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/JonMunkholm/userimport/internal/logging"
)

// ErrorResponse is the JSON body of every error answer.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError logs err and writes message with statusCode.
func respondError(w http.ResponseWriter, r *http.Request, err error, statusCode int, message string) {
	fields := []zap.Field{
		zap.String("path", r.URL.Path),
		zap.String("method", r.Method),
		zap.Int("status", statusCode),
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	logging.FromContext(r.Context()).Warn(message, fields...)

	writeJSON(w, r, statusCode, ErrorResponse{Error: message})
}

// writeJSON encodes v as JSON with statusCode.
// Encoding errors are only logged since headers are already sent.
func writeJSON(w http.ResponseWriter, r *http.Request, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.FromContext(r.Context()).Error("json encode error", zap.Error(err))
	}
}
