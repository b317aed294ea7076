package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/josedlucas/sweven-mcp-server/internal/errortypes"
)

// ErrorResponse is the structure of error bodies sent by the HTTP
// endpoints.
type ErrorResponse struct {
	Status  string                 `json:"status"`
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Error codes returned by the streaming endpoints
const (
	ErrorCodeInvalidRequest          = "INVALID_REQUEST"
	ErrorCodeSessionNotFound         = "SESSION_NOT_FOUND"
	ErrorCodeSessionLayerUnavailable = "SESSION_LAYER_UNAVAILABLE"
	ErrorCodeInternalError           = "INTERNAL_ERROR"
)

// writeErrorResponse writes a structured error body with the given
// HTTP status.
func writeErrorResponse(w http.ResponseWriter, status int, code, message string, err error) {
	errResp := ErrorResponse{
		Status:  "error",
		Code:    code,
		Message: message,
	}

	if err != nil {
		errResp.Details = map[string]interface{}{
			"error": err.Error(),
		}
		logErr := errortypes.SessionError(err, message).
			WithField("status_code", status).
			WithField("error_code", code)
		errortypes.LogError(nil, logErr)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if encErr := json.NewEncoder(w).Encode(errResp); encErr != nil {
		slog.Error("Failed to encode error response", "error", encErr)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
