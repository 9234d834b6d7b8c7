package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
)

// writeJSON writes a success payload
func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeJSONError writes an error response in a stable envelope
func writeJSONError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	errorResp := map[string]any{
		"error": map[string]any{
			"message": message,
			"code":    statusCode,
		},
	}

	_ = json.NewEncoder(w).Encode(errorResp)
}

// newRequestID generates a unique ID for request tracing
func newRequestID() string {
	return uuid.NewString()
}
