package httpapi

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"rename_gateway/internal/quota"
	"rename_gateway/internal/tier"
)

type ocrRequest struct {
	UserID      string `json:"user_id"`
	Plan        string `json:"plan"`
	Method      string `json:"method"`
	ImageBase64 string `json:"image_base64"`
}

// handleOCR extracts text from one image through the plan's OCR chain.
// The engine guarantees a result even with no vendor configured, so
// the only client errors here are malformed input and quota.
func (d *Dependencies) handleOCR(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	reqID := newRequestID()

	if r.Method != http.MethodPost {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req ocrRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.ImageBase64 == "" {
		writeJSONError(w, http.StatusBadRequest, "missing 'image_base64' field")
		return
	}

	image, err := base64.StdEncoding.DecodeString(req.ImageBase64)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid base64 image payload")
		return
	}

	limits := tier.Resolve(req.Plan).Limits
	sizeMB := len(image) / (1024 * 1024)
	if !quota.WithinFileSize(sizeMB, limits) {
		writeJSONError(w, http.StatusRequestEntityTooLarge, "file exceeds plan size limit")
		return
	}

	result := d.Engine.ExtractTextFromImage(r.Context(), image, req.Method, req.Plan)

	d.Log.Info("ocr served",
		zap.String("request_id", reqID),
		zap.String("plan", req.Plan),
		zap.String("provider", result.Provider),
		zap.Duration("duration", time.Since(start)))

	writeJSON(w, http.StatusOK, result)
}
