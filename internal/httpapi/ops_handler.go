package httpapi

import (
	"net/http"
)

// handleProviderStatus reports which vendors are configured. It
// reflects startup configuration, never credentials themselves.
func (d *Dependencies) handleProviderStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	writeJSON(w, http.StatusOK, d.Engine.ProviderStatus())
}

// handleMetrics serves the in-memory per-provider counter table.
func (d *Dependencies) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	writeJSON(w, http.StatusOK, d.Recorder.List())
}

// handleHealth is the liveness probe.
func (d *Dependencies) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
