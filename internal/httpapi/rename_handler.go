package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"rename_gateway/internal/engine"
	"rename_gateway/internal/models"
	"rename_gateway/internal/quota"
	"rename_gateway/internal/tier"
)

type renameRequest struct {
	UserID             string `json:"user_id"`
	Plan               string `json:"plan"`
	FileName           string `json:"file_name"`
	FileType           string `json:"file_type"`
	Content            string `json:"content"`
	CustomInstructions string `json:"custom_instructions"`
}

// handleRename suggests a new name for one file.
//
// Flow:
//  1. Validate method and body
//  2. Check the plan's monthly file quota
//  3. Route through the engine (never hard-fails)
//  4. Charge the quota and return the suggestion
func (d *Dependencies) handleRename(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	reqID := newRequestID()

	if r.Method != http.MethodPost {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req renameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.FileName == "" {
		writeJSONError(w, http.StatusBadRequest, "missing 'file_name' field")
		return
	}

	ctx := r.Context()
	limits := tier.Resolve(req.Plan).Limits
	if !d.Quota.Within(ctx, req.UserID, quota.ResourceFiles, limits.MaxFiles) {
		writeJSONError(w, http.StatusTooManyRequests, "monthly file limit reached")
		return
	}

	result := d.Engine.GenerateSuggestedName(ctx, req.Content, req.FileName, req.FileType, req.Plan, req.CustomInstructions)

	if err := d.Quota.Add(ctx, req.UserID, quota.ResourceFiles, 1); err != nil {
		d.Log.Warn("failed to record quota usage", zap.String("request_id", reqID), zap.Error(err))
	}

	d.Log.Info("rename served",
		zap.String("request_id", reqID),
		zap.String("plan", req.Plan),
		zap.Duration("duration", time.Since(start)))

	writeJSON(w, http.StatusOK, result)
}

type planRequest struct {
	UserID             string   `json:"user_id"`
	Plan               string   `json:"plan"`
	Files              []string `json:"files"`
	CustomInstructions string   `json:"custom_instructions"`
}

// handlePlan produces a folder grouping for a set of file names.
func (d *Dependencies) handlePlan(w http.ResponseWriter, r *http.Request) {
	reqID := newRequestID()

	if r.Method != http.MethodPost {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req planRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(req.Files) == 0 {
		writeJSONError(w, http.StatusBadRequest, "missing 'files' field")
		return
	}

	ctx := r.Context()
	limits := tier.Resolve(req.Plan).Limits
	if !d.Quota.Within(ctx, req.UserID, quota.ResourceFolders, limits.MaxFolders) {
		writeJSONError(w, http.StatusTooManyRequests, "monthly folder limit reached")
		return
	}

	plan := d.Engine.PlanFolderStructure(ctx, req.Files, req.Plan, req.CustomInstructions)

	if err := d.Quota.Add(ctx, req.UserID, quota.ResourceFolders, int64(len(plan.Folders))); err != nil {
		d.Log.Warn("failed to record quota usage", zap.String("request_id", reqID), zap.Error(err))
	}

	writeJSON(w, http.StatusOK, plan)
}

type analyzeRequest struct {
	UserID string `json:"user_id"`
	Plan   string `json:"plan"`
	Images []struct {
		FileName    string `json:"file_name"`
		ImageBase64 string `json:"image_base64"`
	} `json:"images"`
}

type analyzeResponse struct {
	Results []models.ImageAnalysis `json:"results"`
}

// handleAnalyze runs the bounded-parallel vision pre-pass over a
// batch of images.
func (d *Dependencies) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(req.Images) == 0 {
		writeJSONError(w, http.StatusBadRequest, "missing 'images' field")
		return
	}

	inputs := make([]engine.ImageInput, 0, len(req.Images))
	for _, img := range req.Images {
		inputs = append(inputs, engine.ImageInput{FileName: img.FileName, ImageBase64: img.ImageBase64})
	}

	results := d.Engine.AnalyzeImages(r.Context(), inputs, req.Plan)
	writeJSON(w, http.StatusOK, analyzeResponse{Results: results})
}
