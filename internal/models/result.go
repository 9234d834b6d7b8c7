package models

// OcrResult is the outcome of text extraction from an image.
// Confidence is vendor-reported or heuristic, in [0,1].
type OcrResult struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	Method     string  `json:"method"`
	Provider   string  `json:"provider"`
}

// RenameResult is a suggested file name plus how much to trust it.
// Reasoning distinguishes vendor output from heuristic repair.
type RenameResult struct {
	SuggestedName string  `json:"suggested_name"`
	Confidence    float64 `json:"confidence"`
	Reasoning     string  `json:"reasoning"`
}

// FolderPlan is a stage-"a" structural suggestion: folder names and
// which files belong where.
type FolderPlan struct {
	Folders    []PlannedFolder `json:"folders"`
	Confidence float64         `json:"confidence"`
	Reasoning  string          `json:"reasoning"`
}

// PlannedFolder groups files under one suggested folder name.
type PlannedFolder struct {
	Name  string   `json:"name"`
	Files []string `json:"files"`
}

// ImageAnalysis is the read-only vision pre-pass result used before a
// grouping decision. These run independently and may be fanned out.
type ImageAnalysis struct {
	FileName    string `json:"file_name"`
	Description string `json:"description"`
	Provider    string `json:"provider"`
	Err         string `json:"error,omitempty"`
}
