package repair

import (
	"encoding/json"

	"rename_gateway/internal/models"
)

// folderPlanPayload is the shape vendors are prompted to return for
// stage-"a" structural planning.
type folderPlanPayload struct {
	Folders []struct {
		Name  string   `json:"name"`
		Files []string `json:"files"`
	} `json:"folders"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

// FolderPlan parses vendor output into a FolderPlan. The fallback
// puts every file into a single "documents" folder rather than
// failing, so callers always get a usable plan.
func FolderPlan(raw string, files []string) models.FolderPlan {
	if obj := extractJSON(raw); obj != "" {
		var p folderPlanPayload
		if err := json.Unmarshal([]byte(obj), &p); err == nil && len(p.Folders) > 0 {
			plan := models.FolderPlan{
				Confidence: clampConfidence(p.Confidence),
				Reasoning:  p.Reasoning,
			}
			for _, f := range p.Folders {
				name := SanitizeName(f.Name)
				if name == "untitled" && f.Name == "" {
					continue
				}
				plan.Folders = append(plan.Folders, models.PlannedFolder{Name: name, Files: f.Files})
			}
			if len(plan.Folders) > 0 {
				return plan
			}
		}
	}

	return models.FolderPlan{
		Folders:    []models.PlannedFolder{{Name: "documents", Files: files}},
		Confidence: heuristicConfidence,
		Reasoning:  "recovered from unstructured model output",
	}
}
