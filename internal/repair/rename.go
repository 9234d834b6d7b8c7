package repair

import (
	"encoding/json"
	"strings"

	"rename_gateway/internal/models"
)

// renamePayload is the shape vendors are prompted to return for name
// suggestions.
type renamePayload struct {
	SuggestedName string  `json:"suggested_name"`
	Confidence    float64 `json:"confidence"`
	Reasoning     string  `json:"reasoning"`
}

// Rename parses vendor output into a RenameResult. On any parse
// failure it manufactures a best-effort name from the raw text: strip
// non-alphanumerics, take the first few whitespace tokens, join with
// underscores, cap the length. Repaired values carry a conservative
// confidence so callers can tell them apart from vendor reasoning.
func Rename(raw string) models.RenameResult {
	if obj := extractJSON(raw); obj != "" {
		var p renamePayload
		if err := json.Unmarshal([]byte(obj), &p); err == nil && strings.TrimSpace(p.SuggestedName) != "" {
			return models.RenameResult{
				SuggestedName: SanitizeName(p.SuggestedName),
				Confidence:    clampConfidence(p.Confidence),
				Reasoning:     p.Reasoning,
			}
		}
	}

	return models.RenameResult{
		SuggestedName: HeuristicName(raw),
		Confidence:    heuristicConfidence,
		Reasoning:     "recovered from unstructured model output",
	}
}

// HeuristicName derives a file name from arbitrary text: the first
// four sanitized tokens joined with underscores, length-capped.
func HeuristicName(raw string) string {
	tokens := sanitizeTokens(raw)
	if len(tokens) > 4 {
		tokens = tokens[:4]
	}
	if len(tokens) == 0 {
		return "untitled"
	}

	name := strings.ToLower(strings.Join(tokens, "_"))
	if len(name) > maxNameLength {
		name = name[:maxNameLength]
	}
	return strings.Trim(name, "_")
}

// SanitizeName makes a vendor-suggested name filesystem-safe without
// reshaping it: spaces become underscores, anything else
// non-alphanumeric is dropped, length is capped.
func SanitizeName(name string) string {
	tokens := sanitizeTokens(name)
	if len(tokens) == 0 {
		return "untitled"
	}
	out := strings.Join(tokens, "_")
	if len(out) > maxNameLength {
		out = out[:maxNameLength]
	}
	return strings.Trim(out, "_")
}
