// Package repair turns free-text vendor output into the structured
// result shapes the engine promised its callers. Vendors are prompted
// to return JSON but are not trusted to comply: every shape has a
// strategy that tries strict parsing first and falls back to a
// deterministic heuristic value instead of propagating parse errors.
package repair

import (
	"strings"
	"unicode"
)

// heuristicConfidence is assigned to every repaired value so that
// downstream consumers can distinguish vendor reasoning from a
// manufactured fallback.
const heuristicConfidence = 0.4

const maxNameLength = 48

// extractJSON pulls the first balanced JSON object out of raw output,
// tolerating markdown code fences and prose around it. Returns "" when
// no object is present.
func extractJSON(raw string) string {
	start := strings.IndexByte(raw, '{')
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(raw); i++ {
		c := raw[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case !inString && c == '{':
			depth++
		case !inString && c == '}':
			depth--
			if depth == 0 {
				return raw[start : i+1]
			}
		}
	}
	return ""
}

// sanitizeTokens strips non-alphanumeric characters and splits raw
// text into whitespace-separated tokens.
func sanitizeTokens(raw string) []string {
	var sb strings.Builder
	for _, r := range raw {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			sb.WriteRune(r)
		case unicode.IsSpace(r):
			sb.WriteRune(' ')
		}
	}
	return strings.Fields(sb.String())
}

// clampConfidence bounds vendor-reported confidence to [0,1].
func clampConfidence(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
