package providers

import (
	"context"
	"strings"

	"rename_gateway/internal/models"
)

// Adapters are pure I/O boundaries: one narrow call per capability,
// no retry or fallback logic inside. Chain-level fallback lives in the
// routing engine, which also measures latency around each call so an
// adapter bug cannot corrupt timing.

// TextGenerator generates a completion for a text prompt.
type TextGenerator interface {
	GenerateText(ctx context.Context, model, prompt, systemPrompt string, maxTokens int) (string, error)
}

// VisionGenerator generates a completion for a prompt plus an image.
type VisionGenerator interface {
	GenerateVision(ctx context.Context, model, prompt, systemPrompt, imageBase64 string, maxTokens int) (string, error)
}

// OCRExtractor extracts text from raw image bytes.
type OCRExtractor interface {
	ExtractText(ctx context.Context, image []byte, quality models.OCRQuality) (text string, confidence float64, err error)
}

// Status describes whether a vendor is usable and, if not, why. It
// reflects adapter configuration, not live health.
type Status struct {
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

// VendorForModel maps a model identifier to its backing vendor name.
// Unknown models return "" and are treated as unconfigured candidates.
func VendorForModel(model string) string {
	switch {
	case strings.HasPrefix(model, "gpt-"), strings.HasPrefix(model, "o1-"), strings.HasPrefix(model, "chatgpt-"):
		return VendorOpenAI
	case strings.HasPrefix(model, "gemini-"):
		return VendorGemini
	case strings.HasPrefix(model, "claude-"):
		return VendorAnthropic
	default:
		return ""
	}
}

// Vendor names used as registry and metrics keys.
const (
	VendorOpenAI    = "openai"
	VendorGemini    = "gemini"
	VendorAnthropic = "anthropic"
	VendorOCRSpace  = "ocrspace"
	VendorLocal     = "local"
)
