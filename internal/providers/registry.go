package providers

import (
	"go.uber.org/zap"
)

// Credentials carries vendor API keys and base URL overrides. An empty
// key means the vendor is not configured: it is never registered, so
// the engine can skip it without producing false errors in metrics.
type Credentials struct {
	OpenAIAPIKey    string
	GeminiAPIKey    string
	AnthropicAPIKey string
	OCRSpaceAPIKey  string

	GeminiBaseURL    string
	AnthropicBaseURL string
	OCRSpaceBaseURL  string
}

// Registry holds the configured adapters, keyed by vendor name.
// It is built once at startup and safe for concurrent use.
type Registry struct {
	text   map[string]TextGenerator
	vision map[string]VisionGenerator
	ocr    map[string]OCRExtractor
	status map[string]Status
}

// NewEmptyRegistry returns a registry with no vendors configured.
// Tests register fake adapters on it directly.
func NewEmptyRegistry() *Registry {
	return &Registry{
		text:   make(map[string]TextGenerator),
		vision: make(map[string]VisionGenerator),
		ocr:    make(map[string]OCRExtractor),
		status: make(map[string]Status),
	}
}

// RegisterText adds a text adapter and marks the vendor available.
func (r *Registry) RegisterText(vendor string, p TextGenerator) {
	r.text[vendor] = p
	r.status[vendor] = Status{Available: true}
}

// RegisterVision adds a vision adapter and marks the vendor available.
func (r *Registry) RegisterVision(vendor string, p VisionGenerator) {
	r.vision[vendor] = p
	r.status[vendor] = Status{Available: true}
}

// RegisterOCR adds an OCR adapter and marks the vendor available.
func (r *Registry) RegisterOCR(vendor string, p OCRExtractor) {
	r.ocr[vendor] = p
	r.status[vendor] = Status{Available: true}
}

// NewRegistry builds adapters for every vendor whose credential is
// present and records a reason for every vendor that is not.
func NewRegistry(creds Credentials, log *zap.Logger) *Registry {
	r := NewEmptyRegistry()

	if creds.OpenAIAPIKey != "" {
		p := NewOpenAIAdapter(creds.OpenAIAPIKey)
		r.text[VendorOpenAI] = p
		r.vision[VendorOpenAI] = p
		r.ocr[VendorOpenAI] = p
		r.status[VendorOpenAI] = Status{Available: true}
	} else {
		r.status[VendorOpenAI] = Status{Reason: "OPENAI_API_KEY not set"}
	}

	if creds.GeminiAPIKey != "" {
		p := NewGeminiAdapter(creds.GeminiAPIKey, creds.GeminiBaseURL)
		r.text[VendorGemini] = p
		r.vision[VendorGemini] = p
		r.ocr[VendorGemini] = p
		r.status[VendorGemini] = Status{Available: true}
	} else {
		r.status[VendorGemini] = Status{Reason: "GEMINI_API_KEY not set"}
	}

	if creds.AnthropicAPIKey != "" {
		r.text[VendorAnthropic] = NewAnthropicAdapter(creds.AnthropicAPIKey, creds.AnthropicBaseURL)
		r.status[VendorAnthropic] = Status{Available: true}
	} else {
		r.status[VendorAnthropic] = Status{Reason: "ANTHROPIC_API_KEY not set"}
	}

	if creds.OCRSpaceAPIKey != "" {
		r.ocr[VendorOCRSpace] = NewOCRSpaceAdapter(creds.OCRSpaceAPIKey, creds.OCRSpaceBaseURL)
		r.status[VendorOCRSpace] = Status{Available: true}
	} else {
		r.status[VendorOCRSpace] = Status{Reason: "OCRSPACE_API_KEY not set"}
	}

	for vendor, st := range r.status {
		if st.Available {
			log.Info("provider configured", zap.String("vendor", vendor))
		} else {
			log.Debug("provider not configured", zap.String("vendor", vendor), zap.String("reason", st.Reason))
		}
	}

	return r
}

// Text returns the text adapter for a vendor, if configured.
func (r *Registry) Text(vendor string) (TextGenerator, bool) {
	p, ok := r.text[vendor]
	return p, ok
}

// Vision returns the vision adapter for a vendor, if configured.
func (r *Registry) Vision(vendor string) (VisionGenerator, bool) {
	p, ok := r.vision[vendor]
	return p, ok
}

// OCR returns the OCR adapter for a vendor, if configured.
func (r *Registry) OCR(vendor string) (OCRExtractor, bool) {
	p, ok := r.ocr[vendor]
	return p, ok
}

// Status reports configuration state for every known vendor.
func (r *Registry) Status() map[string]Status {
	out := make(map[string]Status, len(r.status))
	for k, v := range r.status {
		out[k] = v
	}
	return out
}
