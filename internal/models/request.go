package models

// ContentKind declares which capability a request needs.
type ContentKind string

const (
	ContentText   ContentKind = "text"
	ContentVision ContentKind = "vision"
)

// Stage tags a request with its processing stage. Stage "a" is the
// first-pass structural stage (folder planning) and starts the model
// chain from the tier's primary model; every other stage starts from
// the secondary model.
type Stage string

const (
	StageStructure Stage = "a"
	StageDefault   Stage = "b"
)

// ProviderRequest is one unit of generation work. Created per call,
// never persisted.
type ProviderRequest struct {
	Kind         ContentKind
	Prompt       string
	SystemPrompt string
	ImageBase64  string // set only for vision requests
	MaxTokens    int    // 0 = derive from the plan's speed tier
	Stage        Stage  // empty = StageDefault
}

// ProviderResponse is the outcome of one routed request. On failure,
// Error carries the per-candidate diagnostics joined with "; ".
type ProviderResponse struct {
	Content   string `json:"content"`
	Provider  string `json:"provider"`
	Model     string `json:"model"`
	LatencyMS int64  `json:"latency_ms"`
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
}
