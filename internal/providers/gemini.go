package providers

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"rename_gateway/internal/models"
)

const (
	geminiDefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	geminiTimeout        = 60 * time.Second
)

// GeminiAdapter implements text, vision and vision-backed OCR against
// the Gemini generateContent API.
type GeminiAdapter struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewGeminiAdapter creates an adapter for the given API key. baseURL
// overrides the public endpoint when non-empty.
func NewGeminiAdapter(apiKey, baseURL string) *GeminiAdapter {
	if baseURL == "" {
		baseURL = geminiDefaultBaseURL
	}
	return &GeminiAdapter{
		apiKey:  apiKey,
		baseURL: baseURL,
		client: &http.Client{
			Timeout: geminiTimeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inline_data,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents          []geminiContent `json:"contents"`
	SystemInstruction *geminiContent  `json:"systemInstruction,omitempty"`
	GenerationConfig  struct {
		MaxOutputTokens int `json:"maxOutputTokens,omitempty"`
	} `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// GenerateText sends a text-only generateContent request.
func (a *GeminiAdapter) GenerateText(ctx context.Context, model, prompt, systemPrompt string, maxTokens int) (string, error) {
	return a.generate(ctx, model, systemPrompt, maxTokens, []geminiPart{{Text: prompt}})
}

// GenerateVision sends a generateContent request with an inline image.
func (a *GeminiAdapter) GenerateVision(ctx context.Context, model, prompt, systemPrompt, imageBase64 string, maxTokens int) (string, error) {
	parts := []geminiPart{
		{Text: prompt},
		{InlineData: &geminiInlineData{MimeType: "image/png", Data: imageBase64}},
	}
	return a.generate(ctx, model, systemPrompt, maxTokens, parts)
}

// ExtractText runs OCR through the vision endpoint.
func (a *GeminiAdapter) ExtractText(ctx context.Context, image []byte, quality models.OCRQuality) (string, float64, error) {
	model := "gemini-1.5-flash"
	if quality == models.OCRQualityHigh {
		model = "gemini-1.5-pro"
	}

	encoded := base64.StdEncoding.EncodeToString(image)
	text, err := a.GenerateVision(ctx, model, ocrTranscriptionPrompt, "", encoded, 2048)
	if err != nil {
		return "", 0, err
	}
	return text, visionOCRConfidence, nil
}

func (a *GeminiAdapter) generate(ctx context.Context, model, systemPrompt string, maxTokens int, parts []geminiPart) (string, error) {
	reqBody := geminiRequest{
		Contents: []geminiContent{{Role: "user", Parts: parts}},
	}
	if systemPrompt != "" {
		reqBody.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: systemPrompt}}}
	}
	reqBody.GenerationConfig.MaxOutputTokens = maxTokens

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", a.baseURL, model, a.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var parsed geminiResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		if parsed.Error != nil {
			return "", fmt.Errorf("gemini error: status=%d message=%s", resp.StatusCode, parsed.Error.Message)
		}
		return "", fmt.Errorf("gemini error: status=%d", resp.StatusCode)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}
	return parsed.Candidates[0].Content.Parts[0].Text, nil
}
