package providers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"rename_gateway/internal/models"
)

const (
	ocrSpaceDefaultBaseURL = "https://api.ocr.space"
	ocrSpaceTimeout        = 45 * time.Second
)

// ocrSpaceConfidence approximates the service's accuracy per engine;
// the API reports no confidence value of its own.
var ocrSpaceConfidence = map[models.OCRQuality]float64{
	models.OCRQualityLow:    0.70,
	models.OCRQualityMedium: 0.78,
	models.OCRQualityHigh:   0.82,
}

// OCRSpaceAdapter implements remote OCR against the OCR.space parse
// API.
type OCRSpaceAdapter struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewOCRSpaceAdapter creates an adapter for the given API key.
func NewOCRSpaceAdapter(apiKey, baseURL string) *OCRSpaceAdapter {
	if baseURL == "" {
		baseURL = ocrSpaceDefaultBaseURL
	}
	return &OCRSpaceAdapter{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  &http.Client{Timeout: ocrSpaceTimeout},
	}
}

type ocrSpaceResponse struct {
	ParsedResults []struct {
		ParsedText string `json:"ParsedText"`
	} `json:"ParsedResults"`
	IsErroredOnProcessing bool `json:"IsErroredOnProcessing"`
	ErrorMessage          any  `json:"ErrorMessage"` // string or []string depending on the error
}

// ExtractText submits the image as base64 form data and returns the
// parsed text. Quality selects the OCR engine: engine 2 is slower but
// more accurate.
func (a *OCRSpaceAdapter) ExtractText(ctx context.Context, image []byte, quality models.OCRQuality) (string, float64, error) {
	engine := "1"
	if quality == models.OCRQualityMedium || quality == models.OCRQualityHigh {
		engine = "2"
	}

	form := url.Values{}
	form.Set("base64Image", "data:image/png;base64,"+base64.StdEncoding.EncodeToString(image))
	form.Set("OCREngine", engine)
	form.Set("scale", "true")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/parse/image", strings.NewReader(form.Encode()))
	if err != nil {
		return "", 0, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("apikey", a.apiKey)

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return "", 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", 0, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", 0, fmt.Errorf("ocrspace error: status=%d", resp.StatusCode)
	}

	var parsed ocrSpaceResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", 0, fmt.Errorf("failed to decode response: %w", err)
	}
	if parsed.IsErroredOnProcessing {
		return "", 0, fmt.Errorf("ocrspace processing error: %v", parsed.ErrorMessage)
	}
	if len(parsed.ParsedResults) == 0 {
		return "", 0, fmt.Errorf("ocrspace returned no results")
	}

	var sb strings.Builder
	for _, result := range parsed.ParsedResults {
		sb.WriteString(result.ParsedText)
	}
	return sb.String(), ocrSpaceConfidence[quality], nil
}
