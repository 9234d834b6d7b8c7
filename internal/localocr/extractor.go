package localocr

import (
	"fmt"

	"github.com/otiai10/gosseract/v2"

	"rename_gateway/internal/models"
)

// Extractor runs Tesseract locally. It needs no network access and no
// credentials, which makes it the guaranteed floor for text
// extraction when no remote OCR vendor is usable.
type Extractor struct {
	languages []string
}

// New creates a local extractor. languages defaults to English.
func New(languages ...string) *Extractor {
	if len(languages) == 0 {
		languages = []string{"eng"}
	}
	return &Extractor{languages: languages}
}

// Extract runs OCR over raw image bytes. Confidence is the mean word
// confidence reported by Tesseract, normalized to [0,1].
func (e *Extractor) Extract(image []byte) (models.OcrResult, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(e.languages...); err != nil {
		return models.OcrResult{}, fmt.Errorf("failed to set ocr language: %w", err)
	}
	if err := client.SetImageFromBytes(image); err != nil {
		return models.OcrResult{}, fmt.Errorf("failed to load image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return models.OcrResult{}, fmt.Errorf("ocr failed: %w", err)
	}

	return models.OcrResult{
		Text:       text,
		Confidence: e.meanConfidence(client),
		Method:     "tesseract",
		Provider:   "local",
	}, nil
}

// meanConfidence averages per-word confidence. Tesseract reports
// values in [0,100].
func (e *Extractor) meanConfidence(client *gosseract.Client) float64 {
	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil || len(boxes) == 0 {
		return 0
	}

	var sum float64
	for _, box := range boxes {
		sum += box.Confidence
	}
	mean := sum / float64(len(boxes)) / 100
	if mean < 0 {
		return 0
	}
	if mean > 1 {
		return 1
	}
	return mean
}
