package providers

import (
	"context"
	"encoding/base64"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"rename_gateway/internal/models"
)

// ocrTranscriptionPrompt asks a vision model to behave like an OCR
// engine: raw text only, no commentary.
const ocrTranscriptionPrompt = "Transcribe all visible text in this image. Return only the text, preserving line breaks. Do not describe the image or add commentary."

// visionOCRConfidence is reported when a vision model is used for OCR.
// These models return no per-character confidence, so a fixed heuristic
// value is used.
const visionOCRConfidence = 0.85

// OpenAIAdapter implements text, vision and vision-backed OCR against
// the OpenAI API.
type OpenAIAdapter struct {
	client *openai.Client
}

// NewOpenAIAdapter creates an adapter for the given API key.
func NewOpenAIAdapter(apiKey string) *OpenAIAdapter {
	return &OpenAIAdapter{client: openai.NewClient(apiKey)}
}

// GenerateText sends a chat completion request and returns raw content.
func (a *OpenAIAdapter) GenerateText(ctx context.Context, model, prompt, systemPrompt string, maxTokens int) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if systemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: systemPrompt,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	})

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     model,
		Messages:  messages,
		MaxTokens: maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// GenerateVision sends a chat completion with an inline image part.
func (a *OpenAIAdapter) GenerateVision(ctx context.Context, model, prompt, systemPrompt, imageBase64 string, maxTokens int) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if systemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: systemPrompt,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role: openai.ChatMessageRoleUser,
		MultiContent: []openai.ChatMessagePart{
			{Type: openai.ChatMessagePartTypeText, Text: prompt},
			{
				Type: openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{
					URL: "data:image/png;base64," + imageBase64,
				},
			},
		},
	})

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     model,
		Messages:  messages,
		MaxTokens: maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("openai vision completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// ExtractText runs OCR through the vision endpoint.
func (a *OpenAIAdapter) ExtractText(ctx context.Context, image []byte, quality models.OCRQuality) (string, float64, error) {
	model := "gpt-4o-mini"
	if quality == models.OCRQualityHigh {
		model = "gpt-4o"
	}

	encoded := base64.StdEncoding.EncodeToString(image)
	text, err := a.GenerateVision(ctx, model, ocrTranscriptionPrompt, "", encoded, 2048)
	if err != nil {
		return "", 0, err
	}
	return text, visionOCRConfidence, nil
}
