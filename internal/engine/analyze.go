package engine

import (
	"context"
	"sync"

	"rename_gateway/internal/models"
)

const analyzeSystemPrompt = `Describe the content of this image in one or two sentences, focusing on what kind of document or photo it is.`

// ImageInput is one image queued for vision pre-analysis.
type ImageInput struct {
	FileName    string
	ImageBase64 string
}

// AnalyzeImages runs a vision description pass over several images
// with bounded parallelism. These calls are independent and read-only,
// so unlike the candidate loop inside Route they may fan out; the cap
// keeps a large batch from amplifying load against rate-limited
// vendors. Results come back in input order and per-image failures are
// carried in the result rather than aborting the batch.
func (e *Engine) AnalyzeImages(ctx context.Context, images []ImageInput, plan string) []models.ImageAnalysis {
	results := make([]models.ImageAnalysis, len(images))

	sem := make(chan struct{}, e.analyzeFanout)
	var wg sync.WaitGroup

	for i, img := range images {
		wg.Add(1)
		go func(i int, img ImageInput) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			resp := e.Route(ctx, models.ProviderRequest{
				Kind:         models.ContentVision,
				Prompt:       "Describe this image.",
				SystemPrompt: analyzeSystemPrompt,
				ImageBase64:  img.ImageBase64,
			}, plan)

			results[i] = models.ImageAnalysis{
				FileName:    img.FileName,
				Description: resp.Content,
				Provider:    resp.Provider,
			}
			if !resp.Success {
				results[i].Err = resp.Error
			}
		}(i, img)
	}

	wg.Wait()
	return results
}
