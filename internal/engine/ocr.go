package engine

import (
	"context"
	"time"

	"go.uber.org/zap"

	"rename_gateway/internal/models"
	"rename_gateway/internal/providers"
	"rename_gateway/internal/tier"
)

// ExtractTextFromImage walks the plan's remote OCR chain with the same
// loop semantics as Route, then falls back to the local extractor when
// no remote vendor is configured or all of them failed. It never
// returns an error: an empty OcrResult is the worst case, so content
// analysis cannot hard-fail just because no vendor key is set.
//
// method is a caller-supplied label describing how the image was
// produced (e.g. "scan", "screenshot"); it is propagated into the
// result untouched except for the local fallback, which reports its
// own extraction method.
func (e *Engine) ExtractTextFromImage(ctx context.Context, image []byte, method, plan string) models.OcrResult {
	cfg := tier.Resolve(plan)
	if method == "" {
		method = "ocr"
	}

	for _, vendor := range tier.OCRChain(cfg) {
		if ctx.Err() != nil {
			break
		}

		p, ok := e.registry.OCR(vendor)
		if !ok {
			continue
		}

		attemptCtx, cancel := context.WithTimeout(ctx, e.attemptTimeout)
		start := time.Now()
		text, confidence, err := p.ExtractText(attemptCtx, image, cfg.OCRQuality)
		latency := time.Since(start).Milliseconds()
		cancel()

		if err != nil {
			e.recorder.Record(vendor, latency, false, err.Error())
			e.log.Warn("remote ocr failed",
				zap.String("vendor", vendor),
				zap.Int64("latency_ms", latency),
				zap.Error(err))
			continue
		}

		e.recorder.Record(vendor, latency, true, "")
		return models.OcrResult{
			Text:       text,
			Confidence: confidence,
			Method:     method,
			Provider:   vendor,
		}
	}

	return e.localExtract(image)
}

// localExtract is the guaranteed floor: no network, no credentials.
// Its own failure still yields an empty result rather than an error.
func (e *Engine) localExtract(image []byte) models.OcrResult {
	if e.local == nil {
		return models.OcrResult{Method: "tesseract", Provider: providers.VendorLocal}
	}

	start := time.Now()
	result, err := e.local.Extract(image)
	latency := time.Since(start).Milliseconds()

	if err != nil {
		e.recorder.Record(providers.VendorLocal, latency, false, err.Error())
		e.log.Warn("local ocr failed", zap.Error(err))
		return models.OcrResult{Method: "tesseract", Provider: providers.VendorLocal}
	}

	e.recorder.Record(providers.VendorLocal, latency, true, "")
	return result
}
