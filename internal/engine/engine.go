package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"rename_gateway/internal/config"
	"rename_gateway/internal/metrics"
	"rename_gateway/internal/models"
	"rename_gateway/internal/providers"
	"rename_gateway/internal/tier"
)

// LocalExtractor is the no-network OCR floor invoked when every remote
// vendor is unconfigured or has failed.
type LocalExtractor interface {
	Extract(image []byte) (models.OcrResult, error)
}

// Engine routes generation and OCR work through tier-ordered provider
// chains. Candidates are tried strictly one at a time because the
// chain encodes a cost and quality preference order; the first success
// must win deterministically.
type Engine struct {
	registry *providers.Registry
	recorder *metrics.Recorder
	local    LocalExtractor

	attemptTimeout time.Duration
	analyzeFanout  int

	log *zap.Logger
}

// New creates an engine. local may be nil when no Tesseract install is
// available; the OCR path then degrades to an empty result instead of
// panicking.
func New(registry *providers.Registry, recorder *metrics.Recorder, local LocalExtractor, cfg config.EngineConfig, log *zap.Logger) *Engine {
	timeout := cfg.AttemptTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	fanout := cfg.AnalyzeFanout
	if fanout <= 0 {
		fanout = 4
	}

	return &Engine{
		registry:       registry,
		recorder:       recorder,
		local:          local,
		attemptTimeout: timeout,
		analyzeFanout:  fanout,
		log:            log,
	}
}

// Route resolves the plan's model chain for the request's capability
// and stage, then walks it sequentially: unconfigured vendors are
// skipped silently, each attempt runs under its own deadline, and
// every attempt is recorded in metrics keyed by vendor before the next
// candidate is tried. On exhaustion the response carries every
// candidate's failure reason in chain order.
func (e *Engine) Route(ctx context.Context, req models.ProviderRequest, plan string) models.ProviderResponse {
	cfg := tier.Resolve(plan)

	stage := req.Stage
	if stage == "" {
		stage = models.StageDefault
	}
	chain := tier.ModelChain(cfg, stage)

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = tier.DefaultMaxTokens(tier.SpeedTier(cfg.Plan))
	}

	requestID := uuid.NewString()
	var reasons []string

	for _, model := range chain {
		// Stop starting new candidates once the caller has gone away.
		if err := ctx.Err(); err != nil {
			reasons = append(reasons, err.Error())
			break
		}

		vendor := providers.VendorForModel(model)

		var adapter func(context.Context) (string, error)
		switch req.Kind {
		case models.ContentVision:
			p, ok := e.registry.Vision(vendor)
			if !ok {
				continue
			}
			adapter = func(actx context.Context) (string, error) {
				return p.GenerateVision(actx, model, req.Prompt, req.SystemPrompt, req.ImageBase64, maxTokens)
			}
		default:
			p, ok := e.registry.Text(vendor)
			if !ok {
				continue
			}
			adapter = func(actx context.Context) (string, error) {
				return p.GenerateText(actx, model, req.Prompt, req.SystemPrompt, maxTokens)
			}
		}

		attemptCtx, cancel := context.WithTimeout(ctx, e.attemptTimeout)
		start := time.Now()
		content, err := adapter(attemptCtx)
		latency := time.Since(start).Milliseconds()
		cancel()

		if err != nil {
			e.recorder.Record(vendor, latency, false, err.Error())
			reasons = append(reasons, fmt.Sprintf("%s: %s", model, err.Error()))
			e.log.Warn("candidate failed",
				zap.String("request_id", requestID),
				zap.String("model", model),
				zap.String("vendor", vendor),
				zap.Int64("latency_ms", latency),
				zap.Error(err))
			continue
		}

		e.recorder.Record(vendor, latency, true, "")
		e.log.Debug("candidate succeeded",
			zap.String("request_id", requestID),
			zap.String("model", model),
			zap.String("vendor", vendor),
			zap.Int64("latency_ms", latency))

		return models.ProviderResponse{
			Content:   content,
			Provider:  vendor,
			Model:     model,
			LatencyMS: latency,
			Success:   true,
		}
	}

	return models.ProviderResponse{
		Success: false,
		Error:   strings.Join(reasons, "; "),
	}
}

// ProviderStatus reports which vendors are configured and why the rest
// are not. It reflects startup configuration, not live health.
func (e *Engine) ProviderStatus() map[string]providers.Status {
	return e.registry.Status()
}
