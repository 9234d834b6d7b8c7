package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rename_gateway/internal/config"
	"rename_gateway/internal/logging"
	"rename_gateway/internal/metrics"
	"rename_gateway/internal/models"
	"rename_gateway/internal/providers"
)

type fakeTextGenerator struct {
	mu        sync.Mutex
	calls     []string
	maxTokens []int
	respond   func(model string) (string, error)
}

func (f *fakeTextGenerator) GenerateText(ctx context.Context, model, prompt, systemPrompt string, maxTokens int) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, model)
	f.maxTokens = append(f.maxTokens, maxTokens)
	f.mu.Unlock()
	return f.respond(model)
}

type fakeVisionGenerator struct {
	mu      sync.Mutex
	calls   []string
	respond func(model string) (string, error)
}

func (f *fakeVisionGenerator) GenerateVision(ctx context.Context, model, prompt, systemPrompt, imageBase64 string, maxTokens int) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, model)
	f.mu.Unlock()
	return f.respond(model)
}

type fakeOCRExtractor struct {
	text       string
	confidence float64
	err        error
	calls      int
}

func (f *fakeOCRExtractor) ExtractText(ctx context.Context, image []byte, quality models.OCRQuality) (string, float64, error) {
	f.calls++
	return f.text, f.confidence, f.err
}

type fakeLocalExtractor struct {
	result models.OcrResult
	err    error
	calls  int
}

func (f *fakeLocalExtractor) Extract(image []byte) (models.OcrResult, error) {
	f.calls++
	return f.result, f.err
}

func succeedWith(content string) func(string) (string, error) {
	return func(string) (string, error) { return content, nil }
}

func failWith(msg string) func(string) (string, error) {
	return func(string) (string, error) { return "", errors.New(msg) }
}

func newTestEngine(t *testing.T, registry *providers.Registry, local LocalExtractor) (*Engine, *metrics.Recorder) {
	t.Helper()
	recorder := metrics.NewRecorder(nil, logging.NewNop())
	eng := New(registry, recorder, local, config.EngineConfig{
		AttemptTimeout: time.Second,
		AnalyzeFanout:  2,
	}, logging.NewNop())
	return eng, recorder
}

func TestRoute_FirstSuccessWins(t *testing.T) {
	registry := providers.NewEmptyRegistry()
	openai := &fakeTextGenerator{respond: succeedWith("from openai")}
	gemini := &fakeTextGenerator{respond: succeedWith("from gemini")}
	registry.RegisterText(providers.VendorOpenAI, openai)
	registry.RegisterText(providers.VendorGemini, gemini)

	eng, recorder := newTestEngine(t, registry, nil)

	// Default stage on the free plan tries the secondary model first.
	resp := eng.Route(context.Background(), models.ProviderRequest{
		Kind:   models.ContentText,
		Prompt: "hello",
	}, "free")

	require.True(t, resp.Success)
	assert.Equal(t, "from gemini", resp.Content)
	assert.Equal(t, providers.VendorGemini, resp.Provider)
	assert.Equal(t, "gemini-1.5-flash", resp.Model)
	assert.Empty(t, openai.calls)

	row, ok := recorder.Get(providers.VendorGemini)
	require.True(t, ok)
	assert.Equal(t, int64(1), row.RequestCount)
	assert.Equal(t, int64(1), row.SuccessCount)
}

func TestRoute_FallsBackToNextCandidate(t *testing.T) {
	registry := providers.NewEmptyRegistry()
	openai := &fakeTextGenerator{respond: succeedWith("rescued")}
	gemini := &fakeTextGenerator{respond: failWith("rate limited")}
	registry.RegisterText(providers.VendorOpenAI, openai)
	registry.RegisterText(providers.VendorGemini, gemini)

	eng, recorder := newTestEngine(t, registry, nil)

	resp := eng.Route(context.Background(), models.ProviderRequest{
		Kind:   models.ContentText,
		Prompt: "hello",
	}, "free")

	require.True(t, resp.Success)
	assert.Equal(t, "rescued", resp.Content)
	assert.Equal(t, "gpt-4o-mini", resp.Model)
	assert.Equal(t, []string{"gemini-1.5-flash"}, gemini.calls)
	assert.Equal(t, []string{"gpt-4o-mini"}, openai.calls)

	geminiRow, ok := recorder.Get(providers.VendorGemini)
	require.True(t, ok)
	assert.Equal(t, int64(1), geminiRow.ErrorCount)
	assert.Equal(t, "rate limited", geminiRow.LastErrorMessage)

	openaiRow, ok := recorder.Get(providers.VendorOpenAI)
	require.True(t, ok)
	assert.Equal(t, int64(1), openaiRow.SuccessCount)
}

func TestRoute_SkipsUnconfiguredVendorsSilently(t *testing.T) {
	registry := providers.NewEmptyRegistry()
	openai := &fakeTextGenerator{respond: succeedWith("ok")}
	registry.RegisterText(providers.VendorOpenAI, openai)

	eng, recorder := newTestEngine(t, registry, nil)

	resp := eng.Route(context.Background(), models.ProviderRequest{
		Kind:   models.ContentText,
		Prompt: "hello",
	}, "free")

	require.True(t, resp.Success)
	assert.Equal(t, "gpt-4o-mini", resp.Model)

	// A skipped vendor is not an error and must not show up in metrics.
	_, ok := recorder.Get(providers.VendorGemini)
	assert.False(t, ok)
}

func TestRoute_ExhaustionJoinsReasonsInChainOrder(t *testing.T) {
	registry := providers.NewEmptyRegistry()
	registry.RegisterText(providers.VendorOpenAI, &fakeTextGenerator{respond: failWith("unavailable")})
	registry.RegisterText(providers.VendorGemini, &fakeTextGenerator{respond: failWith("unavailable")})

	eng, recorder := newTestEngine(t, registry, nil)

	resp := eng.Route(context.Background(), models.ProviderRequest{
		Kind:   models.ContentText,
		Prompt: "hello",
	}, "free")

	require.False(t, resp.Success)
	assert.Equal(t,
		"gemini-1.5-flash: unavailable; gpt-4o-mini: unavailable; gpt-3.5-turbo: unavailable; gemini-1.5-flash-8b: unavailable",
		resp.Error)

	openaiRow, _ := recorder.Get(providers.VendorOpenAI)
	geminiRow, _ := recorder.Get(providers.VendorGemini)
	assert.Equal(t, int64(2), openaiRow.ErrorCount)
	assert.Equal(t, int64(2), geminiRow.ErrorCount)
	assert.Equal(t, openaiRow.RequestCount, openaiRow.SuccessCount+openaiRow.ErrorCount)
}

func TestRoute_EmptyChainIsWellFormedFailure(t *testing.T) {
	eng, recorder := newTestEngine(t, providers.NewEmptyRegistry(), nil)

	resp := eng.Route(context.Background(), models.ProviderRequest{
		Kind:   models.ContentText,
		Prompt: "hello",
	}, "free")

	assert.False(t, resp.Success)
	assert.Empty(t, resp.Error)
	assert.Empty(t, recorder.List())
}

func TestRoute_MaxTokensFromSpeedTier(t *testing.T) {
	tests := []struct {
		name      string
		plan      string
		requested int
		want      int
	}{
		{name: "free defaults to standard", plan: "free", want: 1024},
		{name: "pro defaults to fast", plan: "pro", want: 2048},
		{name: "unlimited defaults to instant", plan: "unlimited", want: 4096},
		{name: "explicit value wins", plan: "unlimited", requested: 77, want: 77},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := providers.NewEmptyRegistry()
			openai := &fakeTextGenerator{respond: succeedWith("ok")}
			gemini := &fakeTextGenerator{respond: succeedWith("ok")}
			anthropic := &fakeTextGenerator{respond: succeedWith("ok")}
			registry.RegisterText(providers.VendorOpenAI, openai)
			registry.RegisterText(providers.VendorGemini, gemini)
			registry.RegisterText(providers.VendorAnthropic, anthropic)

			eng, _ := newTestEngine(t, registry, nil)

			resp := eng.Route(context.Background(), models.ProviderRequest{
				Kind:      models.ContentText,
				Prompt:    "hello",
				MaxTokens: tt.requested,
			}, tt.plan)
			require.True(t, resp.Success)

			var got []int
			got = append(got, openai.maxTokens...)
			for _, f := range []*fakeTextGenerator{gemini, anthropic} {
				got = append(got, f.maxTokens...)
			}
			require.Len(t, got, 1)
			assert.Equal(t, tt.want, got[0])
		})
	}
}

func TestRoute_StageStructureStartsFromPrimary(t *testing.T) {
	registry := providers.NewEmptyRegistry()
	openai := &fakeTextGenerator{respond: succeedWith("ok")}
	registry.RegisterText(providers.VendorOpenAI, openai)
	registry.RegisterText(providers.VendorGemini, &fakeTextGenerator{respond: succeedWith("ok")})

	eng, _ := newTestEngine(t, registry, nil)

	resp := eng.Route(context.Background(), models.ProviderRequest{
		Kind:   models.ContentText,
		Prompt: "hello",
		Stage:  models.StageStructure,
	}, "pro")

	require.True(t, resp.Success)
	assert.Equal(t, "gpt-4o", resp.Model)
}

func TestRoute_BasicStructureOverrideModel(t *testing.T) {
	registry := providers.NewEmptyRegistry()
	openai := &fakeTextGenerator{respond: succeedWith("ok")}
	registry.RegisterText(providers.VendorOpenAI, openai)

	eng, _ := newTestEngine(t, registry, nil)

	resp := eng.Route(context.Background(), models.ProviderRequest{
		Kind:   models.ContentText,
		Prompt: "hello",
		Stage:  models.StageStructure,
	}, "basic")

	require.True(t, resp.Success)
	assert.Equal(t, "gpt-4o", resp.Model)
	assert.Equal(t, []string{"gpt-4o"}, openai.calls)
}

func TestRoute_CancelledContextStartsNoCandidates(t *testing.T) {
	registry := providers.NewEmptyRegistry()
	openai := &fakeTextGenerator{respond: succeedWith("ok")}
	registry.RegisterText(providers.VendorOpenAI, openai)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	eng, recorder := newTestEngine(t, registry, nil)
	resp := eng.Route(ctx, models.ProviderRequest{
		Kind:   models.ContentText,
		Prompt: "hello",
	}, "free")

	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, context.Canceled.Error())
	assert.Empty(t, openai.calls)
	assert.Empty(t, recorder.List())
}

func TestRoute_VisionUsesVisionAdapters(t *testing.T) {
	registry := providers.NewEmptyRegistry()
	text := &fakeTextGenerator{respond: succeedWith("text path")}
	vision := &fakeVisionGenerator{respond: succeedWith("a cat photo")}
	registry.RegisterText(providers.VendorGemini, text)
	registry.RegisterVision(providers.VendorGemini, vision)

	eng, _ := newTestEngine(t, registry, nil)

	resp := eng.Route(context.Background(), models.ProviderRequest{
		Kind:        models.ContentVision,
		Prompt:      "describe",
		ImageBase64: "aGk=",
	}, "free")

	require.True(t, resp.Success)
	assert.Equal(t, "a cat photo", resp.Content)
	assert.Empty(t, text.calls)
}

func TestExtractTextFromImage_RemoteSuccess(t *testing.T) {
	registry := providers.NewEmptyRegistry()
	remote := &fakeOCRExtractor{text: "invoice total 42", confidence: 0.9}
	registry.RegisterOCR(providers.VendorGemini, remote)

	local := &fakeLocalExtractor{}
	eng, recorder := newTestEngine(t, registry, local)

	// The pro plan's OCR chain starts with gemini.
	result := eng.ExtractTextFromImage(context.Background(), []byte("img"), "scan", "pro")

	assert.Equal(t, "invoice total 42", result.Text)
	assert.Equal(t, 0.9, result.Confidence)
	assert.Equal(t, "scan", result.Method)
	assert.Equal(t, providers.VendorGemini, result.Provider)
	assert.Equal(t, 0, local.calls)

	row, ok := recorder.Get(providers.VendorGemini)
	require.True(t, ok)
	assert.Equal(t, int64(1), row.SuccessCount)
}

func TestExtractTextFromImage_FallsBackToLocal(t *testing.T) {
	local := &fakeLocalExtractor{result: models.OcrResult{
		Text:       "from tesseract",
		Confidence: 0.6,
		Method:     "tesseract",
		Provider:   providers.VendorLocal,
	}}

	eng, recorder := newTestEngine(t, providers.NewEmptyRegistry(), local)

	result := eng.ExtractTextFromImage(context.Background(), []byte("img"), "", "free")

	assert.Equal(t, "from tesseract", result.Text)
	assert.Equal(t, providers.VendorLocal, result.Provider)
	assert.Equal(t, 1, local.calls)

	row, ok := recorder.Get(providers.VendorLocal)
	require.True(t, ok)
	assert.Equal(t, int64(1), row.SuccessCount)
}

func TestExtractTextFromImage_RemoteFailureThenLocal(t *testing.T) {
	registry := providers.NewEmptyRegistry()
	remote := &fakeOCRExtractor{err: errors.New("bad image")}
	registry.RegisterOCR(providers.VendorOCRSpace, remote)

	local := &fakeLocalExtractor{result: models.OcrResult{
		Text: "recovered", Confidence: 0.5, Method: "tesseract", Provider: providers.VendorLocal,
	}}
	eng, recorder := newTestEngine(t, registry, local)

	result := eng.ExtractTextFromImage(context.Background(), []byte("img"), "", "free")

	assert.Equal(t, "recovered", result.Text)
	assert.Equal(t, 1, remote.calls)

	row, ok := recorder.Get(providers.VendorOCRSpace)
	require.True(t, ok)
	assert.Equal(t, int64(1), row.ErrorCount)
}

func TestExtractTextFromImage_NeverHardFails(t *testing.T) {
	local := &fakeLocalExtractor{err: errors.New("tesseract missing")}
	eng, _ := newTestEngine(t, providers.NewEmptyRegistry(), local)

	result := eng.ExtractTextFromImage(context.Background(), []byte("img"), "", "free")

	assert.Empty(t, result.Text)
	assert.Zero(t, result.Confidence)
	assert.Equal(t, providers.VendorLocal, result.Provider)
}

func TestExtractTextFromImage_NilLocalExtractor(t *testing.T) {
	eng, _ := newTestEngine(t, providers.NewEmptyRegistry(), nil)

	result := eng.ExtractTextFromImage(context.Background(), []byte("img"), "", "free")

	assert.Empty(t, result.Text)
	assert.Equal(t, providers.VendorLocal, result.Provider)
}

func TestGenerateSuggestedName_RepairsUnstructuredOutput(t *testing.T) {
	registry := providers.NewEmptyRegistry()
	gemini := &fakeTextGenerator{respond: failWith("unavailable")}
	openai := &fakeTextGenerator{respond: succeedWith("not json")}
	registry.RegisterText(providers.VendorGemini, gemini)
	registry.RegisterText(providers.VendorOpenAI, openai)

	eng, recorder := newTestEngine(t, registry, nil)

	result := eng.GenerateSuggestedName(context.Background(),
		"quarterly report contents", "scan001.pdf", "pdf", "free", "")

	assert.Equal(t, "not_json", result.SuggestedName)
	assert.Equal(t, 0.4, result.Confidence)
	assert.Equal(t, "recovered from unstructured model output", result.Reasoning)

	rows := recorder.List()
	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.Equal(t, row.RequestCount, row.SuccessCount+row.ErrorCount)
	}
}

func TestGenerateSuggestedName_ParsesVendorJSON(t *testing.T) {
	registry := providers.NewEmptyRegistry()
	registry.RegisterText(providers.VendorGemini, &fakeTextGenerator{
		respond: succeedWith(`{"suggested_name": "q3 revenue report", "confidence": 0.92, "reasoning": "title page"}`),
	})

	eng, _ := newTestEngine(t, registry, nil)

	result := eng.GenerateSuggestedName(context.Background(), "...", "doc.pdf", "pdf", "free", "")

	assert.Equal(t, "q3_revenue_report", result.SuggestedName)
	assert.Equal(t, 0.92, result.Confidence)
	assert.Equal(t, "title page", result.Reasoning)
}

func TestGenerateSuggestedName_NoProvidersKeepsOriginalStem(t *testing.T) {
	eng, _ := newTestEngine(t, providers.NewEmptyRegistry(), nil)

	result := eng.GenerateSuggestedName(context.Background(), "...", "Invoice Q3.pdf", "pdf", "free", "")

	assert.Equal(t, "Invoice_Q3", result.SuggestedName)
	assert.Equal(t, 0.1, result.Confidence)
	assert.NotEmpty(t, result.Reasoning)
}

func TestPlanFolderStructure_ParsesVendorPlan(t *testing.T) {
	registry := providers.NewEmptyRegistry()
	openai := &fakeTextGenerator{respond: succeedWith(
		`{"folders": [{"name": "invoices", "files": ["a.pdf"]}, {"name": "photos", "files": ["b.jpg"]}], "confidence": 0.8, "reasoning": "by type"}`,
	)}
	registry.RegisterText(providers.VendorOpenAI, openai)

	eng, _ := newTestEngine(t, registry, nil)

	plan := eng.PlanFolderStructure(context.Background(), []string{"a.pdf", "b.jpg"}, "pro", "")

	require.Len(t, plan.Folders, 2)
	assert.Equal(t, "invoices", plan.Folders[0].Name)
	assert.Equal(t, 0.8, plan.Confidence)

	// Stage-"a" work starts from the primary model.
	assert.Equal(t, []string{"gpt-4o"}, openai.calls)
}

func TestPlanFolderStructure_NeverHardFails(t *testing.T) {
	eng, _ := newTestEngine(t, providers.NewEmptyRegistry(), nil)

	files := []string{"a.pdf", "b.jpg"}
	plan := eng.PlanFolderStructure(context.Background(), files, "free", "")

	require.Len(t, plan.Folders, 1)
	assert.Equal(t, "documents", plan.Folders[0].Name)
	assert.Equal(t, files, plan.Folders[0].Files)
}

func TestAnalyzeImages_BoundedFanOutKeepsOrder(t *testing.T) {
	registry := providers.NewEmptyRegistry()
	registry.RegisterVision(providers.VendorGemini, &fakeVisionGenerator{
		respond: succeedWith("a scanned receipt"),
	})

	eng, _ := newTestEngine(t, registry, nil)

	images := []ImageInput{
		{FileName: "one.jpg", ImageBase64: "YQ=="},
		{FileName: "two.jpg", ImageBase64: "Yg=="},
		{FileName: "three.jpg", ImageBase64: "Yw=="},
	}
	results := eng.AnalyzeImages(context.Background(), images, "free")

	require.Len(t, results, 3)
	for i, r := range results {
		assert.Equal(t, images[i].FileName, r.FileName)
		assert.Equal(t, "a scanned receipt", r.Description)
		assert.Empty(t, r.Err)
	}
}

func TestAnalyzeImages_PerImageFailureDoesNotAbortBatch(t *testing.T) {
	registry := providers.NewEmptyRegistry()
	registry.RegisterVision(providers.VendorGemini, &fakeVisionGenerator{
		respond: failWith("overloaded"),
	})

	eng, _ := newTestEngine(t, registry, nil)

	results := eng.AnalyzeImages(context.Background(), []ImageInput{
		{FileName: "one.jpg", ImageBase64: "YQ=="},
		{FileName: "two.jpg", ImageBase64: "Yg=="},
	}, "free")

	require.Len(t, results, 2)
	for _, r := range results {
		assert.Empty(t, r.Description)
		assert.Contains(t, r.Err, "overloaded")
	}
}

func TestProviderStatus(t *testing.T) {
	registry := providers.NewEmptyRegistry()
	registry.RegisterText(providers.VendorOpenAI, &fakeTextGenerator{respond: succeedWith("ok")})

	eng, _ := newTestEngine(t, registry, nil)

	status := eng.ProviderStatus()
	assert.True(t, status[providers.VendorOpenAI].Available)
}
