package extraction

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"voxform/internal/config"
	"voxform/internal/domain"
	"voxform/internal/metrics"
	"voxform/internal/port"
)

// SystemPrompt fixes the model's role for every extraction call.
const SystemPrompt = "You are a data extraction specialist. Extract structured data from transcripts according to the provided schema. Always return valid JSON."

// Options tunes the completion call.
type Options struct {
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// DefaultOptions favors deterministic output within a bounded token budget.
func DefaultOptions() Options {
	return Options{
		Temperature: 0.1,
		MaxTokens:   2000,
		Timeout:     30 * time.Second,
	}
}

// OptionsFromConfig resolves Options from the extraction config.
func OptionsFromConfig(cfg *config.ExtractionConfig) Options {
	opts := DefaultOptions()
	opts.Temperature = cfg.Temperature
	if cfg.MaxTokens > 0 {
		opts.MaxTokens = cfg.MaxTokens
	}
	opts.Timeout = cfg.Timeout()
	return opts
}

// Extractor turns transcripts into structured data with one completion call,
// falling back to a local keyword analysis on any failure. It implements
// port.TranscriptExtractor.
type Extractor struct {
	provider port.CompletionProvider
	prompts  *PromptBuilder
	opts     Options
	logger   *zap.Logger
	now      func() time.Time
}

// NewExtractor creates an Extractor.
func NewExtractor(provider port.CompletionProvider, prompts *PromptBuilder, opts Options, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{
		provider: provider,
		prompts:  prompts,
		opts:     opts,
		logger:   logger.Named("extractor"),
		now:      time.Now,
	}
}

// Extract never returns an error. Provider, timeout, empty-content and parse
// failures are logged and answered with Fallback. No retries are attempted.
func (e *Extractor) Extract(ctx context.Context, req domain.ExtractionRequest) domain.ExtractionResult {
	e.logger.Debug("processing extraction", zap.String("form_id", req.FormID))

	result, err := e.extract(ctx, req)
	if err != nil {
		stage := Stage("unknown")
		var f *Failure
		if errors.As(err, &f) {
			stage = f.Stage
		}
		fields := []zap.Field{
			zap.String("form_id", req.FormID),
			zap.String("stage", string(stage)),
			zap.Error(err),
		}
		var rlErr *RateLimitError
		if errors.As(err, &rlErr) {
			fields = append(fields, zap.String("provider", rlErr.Provider), zap.Duration("retry_after", rlErr.RetryAfter))
		}
		e.logger.Warn("extraction failed, using fallback", fields...)
		metrics.ExtractionsTotal.WithLabelValues("fallback", string(stage)).Inc()
		return Fallback(req, e.now())
	}

	metrics.ExtractionsTotal.WithLabelValues("ai", "").Inc()
	e.logger.Info("extracted data", zap.String("form_id", req.FormID), zap.Int("fields", len(result)))
	return result
}

func (e *Extractor) extract(ctx context.Context, req domain.ExtractionRequest) (domain.ExtractionResult, error) {
	prompt, err := e.prompts.Build(req)
	if err != nil {
		return nil, &Failure{Stage: StagePrompt, Err: err}
	}

	if e.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.opts.Timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := e.provider.Complete(ctx, port.CompletionRequest{
		SystemPrompt: SystemPrompt,
		UserPrompt:   prompt,
		Temperature:  e.opts.Temperature,
		MaxTokens:    e.opts.MaxTokens,
		JSONMode:     true,
	})
	if err != nil {
		metrics.CompletionDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		return nil, &Failure{Stage: providerStage(ctx, err), Err: err}
	}
	metrics.CompletionDuration.WithLabelValues("ok").Observe(time.Since(start).Seconds())

	if resp == nil || resp.Content == nil || strings.TrimSpace(*resp.Content) == "" {
		return nil, &Failure{Stage: StageEmpty, Err: ErrEmptyContent}
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal([]byte(*resp.Content), &parsed); err != nil {
		return nil, &Failure{Stage: StageParse, Err: fmt.Errorf("parsing model JSON output: %w (raw: %s)", err, Truncate(*resp.Content, 500))}
	}
	if parsed == nil {
		return nil, &Failure{Stage: StageParse, Err: ErrNotObject}
	}

	violations, err := CheckContract(req.Schema, parsed)
	if err != nil {
		e.logger.Warn("could not check model output contract", zap.String("form_id", req.FormID), zap.Error(err))
	} else if len(violations) > 0 {
		metrics.ContractViolationsTotal.Inc()
		e.logger.Warn("model output does not match schema",
			zap.String("form_id", req.FormID),
			zap.Strings("violations", violations),
		)
	}

	result := domain.ExtractionResult(parsed)
	// provenance flags are owned by the pipeline, not the model
	delete(result, domain.KeyFallback)
	result[domain.KeyAIProcessed] = true
	result[domain.KeyProcessedAt] = e.now().UTC().Format(time.RFC3339)
	result[domain.KeyWordCount] = domain.WordCount(req.Transcript)
	return result, nil
}

func providerStage(ctx context.Context, err error) Stage {
	var rlErr *RateLimitError
	switch {
	case errors.As(err, &rlErr):
		return StageRateLimited
	case errors.Is(err, context.DeadlineExceeded), errors.Is(ctx.Err(), context.DeadlineExceeded):
		return StageTimeout
	default:
		return StageProvider
	}
}
