package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"nail-studio-bot/internal/domain/entity"
	"nail-studio-bot/internal/domain/port"
)

// AnalysisSettings tunes the preview fan-out.
type AnalysisSettings struct {
	// MaxParallel caps concurrent synthesis calls; 0 runs all at once.
	MaxParallel int
	// Limiter paces synthesis calls; nil disables pacing.
	Limiter *rate.Limiter
}

// AnalysisService analyzes a hand photo and synthesizes a preview per design.
type AnalysisService struct {
	generator   port.AnalysisGenerator
	synthesizer port.PreviewSynthesizer
	settings    AnalysisSettings
	newID       func() string
}

// NewAnalysisService creates the two-step analysis pipeline.
func NewAnalysisService(generator port.AnalysisGenerator, synthesizer port.PreviewSynthesizer, settings AnalysisSettings) *AnalysisService {
	return &AnalysisService{
		generator:   generator,
		synthesizer: synthesizer,
		settings:    settings,
		newID:       uuid.NewString,
	}
}

// Analyze runs the structured analysis and then the preview fan-out.
// It fails only with *entity.AnalysisError; preview failures are dropped.
func (s *AnalysisService) Analyze(ctx context.Context, image entity.ImageInput) (*entity.NailAnalysisResult, error) {
	id := s.newID()
	logger := slog.With("analysis_id", id)

	if image.IsZero() {
		return nil, &entity.AnalysisError{Kind: entity.ErrInvalidInput, Err: entity.ErrInvalidImage}
	}

	logger.Info("Starting analysis", "mime_type", image.MIMEType(), "size", image.Size())
	startTime := time.Now()

	text, err := s.generator.GenerateAnalysis(ctx, entity.NewAnalysisRequest(image))
	if err != nil {
		logger.Error("Structured analysis failed", "error", err)
		return nil, &entity.AnalysisError{Kind: entity.ErrRequestFailure, Err: err}
	}

	analysis, err := parseAnalysis(text)
	if err != nil {
		logger.Error("Structured analysis is malformed", "error", err, "response_size", len(text))
		return nil, &entity.AnalysisError{Kind: entity.ErrMalformedResponse, Err: err}
	}

	if len(analysis.Colors) != entity.ExpectedColorCount || len(analysis.DesignNames) != entity.ExpectedDesignCount {
		logger.Warn("Unexpected palette shape",
			"colors", len(analysis.Colors),
			"designs", len(analysis.DesignNames))
	}

	previews := s.synthesizePreviews(ctx, logger, image, analysis.DesignNames)

	logger.Info("Analysis completed",
		"designs", len(analysis.DesignNames),
		"previews", len(previews),
		"duration", time.Since(startTime).Round(time.Millisecond))

	return &entity.NailAnalysisResult{
		ID:                 id,
		StructuredAnalysis: *analysis,
		Previews:           previews,
	}, nil
}

// synthesizePreviews issues one synthesis call per design and keeps the successes.
func (s *AnalysisService) synthesizePreviews(ctx context.Context, logger *slog.Logger, image entity.ImageInput, designNames []string) []entity.DesignPreview {
	outcomes := settleAll(ctx, len(designNames), s.settings.MaxParallel,
		func(ctx context.Context, i int) (entity.DesignPreview, error) {
			name := designNames[i]
			if s.settings.Limiter != nil {
				if err := s.settings.Limiter.Wait(ctx); err != nil {
					return entity.DesignPreview{}, fmt.Errorf("wait for rate limiter: %w", err)
				}
			}

			img, err := s.synthesizer.SynthesizePreview(ctx, entity.NewPreviewRequest(image, name))
			if err != nil {
				return entity.DesignPreview{}, err
			}
			if img == nil || img.IsZero() {
				return entity.DesignPreview{}, entity.ErrNoPreview
			}
			return entity.DesignPreview{DesignName: name, Image: *img}, nil
		})

	previews := make([]entity.DesignPreview, 0, len(outcomes))
	for i, o := range outcomes {
		if !o.OK() {
			logger.Warn("Preview skipped", "design_index", i+1, "design", designNames[i], "error", o.Err)
			continue
		}
		previews = append(previews, o.Value)
	}
	return previews
}

// parseAnalysis decodes and validates the structured answer.
func parseAnalysis(text string) (*entity.StructuredAnalysis, error) {
	if text == "" {
		return nil, errors.New("empty response")
	}

	// pointer field tells an absent explanation from an empty one
	var raw struct {
		Colors      []string `json:"colors"`
		DesignNames []string `json:"designNames"`
		Explanation *string  `json:"explanation"`
	}
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	analysis := entity.StructuredAnalysis{
		Colors:      raw.Colors,
		DesignNames: raw.DesignNames,
	}
	if err := analysis.Validate(); err != nil {
		return nil, err
	}
	if raw.Explanation == nil {
		return nil, errors.New("explanation is missing")
	}
	analysis.Explanation = *raw.Explanation
	return &analysis, nil
}
