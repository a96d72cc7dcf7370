package port

import (
	"context"

	"nail-studio-bot/internal/domain/entity"
)

// AnalysisGenerator is the structured-generation capability of the remote model.
type AnalysisGenerator interface {
	// GenerateAnalysis returns the raw JSON text produced for the request
	GenerateAnalysis(ctx context.Context, request *entity.AnalysisRequest) (string, error)
}

// PreviewSynthesizer is the image-synthesis capability of the remote model.
type PreviewSynthesizer interface {
	// SynthesizePreview returns the try-on image or entity.ErrNoPreview
	SynthesizePreview(ctx context.Context, request *entity.PreviewRequest) (*entity.ImageInput, error)
}
