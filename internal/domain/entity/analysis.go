package entity

import (
	"errors"
	"fmt"
	"strings"
)

// Expected shape of a palette answer. Deviations are tolerated.
const (
	ExpectedColorCount  = 5
	ExpectedDesignCount = 3
)

const (
	analysisPrompt = "Analiza esta mano."

	analysisSystemInstruction = `Eres un experto mundial en manicura de lujo. Analiza la foto de la mano y devuelve JSON:
1. 'colors': 5 códigos HEX elegantes.
2. 'designNames': 3 nombres de diseños tendencia 2026.
3. 'explanation': Breve razón estética (en español).
RESPONDE SOLO JSON.`

	previewPromptTemplate = `Realistic virtual try-on: Apply professional nail art "%s" to the fingernails. Realistic lighting, perfect fit.`
)

// AnalysisRequest is the structured-generation request for one captured hand.
type AnalysisRequest struct {
	image ImageInput
}

func NewAnalysisRequest(image ImageInput) *AnalysisRequest {
	return &AnalysisRequest{image: image}
}

func (r *AnalysisRequest) Image() ImageInput {
	return r.image
}

func (r *AnalysisRequest) Prompt() string {
	return analysisPrompt
}

func (r *AnalysisRequest) SystemInstruction() string {
	return analysisSystemInstruction
}

// PreviewRequest asks for one design composited onto the captured hand.
type PreviewRequest struct {
	image      ImageInput
	designName string
}

func NewPreviewRequest(image ImageInput, designName string) *PreviewRequest {
	return &PreviewRequest{image: image, designName: designName}
}

func (r *PreviewRequest) Image() ImageInput {
	return r.image
}

func (r *PreviewRequest) DesignName() string {
	return r.designName
}

func (r *PreviewRequest) Prompt() string {
	return fmt.Sprintf(previewPromptTemplate, r.designName)
}

// StructuredAnalysis is the palette answer of the text model.
type StructuredAnalysis struct {
	Colors      []string `json:"colors"`
	DesignNames []string `json:"designNames"`
	Explanation string   `json:"explanation"`
}

// DesignPreview pairs a design with its synthesized try-on image.
type DesignPreview struct {
	DesignName string
	Image      ImageInput
}

// NailAnalysisResult is the analysis plus the previews that were synthesized.
// Previews keep the relative order of DesignNames; failed designs are absent.
type NailAnalysisResult struct {
	ID string
	StructuredAnalysis
	Previews []DesignPreview
}

// MissingPreviews lists design names without a preview.
func (r *NailAnalysisResult) MissingPreviews() []string {
	have := make(map[string]int, len(r.Previews))
	for _, p := range r.Previews {
		have[p.DesignName]++
	}

	var missing []string
	for _, name := range r.DesignNames {
		if have[name] > 0 {
			have[name]--
			continue
		}
		missing = append(missing, name)
	}
	return missing
}

// ErrNoPreview means the synthesis call returned no inline image.
var ErrNoPreview = errors.New("no preview image in response")

// Kinds of AnalysisError.
var (
	ErrInvalidInput      = errors.New("invalid analysis input")
	ErrRequestFailure    = errors.New("analysis request failed")
	ErrMalformedResponse = errors.New("malformed analysis response")
)

// AnalysisError is the only error Analyze returns.
type AnalysisError struct {
	Kind error
	Err  error
}

func (e *AnalysisError) Error() string {
	if e.Err == nil {
		return e.Kind.Error()
	}
	return e.Kind.Error() + ": " + e.Err.Error()
}

func (e *AnalysisError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Validate checks that the lists are present and every design has a name.
// An empty explanation is valid.
func (a *StructuredAnalysis) Validate() error {
	var problems []string
	if a.Colors == nil {
		problems = append(problems, "colors is missing")
	}
	if a.DesignNames == nil {
		problems = append(problems, "designNames is missing")
	}
	for i, name := range a.DesignNames {
		if strings.TrimSpace(name) == "" {
			problems = append(problems, fmt.Sprintf("designNames[%d] is empty", i))
		}
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}
