package gemini

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/genai"

	"nail-studio-bot/internal/domain/entity"
	"nail-studio-bot/internal/domain/port"
)

// fallbackPreviewMIMEType is used when a returned image part carries no MIME type.
const fallbackPreviewMIMEType = "image/png"

// contentGenerator is the part of genai.Models the client needs.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Client talks to Gemini for both the palette analysis and the try-on previews.
type Client struct {
	models     contentGenerator
	textModel  string
	imageModel string
}

// NewClient wraps an initialized genai client.
func NewClient(genAIClient *genai.Client, textModel, imageModel string) *Client {
	return newClient(genAIClient.Models, textModel, imageModel)
}

func newClient(models contentGenerator, textModel, imageModel string) *Client {
	return &Client{
		models:     models,
		textModel:  textModel,
		imageModel: imageModel,
	}
}

// NewGenAIClient creates a Gemini API client authenticated with apiKey.
func NewGenAIClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return client, nil
}

// GenerateAnalysis runs the schema-constrained palette analysis.
func (c *Client) GenerateAnalysis(ctx context.Context, request *entity.AnalysisRequest) (string, error) {
	image := request.Image()
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(request.Prompt()),
			genai.NewPartFromBytes(image.Bytes(), image.MIMEType()),
		}, genai.RoleUser),
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(request.SystemInstruction(), genai.RoleUser),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    analysisSchema(),
	}

	slog.Debug("GenerateAnalysis", "model", c.textModel, "mimeType", image.MIMEType(), "dataSize", image.Size())

	resp, err := c.models.GenerateContent(ctx, c.textModel, contents, config)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	// an empty answer is reported as malformed by the caller
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil || resp.Candidates[0].Content == nil {
		return "", nil
	}

	return resp.Text(), nil
}

// SynthesizePreview renders one design onto the captured hand.
func (c *Client) SynthesizePreview(ctx context.Context, request *entity.PreviewRequest) (*entity.ImageInput, error) {
	image := request.Image()
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(image.Bytes(), image.MIMEType()),
			genai.NewPartFromText(request.Prompt()),
		}, genai.RoleUser),
	}

	resp, err := c.models.GenerateContent(ctx, c.imageModel, contents, &genai.GenerateContentConfig{})
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	blob := firstInlineImage(resp)
	if blob == nil {
		slog.Warn("No image data in response", "design", request.DesignName())
		return nil, entity.ErrNoPreview
	}

	mimeType := blob.MIMEType
	if mimeType == "" {
		mimeType = fallbackPreviewMIMEType
	}

	preview, err := entity.NewImageInput(blob.Data, mimeType)
	if err != nil {
		return nil, fmt.Errorf("failed to create image data: %w", err)
	}

	slog.Debug("SynthesizePreview", "design", request.DesignName(), "mimeType", mimeType, "dataSize", preview.Size())
	return &preview, nil
}

// firstInlineImage returns the first inline data part of the first candidate.
func firstInlineImage(resp *genai.GenerateContentResponse) *genai.Blob {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil
	}
	candidate := resp.Candidates[0]
	if candidate == nil || candidate.Content == nil {
		return nil
	}

	for _, part := range candidate.Content.Parts {
		if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
			return part.InlineData
		}
	}
	return nil
}

// analysisSchema is the response schema of the palette analysis.
func analysisSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"colors": {
				Type:  genai.TypeArray,
				Items: &genai.Schema{Type: genai.TypeString},
			},
			"designNames": {
				Type:  genai.TypeArray,
				Items: &genai.Schema{Type: genai.TypeString},
			},
			"explanation": {
				Type: genai.TypeString,
			},
		},
		Required:         []string{"colors", "designNames", "explanation"},
		PropertyOrdering: []string{"colors", "designNames", "explanation"},
	}
}

var (
	_ port.AnalysisGenerator  = (*Client)(nil)
	_ port.PreviewSynthesizer = (*Client)(nil)
)
