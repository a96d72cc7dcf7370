package app

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"nail-studio-bot/internal/domain/entity"
)

const scenarioAnalysis = `{
	"colors": ["#F5C6D0", "#111111", "#FFFFFF", "#C9A96E", "#7A3B46"],
	"designNames": ["French Chrome", "Ombré Rosé", "Minimalist Line Art"],
	"explanation": "Tono cálido, piel media."
}`

var jpegBytes = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F'}

func testImage(t *testing.T) entity.ImageInput {
	t.Helper()

	img, err := entity.NewImageInput(jpegBytes, "image/jpeg")
	require.NoError(t, err)
	return img
}

type fakeGenerator struct {
	text  string
	err   error
	calls int
	got   *entity.AnalysisRequest
}

func (g *fakeGenerator) GenerateAnalysis(ctx context.Context, request *entity.AnalysisRequest) (string, error) {
	g.calls++
	g.got = request
	return g.text, g.err
}

// fakeSynthesizer returns a PNG named after the design unless the design fails.
type fakeSynthesizer struct {
	mu      sync.Mutex
	calls   map[string]int
	failing map[string]error
	// hook runs before the answer, e.g. to reorder completions
	hook func(design string)
}

func newFakeSynthesizer() *fakeSynthesizer {
	return &fakeSynthesizer{
		calls:   make(map[string]int),
		failing: make(map[string]error),
	}
}

func (s *fakeSynthesizer) fail(design string, err error) *fakeSynthesizer {
	s.failing[design] = err
	return s
}

func (s *fakeSynthesizer) SynthesizePreview(ctx context.Context, request *entity.PreviewRequest) (*entity.ImageInput, error) {
	s.mu.Lock()
	s.calls[request.DesignName()]++
	err, failing := s.failing[request.DesignName()]
	s.mu.Unlock()

	if s.hook != nil {
		s.hook(request.DesignName())
	}
	if failing {
		return nil, err
	}

	img, imgErr := entity.NewImageInput([]byte("\x89PNG\r\n\x1a\n"+request.DesignName()), "image/png")
	if imgErr != nil {
		return nil, imgErr
	}
	return &img, nil
}

func (s *fakeSynthesizer) totalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, c := range s.calls {
		n += c
	}
	return n
}

var errRemote = errors.New("remote error")
