package entity

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPreviewRequest_Prompt(t *testing.T) {
	r := NewPreviewRequest(ImageInput{}, "French Chrome")
	require.Equal(t,
		`Realistic virtual try-on: Apply professional nail art "French Chrome" to the fingernails. Realistic lighting, perfect fit.`,
		r.Prompt())
	require.Equal(t, "French Chrome", r.DesignName())
}

func TestAnalysisRequest_FixedInstructions(t *testing.T) {
	r := NewAnalysisRequest(ImageInput{})
	require.Equal(t, "Analiza esta mano.", r.Prompt())
	require.Contains(t, r.SystemInstruction(), "manicura de lujo")
	require.Contains(t, r.SystemInstruction(), "designNames")
}

func TestStructuredAnalysis_Validate(t *testing.T) {
	ok := StructuredAnalysis{
		Colors:      []string{"#F5C6D0"},
		DesignNames: []string{"French Chrome"},
		Explanation: "Tono cálido.",
	}
	require.NoError(t, ok.Validate())

	require.ErrorContains(t, (&StructuredAnalysis{}).Validate(), "colors is missing")

	blank := ok
	blank.DesignNames = []string{"  "}
	require.ErrorContains(t, blank.Validate(), "designNames[0] is empty")

	noText := ok
	noText.Explanation = ""
	require.NoError(t, noText.Validate())
}

func TestAnalysisError_Is(t *testing.T) {
	cause := errors.New("boom")
	err := error(&AnalysisError{Kind: ErrRequestFailure, Err: cause})

	require.ErrorIs(t, err, ErrRequestFailure)
	require.ErrorIs(t, err, cause)
	require.NotErrorIs(t, err, ErrMalformedResponse)
	require.Equal(t, "analysis request failed: boom", err.Error())

	var ae *AnalysisError
	require.ErrorAs(t, err, &ae)
}

func TestNailAnalysisResult_MissingPreviews(t *testing.T) {
	r := &NailAnalysisResult{
		StructuredAnalysis: StructuredAnalysis{DesignNames: []string{"A", "B", "C"}},
		Previews:           []DesignPreview{{DesignName: "A"}, {DesignName: "C"}},
	}
	require.Equal(t, []string{"B"}, r.MissingPreviews())
}
