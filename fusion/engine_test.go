package fusion

import (
	"strings"
	"testing"

	"github.com/poiesic/symptomap/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubSource backs the sanity step with a fixed primary-symptom table.
type stubSource struct {
	primaries map[string][]string
}

func (s stubSource) PrimarySymptomsOf(label string) []string {
	return s.primaries[label]
}

func testEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	engine, err := NewEngine(stubSource{primaries: map[string][]string{
		"Flu":     {"fever", "dry cough"},
		"Measles": {"fever", "skin rash"},
	}}, opts...)
	require.NoError(t, err)
	return engine
}

func candidatesOf(entries ...core.MatchResult) []core.MatchResult {
	return entries
}

func TestNewEngine(t *testing.T) {
	t.Run("nil source", func(t *testing.T) {
		_, err := NewEngine(nil)
		assert.Equal(t, ErrPrimarySourceRequired, err)
	})

	t.Run("defaults", func(t *testing.T) {
		e := testEngine(t)
		assert.Equal(t, DefaultAgreementBonus, e.agreementBonus)
		assert.Equal(t, DefaultMissingPrimaryPenalty, e.missingPrimaryPenalty)
		assert.Equal(t, DefaultFallbackThreshold, e.fallbackThreshold)
	})
}

func TestFuse_InvalidPrediction(t *testing.T) {
	e := testEngine(t)

	_, err := e.Fuse(core.Prediction{DiseaseID: "", Score: 0.5}, nil, nil)
	assert.ErrorIs(t, err, core.ErrInvalidPrediction)

	_, err = e.Fuse(core.Prediction{DiseaseID: "Flu", Score: 1.5}, nil, nil)
	assert.ErrorIs(t, err, core.ErrInvalidPrediction)
}

func TestFuse_AgreementBonus(t *testing.T) {
	e := testEngine(t)
	candidates := candidatesOf(
		core.MatchResult{DiseaseName: "Flu", SimilarityScore: 0.5, MatchCount: 2},
		core.MatchResult{DiseaseName: "Measles", SimilarityScore: 0.25, MatchCount: 1},
	)

	t.Run("bonus applied", func(t *testing.T) {
		verdict, err := e.Fuse(core.Prediction{DiseaseID: "Flu", Score: 0.5}, candidates, []string{"fever"})
		require.NoError(t, err)

		assert.Equal(t, "Flu", verdict.Disease)
		assert.InDelta(t, 0.70, verdict.FinalScore, 1e-9)
		assert.InDelta(t, 0.5, verdict.OriginalScore, 1e-9)
		assert.False(t, verdict.IsFallback)
	})

	t.Run("bonus capped at one", func(t *testing.T) {
		verdict, err := e.Fuse(core.Prediction{DiseaseID: "Flu", Score: 0.95}, candidates, []string{"fever"})
		require.NoError(t, err)
		assert.InDelta(t, 1.0, verdict.FinalScore, 1e-9)
	})

	t.Run("match is position independent", func(t *testing.T) {
		verdict, err := e.Fuse(core.Prediction{DiseaseID: "Measles", Score: 0.6}, candidates, []string{"fever"})
		require.NoError(t, err)
		assert.InDelta(t, 0.80, verdict.FinalScore, 1e-9)
	})

	t.Run("disagreement is not penalized", func(t *testing.T) {
		verdict, err := e.Fuse(core.Prediction{DiseaseID: "Flu", Score: 0.9}, nil, []string{"fever"})
		require.NoError(t, err)
		assert.InDelta(t, 0.9, verdict.FinalScore, 1e-9)
		assert.False(t, verdict.IsFallback)
	})
}

func TestFuse_PrimarySymptomSanity(t *testing.T) {
	e := testEngine(t)

	t.Run("penalty halves the score", func(t *testing.T) {
		verdict, err := e.Fuse(core.Prediction{DiseaseID: "Measles", Score: 0.8}, nil, []string{"headache"})
		require.NoError(t, err)

		assert.InDelta(t, 0.40, verdict.FinalScore, 1e-9)
		assert.InDelta(t, 0.8, verdict.OriginalScore, 1e-9)
		assert.False(t, verdict.IsFallback)

		// The trace names the symptoms the disease was expected to show.
		joined := strings.Join(verdict.Reasoning, "\n")
		assert.Contains(t, joined, "fever")
		assert.Contains(t, joined, "skin rash")
	})

	t.Run("one primary symptom present avoids the penalty", func(t *testing.T) {
		verdict, err := e.Fuse(core.Prediction{DiseaseID: "Measles", Score: 0.8}, nil, []string{"headache", "Skin Rash"})
		require.NoError(t, err)
		assert.InDelta(t, 0.8, verdict.FinalScore, 1e-9)
	})

	t.Run("skipped when no primaries are defined", func(t *testing.T) {
		verdict, err := e.Fuse(core.Prediction{DiseaseID: "Unknown Disease", Score: 0.8}, nil, []string{"headache"})
		require.NoError(t, err)
		assert.InDelta(t, 0.8, verdict.FinalScore, 1e-9)
	})
}

func TestFuse_Fallback(t *testing.T) {
	e := testEngine(t)
	candidates := candidatesOf(
		core.MatchResult{DiseaseName: "Measles", SimilarityScore: 0.75, MatchCount: 2},
		core.MatchResult{DiseaseName: "Flu", SimilarityScore: 0.4, MatchCount: 1},
	)

	t.Run("low confidence yields the top candidate", func(t *testing.T) {
		verdict, err := e.Fuse(core.Prediction{DiseaseID: "Common Cold", Score: 0.3}, candidates, []string{"fever", "skin rash"})
		require.NoError(t, err)

		assert.Equal(t, "Measles", verdict.Disease)
		assert.InDelta(t, 0.75, verdict.FinalScore, 1e-9)
		assert.InDelta(t, 0.3, verdict.OriginalScore, 1e-9)
		assert.True(t, verdict.IsFallback)
	})

	t.Run("penalty can push the score under the floor", func(t *testing.T) {
		// 0.6 halves to 0.3 when no primary symptom of Flu is reported. The
		// candidate list must not contain Flu, or the agreement bonus would
		// lift the score back over the floor first.
		noFlu := candidatesOf(core.MatchResult{DiseaseName: "Measles", SimilarityScore: 0.75, MatchCount: 2})
		verdict, err := e.Fuse(core.Prediction{DiseaseID: "Flu", Score: 0.6}, noFlu, []string{"skin rash"})
		require.NoError(t, err)
		assert.True(t, verdict.IsFallback)
		assert.Equal(t, "Measles", verdict.Disease)

		// The fallback line reports the penalized running score, not the
		// classifier's raw confidence.
		joined := strings.Join(verdict.Reasoning, "\n")
		assert.Contains(t, joined, "fused confidence 0.30")
		assert.Contains(t, joined, "classifier raw 0.60")
	})

	t.Run("no candidates keeps the classifier verdict", func(t *testing.T) {
		verdict, err := e.Fuse(core.Prediction{DiseaseID: "Common Cold", Score: 0.3}, nil, []string{"fever"})
		require.NoError(t, err)

		assert.Equal(t, "Common Cold", verdict.Disease)
		assert.InDelta(t, 0.3, verdict.FinalScore, 1e-9)
		assert.False(t, verdict.IsFallback)
	})

	t.Run("score at the floor is kept", func(t *testing.T) {
		verdict, err := e.Fuse(core.Prediction{DiseaseID: "Common Cold", Score: 0.4}, candidates, []string{"fever"})
		require.NoError(t, err)
		assert.False(t, verdict.IsFallback)
	})
}

func TestFuse_ScoreBounds(t *testing.T) {
	e := testEngine(t)
	candidates := candidatesOf(core.MatchResult{DiseaseName: "Flu", SimilarityScore: 0.5, MatchCount: 1})

	for _, score := range []float64{0, 0.1, 0.39, 0.4, 0.5, 0.85, 0.99, 1} {
		verdict, err := e.Fuse(core.Prediction{DiseaseID: "Flu", Score: score}, candidates, []string{"fever"})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, verdict.FinalScore, 0.0)
		assert.LessOrEqual(t, verdict.FinalScore, 1.0)
		assert.NotEmpty(t, verdict.Reasoning)
	}
}

func TestFuse_TraceIsAlwaysPresent(t *testing.T) {
	e := testEngine(t)

	verdict, err := e.Fuse(core.Prediction{DiseaseID: "Flu", Score: 0.9}, nil, []string{"fever"})
	require.NoError(t, err)

	// One line per decision point, starting with the classifier input.
	require.NotEmpty(t, verdict.Reasoning)
	assert.Contains(t, verdict.Reasoning[0], "Flu")
}

func TestFuse_CustomPolicy(t *testing.T) {
	engine, err := NewEngine(stubSource{}, // no primaries defined at all
		WithAgreementBonus(0.1),
		WithFallbackThreshold(0.2),
	)
	require.NoError(t, err)

	candidates := candidatesOf(core.MatchResult{DiseaseName: "Flu", SimilarityScore: 0.9, MatchCount: 1})

	verdict, err := engine.Fuse(core.Prediction{DiseaseID: "Flu", Score: 0.25}, candidates, []string{"fever"})
	require.NoError(t, err)

	// 0.25 + 0.1 bonus = 0.35, above the lowered floor.
	assert.InDelta(t, 0.35, verdict.FinalScore, 1e-9)
	assert.False(t, verdict.IsFallback)
}
