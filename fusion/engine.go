package fusion

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/symptomap/core"
)

// Default policy constants. These are fixed policy, not learned values, and
// every one of them is tunable via options so behavior can change without a
// code change.
const (
	// DefaultAgreementBonus is added when the classifier's disease also
	// appears among the knowledge graph candidates.
	DefaultAgreementBonus = 0.20

	// DefaultMissingPrimaryPenalty multiplies the running score when the
	// query shares no member with the predicted disease's primary symptoms.
	DefaultMissingPrimaryPenalty = 0.5

	// DefaultFallbackThreshold is the running score below which the top
	// knowledge graph candidate replaces the classifier verdict.
	DefaultFallbackThreshold = 0.40
)

// PrimarySymptomSource provides the primary symptoms of a disease by label.
// The knowledge graph store satisfies this interface.
type PrimarySymptomSource interface {
	PrimarySymptomsOf(diseaseLabel string) []string
}

// state is the running verdict threaded through the policy chain. Steps
// mutate the score and disease and append to the trace; nothing else.
type state struct {
	prediction core.Prediction
	candidates []core.MatchResult
	query      []string

	disease    string
	score      float64
	isFallback bool
	reasoning  []string
}

// trace appends one human-readable reasoning line. The trace is mandatory
// output: without it the verdict is unexplainable to the user.
func (st *state) trace(format string, args ...any) {
	st.reasoning = append(st.reasoning, fmt.Sprintf(format, args...))
}

// policyStep is one named, independently testable rule of the chain.
// Steps run in order; new rules can be inserted or reordered without
// touching the others.
type policyStep struct {
	name  string
	apply func(st *state)
}

// Engine combines one classifier prediction with the matcher's ranked
// candidates into a single adjudicated verdict. It is stateless per call
// over read-only configuration and safe for concurrent use.
type Engine struct {
	source                PrimarySymptomSource
	agreementBonus        float64
	missingPrimaryPenalty float64
	fallbackThreshold     float64
	steps                 []policyStep
	logger                *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine) error

// WithAgreementBonus overrides the agreement bonus.
// Default is DefaultAgreementBonus.
func WithAgreementBonus(bonus float64) Option {
	return func(e *Engine) error {
		e.agreementBonus = bonus
		return nil
	}
}

// WithMissingPrimaryPenalty overrides the sanity-check penalty factor.
// Default is DefaultMissingPrimaryPenalty.
func WithMissingPrimaryPenalty(factor float64) Option {
	return func(e *Engine) error {
		e.missingPrimaryPenalty = factor
		return nil
	}
}

// WithFallbackThreshold overrides the low-confidence fallback floor.
// Default is DefaultFallbackThreshold.
func WithFallbackThreshold(threshold float64) Option {
	return func(e *Engine) error {
		e.fallbackThreshold = threshold
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// NewEngine creates a fusion engine backed by the given primary-symptom source.
func NewEngine(source PrimarySymptomSource, opts ...Option) (*Engine, error) {
	if source == nil {
		return nil, ErrPrimarySourceRequired
	}

	e := &Engine{
		source:                source,
		agreementBonus:        DefaultAgreementBonus,
		missingPrimaryPenalty: DefaultMissingPrimaryPenalty,
		fallbackThreshold:     DefaultFallbackThreshold,
		logger:                slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}

	e.steps = []policyStep{
		{name: "agreement", apply: e.applyAgreement},
		{name: "primary-symptom sanity", apply: e.applySanity},
		{name: "low-confidence fallback", apply: e.applyFallback},
	}
	return e, nil
}

// Fuse runs the policy chain over one classifier prediction, the ranked
// knowledge graph candidates and the reported symptom set.
//
// The returned verdict's OriginalScore is the raw classifier probability
// and is never mutated; FinalScore carries all adjustments and is always in
// [0, 1]. The prediction must pass shape validation; that is the only error
// this method can return.
func (e *Engine) Fuse(prediction core.Prediction, candidates []core.MatchResult, querySymptoms []string) (*core.FusionVerdict, error) {
	if err := core.ValidatePrediction(&prediction); err != nil {
		return nil, err
	}

	st := &state{
		prediction: prediction,
		candidates: candidates,
		query:      querySymptoms,
		disease:    prediction.DiseaseID,
		score:      prediction.Score,
	}
	st.trace("classifier predicted %q with score %.2f", prediction.DiseaseID, prediction.Score)

	for _, step := range e.steps {
		step.apply(st)
	}

	verdict := &core.FusionVerdict{
		Disease:       st.disease,
		OriginalScore: prediction.Score,
		FinalScore:    clamp01(st.score),
		Reasoning:     st.reasoning,
		IsFallback:    st.isFallback,
	}

	e.logger.Debug("fusion complete",
		"disease", verdict.Disease,
		"originalScore", verdict.OriginalScore,
		"finalScore", verdict.FinalScore,
		"fallback", verdict.IsFallback)

	return verdict, nil
}

// applyAgreement adds a fixed bonus, capped at 1.0, when the classifier's
// disease appears anywhere among the KG candidates. Disagreement is recorded
// but never penalized.
func (e *Engine) applyAgreement(st *state) {
	for _, candidate := range st.candidates {
		if strings.EqualFold(candidate.DiseaseName, st.prediction.DiseaseID) {
			st.score = min(st.score+e.agreementBonus, 1.0)
			st.trace("knowledge graph agrees: %q is among the graph candidates; score raised to %.2f (+%.2f bonus, capped at 1.0)",
				st.prediction.DiseaseID, st.score, e.agreementBonus)
			return
		}
	}
	st.trace("knowledge graph candidates do not include %q; no adjustment", st.prediction.DiseaseID)
}

// applySanity halves the running score when the predicted disease has
// defined primary symptoms and the query shares none of them. A disease
// without defined primary symptoms is skipped silently: there is nothing to
// penalize against.
func (e *Engine) applySanity(st *state) {
	primaries := e.source.PrimarySymptomsOf(st.prediction.DiseaseID)
	if len(primaries) == 0 {
		return
	}

	reported := make(map[string]bool, len(st.query))
	for _, q := range st.query {
		reported[strings.ToLower(strings.TrimSpace(q))] = true
	}
	for _, primary := range primaries {
		if reported[strings.ToLower(strings.TrimSpace(primary))] {
			st.trace("primary symptom %q of %q is among the reported symptoms", primary, st.prediction.DiseaseID)
			return
		}
	}

	st.score *= e.missingPrimaryPenalty
	st.trace("none of the reported symptoms are primary symptoms of %q (expected: %s); score reduced to %.2f",
		st.prediction.DiseaseID, strings.Join(primaries, ", "), st.score)
}

// applyFallback discards the classifier verdict when the running score is
// below the fallback floor and the knowledge graph offers at least one
// candidate; the top candidate's label and similarity score take over.
func (e *Engine) applyFallback(st *state) {
	if st.score >= e.fallbackThreshold || len(st.candidates) == 0 {
		st.trace("keeping classifier verdict %q with score %.2f", st.disease, st.score)
		return
	}

	top := st.candidates[0]
	running := st.score
	st.disease = top.DiseaseName
	st.score = top.SimilarityScore
	st.isFallback = true
	st.trace("fused confidence %.2f (classifier raw %.2f) is below %.2f; falling back to top knowledge graph candidate %q (similarity %.2f)",
		running, st.prediction.Score, e.fallbackThreshold, top.DiseaseName, top.SimilarityScore)
}

// clamp01 bounds a score to [0, 1].
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
