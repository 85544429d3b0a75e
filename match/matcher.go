package match

import (
	"log/slog"
	"slices"
	"sort"
	"strings"

	"github.com/poiesic/symptomap/core"
	"github.com/poiesic/symptomap/ontology"
)

// Matcher computes per-disease match statistics for a set of symptom labels
// against the knowledge graph. It holds only read-only state and is safe for
// concurrent use.
type Matcher struct {
	store  *ontology.Store
	logger *slog.Logger
}

// Option configures a Matcher.
type Option func(*Matcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(m *Matcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		m.logger = logger
		return nil
	}
}

// NewMatcher creates a matcher over the given knowledge graph store.
func NewMatcher(store *ontology.Store, opts ...Option) (*Matcher, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}

	m := &Matcher{
		store:  store,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// FindNearestDiseases resolves the symptom labels through the store's
// permissive matcher and ranks every disease sharing at least one symptom
// with the query.
//
// With useJaccard the score is |intersection| / |union| (symmetric,
// penalizes diseases with many unrelated symptoms); otherwise it is
// |intersection| / |query| (coverage of the reported symptoms, regardless of
// the disease's own size). Diseases with zero intersection are excluded: a
// disease is never returned on absence of evidence alone.
//
// Results are ordered by score descending, then match count descending,
// then label ascending, so equal-score diseases always rank
// deterministically. topK <= 0 returns all matches.
//
// An empty resolution is a normal outcome ("no recognizable symptoms") and
// yields an empty list, not an error.
func (m *Matcher) FindNearestDiseases(symptomLabels []string, topK int, useJaccard bool) []core.MatchResult {
	query := make(map[string]bool)
	for _, entity := range m.store.FindSymptomEntities(symptomLabels) {
		query[entity.Key] = true
	}
	if len(query) == 0 {
		m.logger.Debug("no symptom entities resolved", "labels", len(symptomLabels))
		return nil
	}

	var results []core.MatchResult
	for disease, diseaseSymptoms := range m.store.DiseaseSymptomSets() {
		var matched []string
		for sym := range query {
			if diseaseSymptoms[sym] {
				matched = append(matched, m.store.LabelOf(sym))
			}
		}
		if len(matched) == 0 {
			continue
		}
		sort.Strings(matched)

		union := len(query) + len(diseaseSymptoms) - len(matched)
		score := float64(len(matched)) / float64(len(query))
		if useJaccard {
			score = float64(len(matched)) / float64(union)
		}

		results = append(results, core.MatchResult{
			DiseaseKey:           disease,
			DiseaseName:          m.store.LabelOf(disease),
			MatchedSymptoms:      matched,
			MatchCount:           len(matched),
			SimilarityScore:      score,
			TotalDiseaseSymptoms: len(diseaseSymptoms),
			TotalQuerySymptoms:   len(query),
		})
	}

	slices.SortFunc(results, func(a, b core.MatchResult) int {
		if a.SimilarityScore != b.SimilarityScore {
			if a.SimilarityScore > b.SimilarityScore {
				return -1
			}
			return 1
		}
		if a.MatchCount != b.MatchCount {
			return b.MatchCount - a.MatchCount
		}
		return strings.Compare(a.DiseaseName, b.DiseaseName)
	})

	if topK > 0 && len(results) > topK {
		results = results[:topK]
	}
	return results
}
