package match

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/symptomap/ontology"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testGraph = `
@prefix ex:   <http://uu.nl/medical/> .
@prefix rdfs: <http://www.w3.org/2000/01/rdf-schema#> .
@prefix skos: <http://www.w3.org/2004/02/skos/core#> .

ex:fever    a ex:Symptom ; skos:prefLabel "fever"@en .
ex:cough    a ex:Symptom ; skos:prefLabel "dry cough"@en .
ex:fatigue  a ex:Symptom ; skos:prefLabel "fatigue"@en .
ex:headache a ex:Symptom ; skos:prefLabel "headache"@en .
ex:rash     a ex:Symptom ; skos:prefLabel "skin rash"@en .

ex:Flu a ex:Disease ;
    skos:prefLabel "Flu"@en ;
    ex:hasPrimarySymptom ex:fever, ex:cough ;
    ex:hasSecondarySymptom ex:fatigue ;
    ex:hasComplication ex:headache .

ex:Measles a ex:Disease ;
    skos:prefLabel "Measles"@en ;
    ex:hasPrimarySymptom ex:fever, ex:rash .

ex:Chronic_Fatigue a ex:Disease ;
    rdfs:label "Chronic Fatigue"@en ;
    ex:hasSecondarySymptom ex:fatigue .
`

func testMatcher(t *testing.T) *Matcher {
	t.Helper()
	path := filepath.Join(t.TempDir(), "graph.ttl")
	require.NoError(t, os.WriteFile(path, []byte(testGraph), 0o644))

	store, err := ontology.Load(path)
	require.NoError(t, err)

	matcher, err := NewMatcher(store)
	require.NoError(t, err)
	return matcher
}

func TestNewMatcher(t *testing.T) {
	t.Run("nil store", func(t *testing.T) {
		_, err := NewMatcher(nil)
		assert.Equal(t, ErrStoreRequired, err)
	})
}

func TestFindNearestDiseases_Jaccard(t *testing.T) {
	m := testMatcher(t)

	// fever hits both Flu (1 of 4 symptoms) and Measles (1 of 2); Jaccard
	// penalizes Flu's unrelated symptoms.
	results := m.FindNearestDiseases([]string{"fever"}, 0, true)
	require.Len(t, results, 2)

	assert.Equal(t, "Measles", results[0].DiseaseName)
	assert.InDelta(t, 0.5, results[0].SimilarityScore, 1e-9)
	assert.Equal(t, "Flu", results[1].DiseaseName)
	assert.InDelta(t, 0.25, results[1].SimilarityScore, 1e-9)

	assert.Equal(t, []string{"fever"}, results[0].MatchedSymptoms)
	assert.Equal(t, 2, results[0].TotalDiseaseSymptoms)
	assert.Equal(t, 1, results[0].TotalQuerySymptoms)
}

func TestFindNearestDiseases_Coverage(t *testing.T) {
	m := testMatcher(t)

	// Coverage ignores disease size: both diseases explain the whole query.
	results := m.FindNearestDiseases([]string{"fever"}, 0, false)
	require.Len(t, results, 2)
	assert.InDelta(t, 1.0, results[0].SimilarityScore, 1e-9)
	assert.InDelta(t, 1.0, results[1].SimilarityScore, 1e-9)

	// Equal score, equal match count: label ascending decides.
	assert.Equal(t, "Flu", results[0].DiseaseName)
	assert.Equal(t, "Measles", results[1].DiseaseName)
}

func TestFindNearestDiseases_Ordering(t *testing.T) {
	m := testMatcher(t)

	// fever+fatigue: Flu matches 2 (jaccard 2/4), Chronic Fatigue matches 1
	// (jaccard 1/2). Equal scores resolved by match count descending.
	results := m.FindNearestDiseases([]string{"fever", "fatigue"}, 0, true)
	require.Len(t, results, 3)

	assert.Equal(t, "Flu", results[0].DiseaseName)
	assert.Equal(t, 2, results[0].MatchCount)
	assert.Equal(t, "Chronic Fatigue", results[1].DiseaseName)
	assert.Equal(t, 1, results[1].MatchCount)
	assert.Equal(t, "Measles", results[2].DiseaseName)

	// Invariant: sorted by (score desc, match count desc, label asc).
	for i := 1; i < len(results); i++ {
		prev, cur := results[i-1], results[i]
		ordered := prev.SimilarityScore > cur.SimilarityScore ||
			(prev.SimilarityScore == cur.SimilarityScore && prev.MatchCount > cur.MatchCount) ||
			(prev.SimilarityScore == cur.SimilarityScore && prev.MatchCount == cur.MatchCount &&
				prev.DiseaseName <= cur.DiseaseName)
		assert.True(t, ordered, "results out of order at %d", i)
	}
}

func TestFindNearestDiseases_ExclusionInvariant(t *testing.T) {
	m := testMatcher(t)

	// A disease is never returned on absence of evidence alone.
	results := m.FindNearestDiseases([]string{"skin rash"}, 0, true)
	require.Len(t, results, 1)
	assert.Equal(t, "Measles", results[0].DiseaseName)

	for _, r := range results {
		assert.Greater(t, r.MatchCount, 0)
	}
}

func TestFindNearestDiseases_EmptyResolution(t *testing.T) {
	m := testMatcher(t)

	t.Run("unknown symptoms", func(t *testing.T) {
		assert.Empty(t, m.FindNearestDiseases([]string{"vertigo"}, 0, true))
	})

	t.Run("no symptoms", func(t *testing.T) {
		assert.Empty(t, m.FindNearestDiseases(nil, 0, true))
	})
}

func TestFindNearestDiseases_TopK(t *testing.T) {
	m := testMatcher(t)

	results := m.FindNearestDiseases([]string{"fever", "fatigue"}, 1, true)
	require.Len(t, results, 1)
	assert.Equal(t, "Flu", results[0].DiseaseName)
}

func TestFindNearestDiseases_Deterministic(t *testing.T) {
	m := testMatcher(t)

	a := m.FindNearestDiseases([]string{"fever", "fatigue", "cough"}, 0, true)
	for i := 0; i < 10; i++ {
		b := m.FindNearestDiseases([]string{"fever", "fatigue", "cough"}, 0, true)
		require.Equal(t, a, b)
	}
}
