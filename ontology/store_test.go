package ontology

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testGraph = `
@prefix ex:   <http://uu.nl/medical/> .
@prefix rdf:  <http://www.w3.org/1999/02/22-rdf-syntax-ns#> .
@prefix rdfs: <http://www.w3.org/2000/01/rdf-schema#> .
@prefix skos: <http://www.w3.org/2004/02/skos/core#> .
@prefix owl:  <http://www.w3.org/2002/07/owl#> .
@prefix wd:   <http://www.wikidata.org/entity/> .

ex:SkinSymptom rdfs:subClassOf ex:Symptom .

ex:fever a ex:Symptom ;
    skos:prefLabel "fever"@en .

ex:cough a ex:Symptom ;
    skos:prefLabel "dry cough"@en .

ex:fatigue a ex:Symptom ;
    rdfs:label "fatigue"@en .

ex:rash a ex:SkinSymptom ;
    skos:prefLabel "skin rash"@en ;
    owl:sameAs wd:Q183430 .

ex:headache a ex:Symptom ;
    skos:prefLabel "hoofdpijn"@nl ;
    skos:prefLabel "headache"@en .

ex:unnamed_symptom a ex:Symptom .

ex:Flu a ex:Disease ;
    skos:prefLabel "Flu"@en ;
    owl:sameAs wd:Q2840 ;
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

func writeGraph(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "graph.ttl")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func loadTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Load(writeGraph(t, testGraph))
	require.NoError(t, err)
	return store
}

func TestLoad(t *testing.T) {
	t.Run("valid graph", func(t *testing.T) {
		store := loadTestStore(t)
		assert.Len(t, store.Diseases(), 3)
		assert.Len(t, store.SymptomEntities(), 6)
	})

	t.Run("nt extension selects the N-Triples decoder", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "graph.nt")
		require.NoError(t, os.WriteFile(path, []byte(`
<http://uu.nl/medical/fever> <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <http://uu.nl/medical/Symptom> .
<http://uu.nl/medical/fever> <http://www.w3.org/2004/02/skos/core#prefLabel> "fever"@en .
<http://uu.nl/medical/Flu> <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <http://uu.nl/medical/Disease> .
<http://uu.nl/medical/Flu> <http://www.w3.org/2004/02/skos/core#prefLabel> "Flu"@en .
<http://uu.nl/medical/Flu> <http://uu.nl/medical/hasPrimarySymptom> <http://uu.nl/medical/fever> .
`), 0o644))

		store, err := Load(path)
		require.NoError(t, err)
		assert.Len(t, store.Diseases(), 1)
		assert.Equal(t, []string{"fever"}, store.PrimarySymptomsOf("Flu"))
	})

	t.Run("zero diseases is fatal", func(t *testing.T) {
		path := writeGraph(t, `
@prefix ex: <http://uu.nl/medical/> .
@prefix skos: <http://www.w3.org/2004/02/skos/core#> .
ex:fever a ex:Symptom ; skos:prefLabel "fever"@en .
`)
		_, err := Load(path)
		assert.ErrorIs(t, err, ErrNoDiseases)
	})

	t.Run("parse error is fatal", func(t *testing.T) {
		path := writeGraph(t, "this is not turtle {{{")
		_, err := Load(path)
		assert.ErrorIs(t, err, ErrParseFailed)
	})

	t.Run("missing file is fatal", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.ttl"))
		assert.ErrorIs(t, err, ErrParseFailed)
	})

	t.Run("unbound namespace finds no diseases", func(t *testing.T) {
		path := writeGraph(t, testGraph)
		_, err := Load(path, WithBaseNamespace("http://elsewhere.org/med#"))
		assert.ErrorIs(t, err, ErrNoDiseases)
	})
}

func TestLabelOf(t *testing.T) {
	store := loadTestStore(t)

	t.Run("preferred label in english", func(t *testing.T) {
		assert.Equal(t, "headache", store.LabelOf("http://uu.nl/medical/headache"))
	})

	t.Run("rdfs label fallback", func(t *testing.T) {
		assert.Equal(t, "fatigue", store.LabelOf("http://uu.nl/medical/fatigue"))
	})

	t.Run("local fragment fallback", func(t *testing.T) {
		assert.Equal(t, "unnamed_symptom", store.LabelOf("http://uu.nl/medical/unnamed_symptom"))
	})

	t.Run("cached lookups are stable", func(t *testing.T) {
		first := store.LabelOf("http://uu.nl/medical/fever")
		second := store.LabelOf("http://uu.nl/medical/fever")
		assert.Equal(t, first, second)
	})
}

func TestFindSymptomEntities(t *testing.T) {
	store := loadTestStore(t)

	keys := func(labels ...string) []string {
		entities := store.FindSymptomEntities(labels)
		out := make([]string, len(entities))
		for i, e := range entities {
			out[i] = e.Label
		}
		return out
	}

	t.Run("exact match", func(t *testing.T) {
		assert.Equal(t, []string{"fever"}, keys("fever"))
	})

	t.Run("input contained in indexed label", func(t *testing.T) {
		// "cough" is a substring of the indexed "dry cough".
		assert.Equal(t, []string{"dry cough"}, keys("cough"))
	})

	t.Run("indexed label contained in input", func(t *testing.T) {
		assert.Equal(t, []string{"fever"}, keys("high fever at night"))
	})

	t.Run("case and separators normalized", func(t *testing.T) {
		assert.Equal(t, []string{"skin rash"}, keys("Skin_Rash"))
	})

	t.Run("no match", func(t *testing.T) {
		assert.Empty(t, keys("vertigo"))
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, keys())
		assert.Empty(t, keys("", "  "))
	})

	t.Run("subclass instances are matched", func(t *testing.T) {
		assert.Equal(t, []string{"skin rash"}, keys("rash"))
	})
}

func TestDiseaseSymptomSets(t *testing.T) {
	store := loadTestStore(t)
	sets := store.DiseaseSymptomSets()

	t.Run("union of all three roles", func(t *testing.T) {
		flu := sets["http://uu.nl/medical/Flu"]
		require.NotNil(t, flu)
		assert.Len(t, flu, 4) // fever, cough, fatigue, headache
	})

	t.Run("repeated calls agree", func(t *testing.T) {
		assert.Equal(t, sets, store.DiseaseSymptomSets())
	})
}

func TestPrimarySymptomsOf(t *testing.T) {
	store := loadTestStore(t)

	t.Run("sorted primary labels only", func(t *testing.T) {
		assert.Equal(t, []string{"dry cough", "fever"}, store.PrimarySymptomsOf("Flu"))
	})

	t.Run("exact match required", func(t *testing.T) {
		assert.Empty(t, store.PrimarySymptomsOf("Flu Severe"))
	})

	t.Run("disease without primary symptoms", func(t *testing.T) {
		assert.Empty(t, store.PrimarySymptomsOf("Chronic Fatigue"))
	})

	t.Run("normalized label comparison", func(t *testing.T) {
		assert.Equal(t, []string{"dry cough", "fever"}, store.PrimarySymptomsOf("flu"))
	})
}

func TestPrimarySymptomsOf_NormalizedNoPrimary(t *testing.T) {
	store := loadTestStore(t)
	// Known disease, zero primary edges: distinguishable from unknown only
	// by AggregateSymptomsOf being non-empty.
	assert.Empty(t, store.PrimarySymptomsOf("Chronic Fatigue"))
	assert.Equal(t, []string{"fatigue"}, store.AggregateSymptomsOf("Chronic Fatigue"))
}

func TestAggregateSymptomsOf(t *testing.T) {
	store := loadTestStore(t)

	t.Run("all roles, sorted", func(t *testing.T) {
		assert.Equal(t,
			[]string{"dry cough", "fatigue", "fever", "headache"},
			store.AggregateSymptomsOf("Flu"))
	})

	t.Run("substring disease lookup", func(t *testing.T) {
		assert.Equal(t, []string{"fatigue"}, store.AggregateSymptomsOf("chronic"))
	})

	t.Run("unknown disease", func(t *testing.T) {
		assert.Empty(t, store.AggregateSymptomsOf("cholera"))
	})
}

func TestExternalIDOf(t *testing.T) {
	store := loadTestStore(t)

	t.Run("wikidata equivalence", func(t *testing.T) {
		id, ok := store.ExternalIDOf("Flu")
		require.True(t, ok)
		assert.Equal(t, "Q2840", id)
	})

	t.Run("no equivalence recorded", func(t *testing.T) {
		_, ok := store.ExternalIDOf("Measles")
		assert.False(t, ok)
	})

	t.Run("unknown disease", func(t *testing.T) {
		_, ok := store.ExternalIDOf("cholera")
		assert.False(t, ok)
	})
}

func TestSymptomEntities(t *testing.T) {
	store := loadTestStore(t)
	entities := store.SymptomEntities()
	require.Len(t, entities, 6)

	byLabel := make(map[string]string)
	for _, e := range entities {
		byLabel[e.Label] = e.ExternalID
	}
	assert.Equal(t, "Q183430", byLabel["skin rash"])
	assert.Equal(t, "", byLabel["fever"])
}

func TestAllSymptomLabels(t *testing.T) {
	store := loadTestStore(t)
	assert.Equal(t,
		[]string{"dry cough", "fatigue", "fever", "headache", "skin rash", "unnamed_symptom"},
		store.AllSymptomLabels())
}
