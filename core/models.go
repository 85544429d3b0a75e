package core

import (
	"encoding/binary"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for vocabulary entries.
// It is generated from the entry's stable key using content-based hashing.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// SymptomRole classifies the clinical significance of a disease→symptom edge.
type SymptomRole int

const (
	// RolePrimary marks a defining symptom of a disease.
	RolePrimary SymptomRole = iota + 1
	// RoleSecondary marks a commonly associated symptom.
	RoleSecondary
	// RoleComplication marks a symptom arising as a complication.
	RoleComplication
)

// String returns the role name used in logs and traces.
func (r SymptomRole) String() string {
	switch r {
	case RolePrimary:
		return "primary"
	case RoleSecondary:
		return "secondary"
	case RoleComplication:
		return "complication"
	default:
		return "unknown"
	}
}

// SymptomEntity is a symptom node in the knowledge graph.
// Role membership is not intrinsic; roles are edges from diseases.
type SymptomEntity struct {
	Key        string // stable identifier (IRI)
	Label      string // display label, English preferred
	ExternalID string // optional external knowledge-base identifier (e.g. Wikidata QID)
}

// DiseaseEntity is a disease node in the knowledge graph.
type DiseaseEntity struct {
	Key        string
	Label      string
	ExternalID string
}

// VocabEntry is one canonical term of the embedding vocabulary.
// Entries are built once by the indexer and are immutable afterwards.
type VocabEntry struct {
	Id         ID
	Key        string    // stable vocabulary key matching the graph (QID or IRI fragment)
	Text       string    // normalized display text; this is what gets embedded
	ExternalID string    // optional Wikidata QID
	Vector     []float32 // unit-normalized embedding
}

// Candidate is one scored vocabulary entry returned by nearest-neighbor search.
type Candidate struct {
	Row        int // position in the vocabulary, used for deterministic tie-breaks
	Key        string
	Text       string
	ExternalID string
	Score      float32 // cosine similarity to the query phrase
}

// CanonicalizationResult is the outcome of mapping one noisy phrase to the
// vocabulary. It is created per call and never shared or mutated.
type CanonicalizationResult struct {
	Input      string
	Normalized string
	Accepted   bool
	Ambiguous  bool
	Candidates []Candidate // top-k, highest score first
	Match      *Candidate  // top candidate when accepted, nil otherwise
}

// MatchResult holds per-disease match statistics for one query.
type MatchResult struct {
	DiseaseKey           string
	DiseaseName          string
	MatchedSymptoms      []string // sorted labels of the intersection
	MatchCount           int
	SimilarityScore      float64
	TotalDiseaseSymptoms int
	TotalQuerySymptoms   int
}

// Prediction is the opaque verdict of the external statistical classifier.
type Prediction struct {
	DiseaseID string
	Score     float64 // probability in [0, 1]
}

// FusionVerdict is the adjudicated result of combining the classifier
// prediction with the knowledge graph candidates.
type FusionVerdict struct {
	Disease       string
	OriginalScore float64  // raw classifier probability, never mutated
	FinalScore    float64  // score after all adjustments, always in [0, 1]
	Reasoning     []string // append-only trace of every policy decision
	IsFallback    bool     // true iff the top KG candidate overrode the classifier
}

// IndexManifest records how a vocabulary index was built. The loader refuses
// an index whose entry count does not match the manifest.
type IndexManifest struct {
	Count     int
	Dimension int
	Model     string
}
