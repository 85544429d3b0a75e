package vocab

import (
	"fmt"
	"math"
	"slices"

	"github.com/poiesic/symptomap/core"
)

// Index is an immutable flat inner-product index over the canonical
// vocabulary. Vectors are unit-normalized at construction, so the inner
// product with a normalized query equals cosine similarity. Once built, an
// Index is safe for unsynchronized concurrent reads.
type Index struct {
	entries []core.VocabEntry
	dim     int
}

// NewIndex builds an index over the given vocabulary entries. Entry order
// defines row order and with it the deterministic tie-break of Search.
//
// Construction fails if the vocabulary is empty, an entry has no vector, or
// vector dimensions are inconsistent. These are configuration errors; a
// partially usable index is never returned.
func NewIndex(entries []core.VocabEntry) (*Index, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyVocabulary
	}

	dim := len(entries[0].Vector)
	indexed := make([]core.VocabEntry, len(entries))
	for i, entry := range entries {
		if len(entry.Vector) == 0 {
			return nil, fmt.Errorf("%w: entry %q (row %d)", ErrMissingVector, entry.Key, i)
		}
		if len(entry.Vector) != dim {
			return nil, fmt.Errorf("%w: entry %q has dimension %d, want %d",
				ErrDimensionMismatch, entry.Key, len(entry.Vector), dim)
		}

		indexed[i] = entry
		indexed[i].Vector = normalizeVector(entry.Vector)
	}

	return &Index{entries: indexed, dim: dim}, nil
}

// NewVerifiedIndex builds an index and checks the entries against the
// manifest persisted alongside them. A count or dimension mismatch means the
// entries and manifest were not built together and is fatal.
func NewVerifiedIndex(entries []core.VocabEntry, manifest *core.IndexManifest) (*Index, error) {
	if manifest != nil {
		if len(entries) != manifest.Count {
			return nil, fmt.Errorf("%w: %d entries, manifest records %d",
				ErrIndexSizeMismatch, len(entries), manifest.Count)
		}
		if len(entries) > 0 && len(entries[0].Vector) != manifest.Dimension {
			return nil, fmt.Errorf("%w: dimension %d, manifest records %d",
				ErrDimensionMismatch, len(entries[0].Vector), manifest.Dimension)
		}
	}
	return NewIndex(entries)
}

// Len returns the vocabulary size.
func (idx *Index) Len() int {
	return len(idx.entries)
}

// Dimension returns the embedding dimensionality.
func (idx *Index) Dimension() int {
	return idx.dim
}

// Entry returns the vocabulary entry at the given row.
func (idx *Index) Entry(row int) core.VocabEntry {
	return idx.entries[row]
}

// Search returns the k vocabulary entries nearest to the query vector by
// cosine similarity, highest score first. Ties are broken by original
// vocabulary order, so repeated searches are fully deterministic. When k
// exceeds the vocabulary size, all entries are returned.
func (idx *Index) Search(vector []float32, k int) []core.Candidate {
	if k <= 0 || len(vector) != idx.dim {
		return nil
	}

	query := normalizeVector(vector)

	candidates := make([]core.Candidate, len(idx.entries))
	for row, entry := range idx.entries {
		candidates[row] = core.Candidate{
			Row:        row,
			Key:        entry.Key,
			Text:       entry.Text,
			ExternalID: entry.ExternalID,
			Score:      dotProduct(query, entry.Vector),
		}
	}

	slices.SortFunc(candidates, func(a, b core.Candidate) int {
		if a.Score != b.Score {
			if a.Score > b.Score {
				return -1
			}
			return 1
		}
		return a.Row - b.Row
	})

	if len(candidates) > k {
		candidates = candidates[:k]
	}
	return candidates
}

// normalizeVector returns a unit-length copy of v. A zero vector is returned
// unchanged; its inner product with anything is zero, so it can never be
// accepted downstream.
func normalizeVector(v []float32) []float32 {
	var sumSquares float64
	for _, x := range v {
		sumSquares += float64(x) * float64(x)
	}

	out := make([]float32, len(v))
	if sumSquares == 0 {
		return out
	}

	inv := float32(1.0 / math.Sqrt(sumSquares))
	for i, x := range v {
		out[i] = x * inv
	}
	return out
}

// dotProduct calculates the dot product of two equal-length vectors.
func dotProduct(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// isZeroVector reports whether every component of v is zero.
func isZeroVector(v []float32) bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}
