package vocab

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/symptomap/ai"
	"github.com/poiesic/symptomap/core"
)

// Default decision thresholds. Both are tunable via options; the defaults
// come from the calibration of the original vocabulary.
const (
	// DefaultAcceptThreshold is the minimum cosine similarity for the top
	// candidate to be accepted.
	DefaultAcceptThreshold float32 = 0.62

	// DefaultAmbiguityDelta is the minimum margin between the top two
	// candidates; anything closer is marked ambiguous.
	DefaultAmbiguityDelta float32 = 0.08

	// DefaultTopK is the number of candidates retrieved per phrase.
	DefaultTopK = 2
)

// Canonicalizer maps noisy symptom phrases to canonical vocabulary entries
// using nearest-neighbor search over phrase embeddings. It holds only
// read-only state after construction; independent calls may run fully in
// parallel.
type Canonicalizer struct {
	index           *Index
	embedder        ai.Embedder
	acceptThreshold float32
	ambiguityDelta  float32
	pool            *ants.Pool
	logger          *slog.Logger
}

// Option configures a Canonicalizer.
type Option func(*Canonicalizer) error

// WithAcceptThreshold sets the minimum top-candidate similarity for acceptance.
// Default is DefaultAcceptThreshold.
func WithAcceptThreshold(threshold float32) Option {
	return func(c *Canonicalizer) error {
		c.acceptThreshold = threshold
		return nil
	}
}

// WithAmbiguityDelta sets the minimum top1−top2 margin below which a result
// is marked ambiguous. Default is DefaultAmbiguityDelta.
func WithAmbiguityDelta(delta float32) Option {
	return func(c *Canonicalizer) error {
		c.ambiguityDelta = delta
		return nil
	}
}

// WithPoolSize sets the worker pool size used by CanonicalizeMany.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(c *Canonicalizer) error {
		if size < 1 {
			size = 1
		}

		if c.pool != nil {
			c.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		c.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Canonicalizer) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// NewCanonicalizer creates a canonicalizer over the given index and embedder.
func NewCanonicalizer(index *Index, embedder ai.Embedder, opts ...Option) (*Canonicalizer, error) {
	if index == nil {
		return nil, ErrIndexRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	c := &Canonicalizer{
		index:           index,
		embedder:        embedder,
		acceptThreshold: DefaultAcceptThreshold,
		ambiguityDelta:  DefaultAmbiguityDelta,
		pool:            pool,
		logger:          slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			c.Release()
			return nil, err
		}
	}

	return c, nil
}

// Release frees the worker pool. The canonicalizer must not be used afterwards.
func (c *Canonicalizer) Release() {
	if c.pool != nil {
		c.pool.Release()
	}
}

// CanonicalizeOne maps a single phrase to the vocabulary.
//
// An empty or unembeddable phrase degrades to a non-accepted result rather
// than an error; only transport failures of the embedder, an embedding whose
// dimension does not match the index, and an invalid k are reported as
// errors. The returned result is freshly allocated.
func (c *Canonicalizer) CanonicalizeOne(ctx context.Context, phrase string, k int) (*core.CanonicalizationResult, error) {
	if k < 2 {
		return nil, fmt.Errorf("%w: got k=%d", ErrInvalidTopK, k)
	}

	normalized := NormalizeText(phrase)
	result := &core.CanonicalizationResult{
		Input:      phrase,
		Normalized: normalized,
	}
	if normalized == "" {
		return result, nil
	}

	vector, err := c.embedder.EmbedText(ctx, normalized)
	if err != nil {
		c.logger.Error("error generating embedding for phrase", "phrase", normalized, "err", err)
		return nil, err
	}
	if len(vector) == 0 || isZeroVector(vector) {
		c.logger.Debug("phrase produced no usable embedding", "phrase", normalized)
		return result, nil
	}
	if len(vector) != c.index.Dimension() {
		// The embedder and the persisted index disagree on the model. This is
		// a configuration failure, not an unrecognized phrase.
		return nil, fmt.Errorf("%w: embedder produced dimension %d, index has %d",
			ErrDimensionMismatch, len(vector), c.index.Dimension())
	}

	candidates := c.index.Search(vector, k)
	if len(candidates) == 0 {
		return result, nil
	}
	result.Candidates = candidates

	if len(candidates) >= 2 {
		result.Ambiguous = (candidates[0].Score - candidates[1].Score) < c.ambiguityDelta
	}
	if candidates[0].Score >= c.acceptThreshold && !result.Ambiguous {
		result.Accepted = true
		match := candidates[0]
		result.Match = &match
	}

	return result, nil
}

// CanonicalizeMany canonicalizes phrases independently on the worker pool.
// There is no cross-phrase state; results are returned in input order.
// The first error encountered cancels nothing but is reported after all
// phrases have been attempted.
func (c *Canonicalizer) CanonicalizeMany(ctx context.Context, phrases []string, k int) ([]*core.CanonicalizationResult, error) {
	if k < 2 {
		return nil, fmt.Errorf("%w: got k=%d", ErrInvalidTopK, k)
	}

	results := make([]*core.CanonicalizationResult, len(phrases))
	errs := make([]error, len(phrases))

	var wg sync.WaitGroup
	for i, phrase := range phrases {
		wg.Add(1)
		submitErr := c.pool.Submit(func() {
			defer wg.Done()
			results[i], errs[i] = c.CanonicalizeOne(ctx, phrase, k)
		})
		if submitErr != nil {
			wg.Done()
			errs[i] = submitErr
		}
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

// AcceptedLabels extracts the canonical texts of all accepted results,
// deduplicated in result order. This is the symptom set handed to the
// disease matcher.
func AcceptedLabels(results []*core.CanonicalizationResult) []string {
	seen := make(map[string]bool)
	labels := make([]string, 0, len(results))
	for _, r := range results {
		if r == nil || !r.Accepted || r.Match == nil {
			continue
		}
		if !seen[r.Match.Text] {
			seen[r.Match.Text] = true
			labels = append(labels, r.Match.Text)
		}
	}
	return labels
}
