// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package reindex

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/poiesic/symptomap/ai"
	"github.com/poiesic/symptomap/core"
	"github.com/poiesic/symptomap/storage"
)

// Config holds configuration for the reindexing operation.
type Config struct {
	// BatchSize is the number of entries to embed in each batch
	BatchSize int

	// ReportInterval is how often to report progress (number of entries)
	ReportInterval int

	// MaxRetries is the maximum number of retry attempts for failed operations
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      32,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Reindexer re-embeds every stored vocabulary entry with a new embedding
// model and rewrites the manifest to match. Readers opening the index during
// a run may see mixed vectors; run it offline.
type Reindexer struct {
	repo     storage.VocabRepository
	embedder ai.Embedder
	config   *Config
	progress io.Writer
	iterator *EntryIterator

	dimension int
}

// NewReindexer creates a new reindexer.
// progress: where to write progress output (typically os.Stderr)
func NewReindexer(repo storage.VocabRepository, embedder ai.Embedder, config *Config, progress io.Writer) *Reindexer {
	if config == nil {
		config = DefaultConfig()
	}

	return &Reindexer{
		repo:     repo,
		embedder: embedder,
		config:   config,
		progress: progress,
		iterator: NewEntryIterator(repo, config.BatchSize),
	}
}

// Run re-embeds all vocabulary entries and updates the manifest to record
// the new model and dimensionality. The manifest is written only after every
// entry succeeded, so a crashed run is detected as a manifest mismatch at
// load time.
func (r *Reindexer) Run(ctx context.Context, model string) error {
	if model == "" {
		return ErrModelRequired
	}

	total, err := r.repo.CountEntries(ctx)
	if err != nil {
		return fmt.Errorf("failed to count entries: %w", err)
	}
	if total == 0 {
		fmt.Fprintf(r.progress, "No vocabulary entries found (0 entries)\n")
		return nil
	}

	fmt.Fprintf(r.progress, "Starting reindex of %d entries with model %q (batch size: %d)\n",
		total, model, r.config.BatchSize)

	tracker := NewProgressTracker(r.progress, total, r.config.ReportInterval)
	tracker.Start()

	r.dimension = 0
	processed := 0

	err = r.iterator.ForEach(ctx, func(entries []*core.VocabEntry) error {
		if err := r.processBatch(ctx, entries); err != nil {
			return fmt.Errorf("failed to process batch: %w", err)
		}

		processed += len(entries)
		tracker.Update(processed)
		return nil
	})
	if err != nil {
		return err
	}

	tracker.Finish()

	manifest := &core.IndexManifest{
		Count:     total,
		Dimension: r.dimension,
		Model:     model,
	}
	if err := r.repo.PutManifest(ctx, manifest); err != nil {
		return fmt.Errorf("failed to update manifest: %w", err)
	}

	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Reindex complete. Processed %d entries in %v (%.1f entries/sec)\n",
		total, elapsed.Round(time.Second), float64(total)/elapsed.Seconds())

	return nil
}

// processBatch embeds one batch of entries and writes them back.
func (r *Reindexer) processBatch(ctx context.Context, entries []*core.VocabEntry) error {
	if len(entries) == 0 {
		return nil
	}

	texts := make([]string, len(entries))
	for i, entry := range entries {
		texts[i] = entry.Text
	}

	var embeddings [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var err error
		embeddings, err = r.embedder.EmbedTexts(ctx, texts)
		return err
	}, r.config.MaxRetries, r.config.RetryDelay)
	if err != nil {
		return fmt.Errorf("failed to generate embeddings after %d attempts: %w", r.config.MaxRetries, err)
	}

	if len(embeddings) != len(entries) {
		return fmt.Errorf("embedding count mismatch: expected %d, got %d", len(entries), len(embeddings))
	}

	for i, vector := range embeddings {
		if len(vector) == 0 {
			return fmt.Errorf("no embedding for vocabulary term %q", entries[i].Text)
		}
		if r.dimension == 0 {
			r.dimension = len(vector)
		}
		if len(vector) != r.dimension {
			return fmt.Errorf("inconsistent embedding dimension for %q: got %d, want %d",
				entries[i].Text, len(vector), r.dimension)
		}
		entries[i].Vector = vector
	}

	if _, err := r.repo.AddEntries(ctx, entries...); err != nil {
		return fmt.Errorf("failed to update entries: %w", err)
	}

	return nil
}
