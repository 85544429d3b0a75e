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


// The indexer maintains the persisted symptom vocabulary: build reads the
// symptom entities of a knowledge graph, embeds their labels and stores the
// entries together with a build manifest; reindex re-embeds an existing
// vocabulary with a new model. The main binary loads this index at startup
// and refuses it when entries and manifest disagree.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/poiesic/symptomap/ai"
	"github.com/poiesic/symptomap/ai/openai"
	"github.com/poiesic/symptomap/core"
	"github.com/poiesic/symptomap/ontology"
	"github.com/poiesic/symptomap/reindex"
	"github.com/poiesic/symptomap/storage/badger"
	"github.com/poiesic/symptomap/vocab"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "indexer",
		Usage: "Build and maintain the persisted symptom vocabulary index",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "build",
				Usage:  "Build the vocabulary index from a knowledge graph",
				Action: buildCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "graph",
						Aliases:  []string{"g"},
						Usage:    "Path to the knowledge graph file (.ttl or .nt)",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to the vocabulary index database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:     "embedding-model",
						Usage:    "Embedding model name",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of labels to embed in each batch",
						Value: 32,
					},
				},
			},
			{
				Name:   "reindex",
				Usage:  "Re-embed an existing vocabulary index with a new model",
				Action: reindexCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to the vocabulary index database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:     "embedding-model",
						Usage:    "Embedding model name",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of entries to embed in each batch",
						Value: 32,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N entries",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed operations",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func buildCommand(c *cli.Context) error {
	ctx := context.Background()
	logger := slog.Default()

	batchSize := c.Int("batch-size")
	if batchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}

	store, err := ontology.Load(c.String("graph"))
	if err != nil {
		return fmt.Errorf("failed to load knowledge graph: %w", err)
	}

	entities := store.SymptomEntities()
	if len(entities) == 0 {
		return fmt.Errorf("knowledge graph contains no symptoms")
	}
	logger.Info("loaded knowledge graph", "symptoms", len(entities))

	embedder, err := newEmbedder(c)
	if err != nil {
		return err
	}

	entries := make([]*core.VocabEntry, 0, len(entities))
	for _, entity := range entities {
		text := vocab.NormalizeText(entity.Label)
		if text == "" {
			logger.Warn("skipping symptom with empty label", "key", entity.Key)
			continue
		}

		key := entity.ExternalID
		if key == "" {
			key = entity.Key
		}
		entries = append(entries, &core.VocabEntry{
			Id:         core.IDFromContent(key),
			Key:        key,
			Text:       text,
			ExternalID: entity.ExternalID,
		})
	}

	dimension, err := embedEntries(ctx, embedder, entries, batchSize, logger)
	if err != nil {
		return err
	}

	backend, err := badger.OpenBackend(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	repo, err := badger.NewVocabRepository(backend)
	if err != nil {
		return fmt.Errorf("failed to create repository: %w", err)
	}
	defer repo.Close()

	if _, err := repo.AddEntries(ctx, entries...); err != nil {
		return fmt.Errorf("failed to store vocabulary entries: %w", err)
	}

	manifest := &core.IndexManifest{
		Count:     len(entries),
		Dimension: dimension,
		Model:     c.String("embedding-model"),
	}
	if err := repo.PutManifest(ctx, manifest); err != nil {
		return fmt.Errorf("failed to store manifest: %w", err)
	}

	logger.Info("vocabulary index built",
		"entries", manifest.Count,
		"dimension", manifest.Dimension,
		"model", manifest.Model)
	return nil
}

func reindexCommand(c *cli.Context) error {
	ctx := context.Background()

	embedder, err := newEmbedder(c)
	if err != nil {
		return err
	}

	backend, err := badger.OpenBackend(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	repo, err := badger.NewVocabRepository(backend)
	if err != nil {
		return fmt.Errorf("failed to create repository: %w", err)
	}
	defer repo.Close()

	config := &reindex.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}
	if config.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if config.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if config.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	reindexer := reindex.NewReindexer(repo, embedder, config, os.Stderr)
	if err := reindexer.Run(ctx, c.String("embedding-model")); err != nil {
		return fmt.Errorf("reindex failed: %w", err)
	}
	return nil
}

func newEmbedder(c *cli.Context) (ai.Embedder, error) {
	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
	)
	embedder, err := openai.NewEmbedder(aiConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}
	return embedder, nil
}

// embedEntries fills in the entry vectors in batches and returns the
// embedding dimensionality. An entry without a usable embedding is fatal: a
// vocabulary term that cannot be searched would silently disappear from
// every diagnosis.
func embedEntries(ctx context.Context, embedder ai.Embedder, entries []*core.VocabEntry, batchSize int, logger *slog.Logger) (int, error) {
	dimension := 0
	for start := 0; start < len(entries); start += batchSize {
		end := min(start+batchSize, len(entries))
		batch := entries[start:end]

		texts := make([]string, len(batch))
		for i, entry := range batch {
			texts[i] = entry.Text
		}

		vectors, err := embedder.EmbedTexts(ctx, texts)
		if err != nil {
			return 0, fmt.Errorf("failed to embed batch at %d: %w", start, err)
		}
		if len(vectors) != len(batch) {
			return 0, fmt.Errorf("embedder returned %d vectors for %d texts", len(vectors), len(batch))
		}

		for i, vector := range vectors {
			if len(vector) == 0 {
				return 0, fmt.Errorf("no embedding for vocabulary term %q", batch[i].Text)
			}
			if dimension == 0 {
				dimension = len(vector)
			}
			if len(vector) != dimension {
				return 0, fmt.Errorf("inconsistent embedding dimension for %q: got %d, want %d",
					batch[i].Text, len(vector), dimension)
			}
			batch[i].Vector = vector
		}

		logger.Info("embedded vocabulary batch", "done", end, "total", len(entries))
	}
	return dimension, nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
