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


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/poiesic/symptomap"
	"github.com/poiesic/symptomap/ai"
	"github.com/poiesic/symptomap/ai/openai"
	"github.com/poiesic/symptomap/ai/rest"
	"github.com/poiesic/symptomap/core"
	"github.com/poiesic/symptomap/match"
	"github.com/poiesic/symptomap/ontology"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "symptomap",
		Usage: "Map free-text symptom descriptions to knowledge graph diseases",
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
				Name:      "diagnose",
				Usage:     "Canonicalize a symptom description and rank diseases against it",
				ArgsUsage: "<description>",
				Action:    diagnoseCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to the vocabulary index database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "graph",
						Aliases:  []string{"g"},
						Usage:    "Path to the knowledge graph file (.ttl or .nt)",
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
					&cli.StringFlag{
						Name:  "classifier-endpoint",
						Usage: "URL of an external classifier prediction service; enables the fused verdict",
					},
					&cli.IntFlag{
						Name:  "top-k",
						Usage: "Maximum number of disease candidates to report",
						Value: 5,
					},
					&cli.BoolFlag{
						Name:  "coverage",
						Usage: "Score by query coverage instead of Jaccard similarity",
					},
				},
			},
			{
				Name:      "match",
				Usage:     "Rank diseases against already canonical symptom labels",
				ArgsUsage: "<symptom> [symptom...]",
				Action:    matchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "graph",
						Aliases:  []string{"g"},
						Usage:    "Path to the knowledge graph file (.ttl or .nt)",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "top-k",
						Usage: "Maximum number of disease candidates to report",
						Value: 5,
					},
					&cli.BoolFlag{
						Name:  "coverage",
						Usage: "Score by query coverage instead of Jaccard similarity",
					},
				},
			},
			{
				Name:   "symptoms",
				Usage:  "List the symptom vocabulary of a knowledge graph",
				Action: symptomsCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "graph",
						Aliases:  []string{"g"},
						Usage:    "Path to the knowledge graph file (.ttl or .nt)",
						Required: true,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func diagnoseCommand(c *cli.Context) error {
	description := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(description) == "" {
		return fmt.Errorf("a symptom description is required")
	}

	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
	)
	embedder, err := openai.NewEmbedder(aiConfig)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	opts := []symptomap.PipelineOption{
		symptomap.WithMatchTopK(c.Int("top-k")),
	}
	if c.Bool("coverage") {
		opts = append(opts, symptomap.WithCoverageScoring())
	}
	if endpoint := c.String("classifier-endpoint"); endpoint != "" {
		classifier, err := rest.NewClassifier(endpoint)
		if err != nil {
			return fmt.Errorf("failed to create classifier client: %w", err)
		}
		opts = append(opts, symptomap.WithClassifier(classifier))
	}

	pipeline, err := symptomap.OpenPipeline(c.String("db"), c.String("graph"), embedder, opts...)
	if err != nil {
		return fmt.Errorf("failed to open pipeline: %w", err)
	}
	defer pipeline.Close()

	report, err := pipeline.Diagnose(context.Background(), description)
	if err != nil {
		return fmt.Errorf("diagnosis failed: %w", err)
	}

	fmt.Println("Canonicalized symptoms:")
	for _, result := range report.Canonicalizations {
		switch {
		case result.Accepted:
			fmt.Printf("  %-24s -> %s (%.3f)\n", result.Input, result.Match.Text, result.Match.Score)
		case result.Ambiguous:
			fmt.Printf("  %-24s -> ambiguous, skipped\n", result.Input)
		default:
			fmt.Printf("  %-24s -> no match\n", result.Input)
		}
	}
	fmt.Println()

	printMatches(report.Matches)

	if report.Verdict != nil {
		fmt.Println()
		fmt.Printf("Verdict: %s (%.3f", report.Verdict.Disease, report.Verdict.FinalScore)
		if report.Verdict.IsFallback {
			fmt.Print(", knowledge graph fallback")
		}
		fmt.Println(")")
		fmt.Println("Reasoning:")
		for _, line := range report.Verdict.Reasoning {
			fmt.Printf("  - %s\n", line)
		}
	}
	return nil
}

func matchCommand(c *cli.Context) error {
	symptoms := c.Args().Slice()
	if len(symptoms) == 0 {
		return fmt.Errorf("at least one symptom label is required")
	}

	store, err := ontology.Load(c.String("graph"))
	if err != nil {
		return fmt.Errorf("failed to load knowledge graph: %w", err)
	}

	matcher, err := match.NewMatcher(store)
	if err != nil {
		return err
	}

	results := matcher.FindNearestDiseases(symptoms, c.Int("top-k"), !c.Bool("coverage"))
	printMatches(results)
	return nil
}

func symptomsCommand(c *cli.Context) error {
	store, err := ontology.Load(c.String("graph"))
	if err != nil {
		return fmt.Errorf("failed to load knowledge graph: %w", err)
	}

	for _, entity := range store.SymptomEntities() {
		if entity.ExternalID != "" {
			fmt.Printf("%s\t%s\n", entity.Label, entity.ExternalID)
		} else {
			fmt.Println(entity.Label)
		}
	}
	return nil
}

func printMatches(results []core.MatchResult) {
	if len(results) == 0 {
		fmt.Println("No disease candidates found.")
		return
	}

	fmt.Println("Disease candidates:")
	for i, result := range results {
		fmt.Printf("  %d. %-28s score %.3f  (%d/%d symptoms: %s)\n",
			i+1, result.DiseaseName, result.SimilarityScore,
			result.MatchCount, result.TotalDiseaseSymptoms,
			strings.Join(result.MatchedSymptoms, ", "))
	}
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
