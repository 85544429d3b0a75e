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


package symptomap

import (
	"context"
	"log/slog"

	"github.com/poiesic/symptomap/ai"
	"github.com/poiesic/symptomap/core"
	"github.com/poiesic/symptomap/fusion"
	"github.com/poiesic/symptomap/match"
	"github.com/poiesic/symptomap/ontology"
	"github.com/poiesic/symptomap/storage/badger"
	"github.com/poiesic/symptomap/vocab"
)

// Pipeline wires the full diagnostic flow: phrase extraction, vocabulary
// canonicalization, knowledge graph matching and, when a classifier is
// configured, score fusion.
type Pipeline struct {
	store      *ontology.Store
	canon      *vocab.Canonicalizer
	matcher    *match.Matcher
	engine     *fusion.Engine
	classifier ai.Classifier
	matchTopK  int
	canonTopK  int
	useJaccard bool
	logger     *slog.Logger
}

// DiagnosisReport is the full outcome of one Diagnose call. Every
// intermediate stage is exposed so callers can show their work.
type DiagnosisReport struct {
	// Canonicalizations holds the per-phrase vocabulary decisions,
	// including rejected and ambiguous phrases.
	Canonicalizations []*core.CanonicalizationResult

	// Symptoms is the deduplicated canonical symptom set handed to the matcher.
	Symptoms []string

	// Matches holds the ranked knowledge graph candidates.
	Matches []core.MatchResult

	// Verdict is the fused result. Nil when no classifier is configured.
	Verdict *core.FusionVerdict
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*pipelineOptions)

type pipelineOptions struct {
	classifier ai.Classifier
	matchTopK  int
	canonTopK  int
	useJaccard bool
	logger     *slog.Logger
}

// WithClassifier attaches an external statistical classifier; Diagnose then
// produces a fused verdict in addition to the graph candidates.
func WithClassifier(classifier ai.Classifier) PipelineOption {
	return func(o *pipelineOptions) {
		o.classifier = classifier
	}
}

// WithMatchTopK limits how many disease candidates the matcher returns.
// Zero means unlimited. Default is 5.
func WithMatchTopK(k int) PipelineOption {
	return func(o *pipelineOptions) {
		o.matchTopK = k
	}
}

// WithCanonTopK sets how many vocabulary candidates are retrieved per phrase.
// Must be at least 2 so ambiguity can be assessed. Default is vocab.DefaultTopK.
func WithCanonTopK(k int) PipelineOption {
	return func(o *pipelineOptions) {
		o.canonTopK = k
	}
}

// WithCoverageScoring switches the matcher from Jaccard to query-coverage
// scoring.
func WithCoverageScoring() PipelineOption {
	return func(o *pipelineOptions) {
		o.useJaccard = false
	}
}

// WithPipelineLogger sets a custom logger.
// Default is slog.Default().
func WithPipelineLogger(logger *slog.Logger) PipelineOption {
	return func(o *pipelineOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewPipeline assembles a pipeline from already loaded components.
func NewPipeline(store *ontology.Store, index *vocab.Index, embedder ai.Embedder, opts ...PipelineOption) (*Pipeline, error) {
	options := &pipelineOptions{
		matchTopK:  5,
		canonTopK:  vocab.DefaultTopK,
		useJaccard: true,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}

	canon, err := vocab.NewCanonicalizer(index, embedder, vocab.WithLogger(options.logger))
	if err != nil {
		return nil, err
	}

	matcher, err := match.NewMatcher(store, match.WithLogger(options.logger))
	if err != nil {
		canon.Release()
		return nil, err
	}

	engine, err := fusion.NewEngine(store, fusion.WithLogger(options.logger))
	if err != nil {
		canon.Release()
		return nil, err
	}

	return &Pipeline{
		store:      store,
		canon:      canon,
		matcher:    matcher,
		engine:     engine,
		classifier: options.classifier,
		matchTopK:  options.matchTopK,
		canonTopK:  options.canonTopK,
		useJaccard: options.useJaccard,
		logger:     options.logger,
	}, nil
}

// OpenPipeline loads the knowledge graph from graphPath and the persisted
// vocabulary index from dbPath, verifies the index against its manifest and
// assembles a pipeline. The database is only read during startup and is
// closed before returning.
func OpenPipeline(dbPath, graphPath string, embedder ai.Embedder, opts ...PipelineOption) (*Pipeline, error) {
	store, err := ontology.Load(graphPath)
	if err != nil {
		return nil, err
	}

	backend, err := badger.OpenBackend(dbPath, false)
	if err != nil {
		return nil, err
	}
	defer backend.Close()

	repo, err := badger.NewVocabRepository(backend)
	if err != nil {
		return nil, err
	}
	defer repo.Close()

	ctx := context.Background()
	stored, err := repo.AllEntries(ctx)
	if err != nil {
		return nil, err
	}
	manifest, err := repo.GetManifest(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]core.VocabEntry, len(stored))
	for i, entry := range stored {
		entries[i] = *entry
	}

	index, err := vocab.NewVerifiedIndex(entries, manifest)
	if err != nil {
		return nil, err
	}

	return NewPipeline(store, index, embedder, opts...)
}

// Close releases pipeline resources.
func (p *Pipeline) Close() error {
	p.canon.Release()
	return nil
}

// Store exposes the loaded knowledge graph.
func (p *Pipeline) Store() *ontology.Store {
	return p.store
}

// Canonicalize maps free text to canonical symptom decisions without running
// the matcher.
func (p *Pipeline) Canonicalize(ctx context.Context, text string) ([]*core.CanonicalizationResult, error) {
	phrases := vocab.ExtractCandidatePhrases(text)
	return p.canon.CanonicalizeMany(ctx, phrases, p.canonTopK)
}

// Match ranks diseases against an already canonical symptom set.
func (p *Pipeline) Match(symptoms []string) []core.MatchResult {
	return p.matcher.FindNearestDiseases(symptoms, p.matchTopK, p.useJaccard)
}

// Diagnose runs the full flow over a free-text symptom description.
//
// Without a classifier the report carries canonicalizations and graph
// candidates only. With one, the classifier's prediction is fused with the
// candidates into a final verdict.
func (p *Pipeline) Diagnose(ctx context.Context, description string) (*DiagnosisReport, error) {
	results, err := p.Canonicalize(ctx, description)
	if err != nil {
		return nil, err
	}

	symptoms := vocab.AcceptedLabels(results)
	report := &DiagnosisReport{
		Canonicalizations: results,
		Symptoms:          symptoms,
		Matches:           p.matcher.FindNearestDiseases(symptoms, p.matchTopK, p.useJaccard),
	}

	p.logger.Debug("diagnosis candidates ready",
		"phrases", len(results),
		"symptoms", len(symptoms),
		"matches", len(report.Matches))

	if p.classifier == nil {
		return report, nil
	}

	prediction, err := p.classifier.Predict(ctx, description)
	if err != nil {
		return nil, err
	}

	verdict, err := p.engine.Fuse(prediction, report.Matches, symptoms)
	if err != nil {
		return nil, err
	}
	report.Verdict = verdict

	return report, nil
}
