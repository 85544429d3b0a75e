package ontology

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/knakk/rdf"
	"github.com/poiesic/symptomap/core"
)

// Well-known vocabulary IRIs.
const (
	rdfType            = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"
	rdfsLabel          = "http://www.w3.org/2000/01/rdf-schema#label"
	rdfsSubClassOf     = "http://www.w3.org/2000/01/rdf-schema#subClassOf"
	skosPrefLabel      = "http://www.w3.org/2004/02/skos/core#prefLabel"
	owlEquivalentClass = "http://www.w3.org/2002/07/owl#equivalentClass"
	owlSameAs          = "http://www.w3.org/2002/07/owl#sameAs"

	// WikidataEntityPrefix identifies equivalence targets carrying a Q-ID.
	WikidataEntityPrefix = "http://www.wikidata.org/entity/"
)

// DefaultBaseNamespace is the ontology namespace the store binds to.
const DefaultBaseNamespace = "http://uu.nl/medical/"

// DefaultLanguage is the preferred label language.
const DefaultLanguage = "en"

// labelLiteral is one label triple attached to an entity.
type labelLiteral struct {
	predicate string
	value     string
	lang      string
}

// Store is an in-memory index over a loaded knowledge graph: disease
// entities, symptom entities typed by role edges, and label lookups.
// It is built once at startup and read-only afterwards, so it is safe to
// share across concurrent queries. The only mutable state is the lazy label
// cache, which is guarded by its own lock.
type Store struct {
	base   string
	lang   string
	logger *slog.Logger

	labels      map[string][]labelLiteral
	instances   map[string][]string          // class IRI -> sorted instance IRIs
	equivalents map[string][]string          // entity IRI -> equivalence target IRIs
	roleEdges   map[core.SymptomRole]map[string][]string // role -> disease IRI -> symptom IRIs
	symptomIRIs []string                     // sorted IRIs of all symptom instances
	symptomSets map[string]map[string]bool   // disease IRI -> union of role edges

	mu         sync.RWMutex
	labelCache map[string]string
}

// StoreOption configures a Store before loading.
type StoreOption func(*Store)

// WithBaseNamespace overrides the ontology namespace the store binds to.
// Default is DefaultBaseNamespace.
func WithBaseNamespace(base string) StoreOption {
	return func(s *Store) {
		s.base = base
	}
}

// WithLanguage sets the preferred label language tag.
// Default is DefaultLanguage.
func WithLanguage(lang string) StoreOption {
	return func(s *Store) {
		s.lang = lang
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) StoreOption {
	return func(s *Store) {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
	}
}

// Load reads a persisted graph from disk and builds the store. The format is
// chosen by extension: .nt is decoded as N-Triples, anything else as Turtle.
//
// Load failure is fatal at startup: a parse error or a graph with zero
// disease entities aborts construction and no store is returned.
func Load(path string, opts ...StoreOption) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParseFailed, err)
	}
	defer f.Close()

	format := rdf.Turtle
	if filepath.Ext(path) == ".nt" {
		format = rdf.NTriples
	}

	return LoadReader(f, format, opts...)
}

// LoadReader builds a store from an already-open triple source.
func LoadReader(r io.Reader, format rdf.Format, opts ...StoreOption) (*Store, error) {
	s := &Store{
		base:        DefaultBaseNamespace,
		lang:        DefaultLanguage,
		logger:      slog.Default(),
		labels:      make(map[string][]labelLiteral),
		instances:   make(map[string][]string),
		equivalents: make(map[string][]string),
		roleEdges:   make(map[core.SymptomRole]map[string][]string),
		labelCache:  make(map[string]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	for _, role := range []core.SymptomRole{core.RolePrimary, core.RoleSecondary, core.RoleComplication} {
		s.roleEdges[role] = make(map[string][]string)
	}

	triples, err := rdf.NewTripleDecoder(r, format).DecodeAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParseFailed, err)
	}

	if err := s.index(triples); err != nil {
		return nil, err
	}

	s.logger.Info("knowledge graph loaded",
		"triples", len(triples),
		"diseases", len(s.instances[s.base+"Disease"]),
		"symptoms", len(s.symptomIRIs))

	return s, nil
}

// index builds all lookup structures from the decoded triples.
func (s *Store) index(triples []rdf.Triple) error {
	rolePredicates := map[string]core.SymptomRole{
		s.base + "hasPrimarySymptom":   core.RolePrimary,
		s.base + "hasSecondarySymptom": core.RoleSecondary,
		s.base + "hasComplication":     core.RoleComplication,
	}

	subclasses := make(map[string][]string) // superclass -> subclasses

	for _, t := range triples {
		subj := t.Subj.String()
		pred := t.Pred.String()

		switch pred {
		case rdfType:
			class := t.Obj.String()
			s.instances[class] = append(s.instances[class], subj)

		case rdfsSubClassOf:
			super := t.Obj.String()
			subclasses[super] = append(subclasses[super], subj)

		case skosPrefLabel, rdfsLabel:
			if lit, ok := t.Obj.(rdf.Literal); ok {
				s.labels[subj] = append(s.labels[subj], labelLiteral{
					predicate: pred,
					value:     lit.String(),
					lang:      lit.Lang(),
				})
			}

		case owlEquivalentClass, owlSameAs:
			if t.Obj.Type() == rdf.TermIRI {
				s.equivalents[subj] = append(s.equivalents[subj], t.Obj.String())
			}

		default:
			if role, ok := rolePredicates[pred]; ok {
				s.roleEdges[role][subj] = append(s.roleEdges[role][subj], t.Obj.String())
			}
		}
	}

	diseases := s.instances[s.base+"Disease"]
	if len(diseases) == 0 {
		return ErrNoDiseases
	}
	for class := range s.instances {
		sort.Strings(s.instances[class])
	}

	// Symptom instances: anything typed under the Symptom class or one of
	// its subclasses (e.g. SkinSymptom, SystemicSymptom).
	symptomClasses := append([]string{s.base + "Symptom"}, subclasses[s.base+"Symptom"]...)
	seen := make(map[string]bool)
	for _, class := range symptomClasses {
		for _, iri := range s.instances[class] {
			if !seen[iri] {
				seen[iri] = true
				s.symptomIRIs = append(s.symptomIRIs, iri)
			}
		}
	}
	sort.Strings(s.symptomIRIs)

	// The aggregate symptom set of a disease is the union of all three role
	// edge sets; computed once here, read-only for the life of the store.
	s.symptomSets = make(map[string]map[string]bool)
	for _, edges := range s.roleEdges {
		for disease, symptoms := range edges {
			set := s.symptomSets[disease]
			if set == nil {
				set = make(map[string]bool)
				s.symptomSets[disease] = set
			}
			for _, sym := range symptoms {
				set[sym] = true
			}
		}
	}

	return nil
}

var labelSeparators = regexp.MustCompile(`[-_]+`)

// normalizeLabel lowercases a label and flattens hyphen/underscore runs to
// single spaces, so "light-headed", "light_headed" and "Light Headed" all
// compare equal.
func normalizeLabel(s string) string {
	return labelSeparators.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), " ")
}

// LabelOf resolves the display label of an entity with the fallback chain:
// preferred label in the store's language, then any label, then the IRI's
// local fragment. The chain is evaluated once per entity and cached for the
// process lifetime.
func (s *Store) LabelOf(iri string) string {
	s.mu.RLock()
	if label, ok := s.labelCache[iri]; ok {
		s.mu.RUnlock()
		return label
	}
	s.mu.RUnlock()

	label := s.resolveLabel(iri)

	s.mu.Lock()
	s.labelCache[iri] = label
	s.mu.Unlock()
	return label
}

func (s *Store) resolveLabel(iri string) string {
	literals := s.labels[iri]

	// Preferred labels first, language-matched or untagged.
	for _, pred := range []string{skosPrefLabel, rdfsLabel} {
		for _, lit := range literals {
			if lit.predicate == pred && (lit.lang == "" || lit.lang == s.lang) {
				return lit.value
			}
		}
	}

	// Any label at all.
	if len(literals) > 0 {
		return literals[0].value
	}

	// Local identifier fragment.
	return localFragment(iri)
}

// localFragment returns the part of an IRI after the last '#' or '/'.
func localFragment(iri string) string {
	if i := strings.LastIndexAny(iri, "#/"); i >= 0 && i+1 < len(iri) {
		return iri[i+1:]
	}
	return iri
}

// externalID extracts a Wikidata Q-ID from the entity's equivalence edges,
// or "" when none points into the Wikidata entity namespace.
func (s *Store) externalID(iri string) string {
	for _, eq := range s.equivalents[iri] {
		if strings.HasPrefix(eq, WikidataEntityPrefix) {
			return localFragment(eq)
		}
	}
	return ""
}

// symptomEntity materializes the full entity for a symptom IRI.
func (s *Store) symptomEntity(iri string) core.SymptomEntity {
	return core.SymptomEntity{
		Key:        iri,
		Label:      s.LabelOf(iri),
		ExternalID: s.externalID(iri),
	}
}

// SymptomEntities returns every symptom entity in the graph, sorted by key.
// Used by the vocabulary indexer.
func (s *Store) SymptomEntities() []core.SymptomEntity {
	entities := make([]core.SymptomEntity, len(s.symptomIRIs))
	for i, iri := range s.symptomIRIs {
		entities[i] = s.symptomEntity(iri)
	}
	return entities
}

// AllSymptomLabels returns the sorted distinct labels of all symptom entities.
func (s *Store) AllSymptomLabels() []string {
	seen := make(map[string]bool)
	labels := make([]string, 0, len(s.symptomIRIs))
	for _, iri := range s.symptomIRIs {
		label := s.LabelOf(iri)
		if !seen[label] {
			seen[label] = true
			labels = append(labels, label)
		}
	}
	sort.Strings(labels)
	return labels
}

// Diseases returns every disease entity in the graph, sorted by key.
func (s *Store) Diseases() []core.DiseaseEntity {
	iris := s.instances[s.base+"Disease"]
	entities := make([]core.DiseaseEntity, len(iris))
	for i, iri := range iris {
		entities[i] = core.DiseaseEntity{
			Key:        iri,
			Label:      s.LabelOf(iri),
			ExternalID: s.externalID(iri),
		}
	}
	return entities
}

// FindSymptomEntities resolves free-form symptom labels to symptom entities.
// Every input and every indexed label is normalized, and a symptom matches
// on exact equality OR substring containment in either direction.
//
// This is deliberately permissive because upstream extraction is noisy; it
// trades precision for recall and the matcher must tolerate the resulting
// false positives.
func (s *Store) FindSymptomEntities(labels []string) []core.SymptomEntity {
	inputs := make(map[string]bool, len(labels))
	for _, l := range labels {
		if n := normalizeLabel(l); n != "" {
			inputs[n] = true
		}
	}
	if len(inputs) == 0 {
		return nil
	}

	var matches []core.SymptomEntity
	for _, iri := range s.symptomIRIs {
		indexed := normalizeLabel(s.LabelOf(iri))
		for input := range inputs {
			if input == indexed || strings.Contains(indexed, input) || strings.Contains(input, indexed) {
				matches = append(matches, s.symptomEntity(iri))
				break
			}
		}
	}
	return matches
}

// DiseaseSymptomSets returns the cached union of all three role edge sets
// per disease, keyed by disease IRI. The returned map is shared and must be
// treated as read-only.
func (s *Store) DiseaseSymptomSets() map[string]map[string]bool {
	return s.symptomSets
}

// PrimarySymptomsOf returns the sorted primary symptom labels of the disease
// with exactly the given label (normalized comparison). Used for the fusion
// engine's sanity check; the empty result means the disease is unknown or
// has no primary symptoms defined.
func (s *Store) PrimarySymptomsOf(diseaseLabel string) []string {
	iri, ok := s.diseaseByExactLabel(diseaseLabel)
	if !ok {
		return nil
	}

	labels := make([]string, 0, len(s.roleEdges[core.RolePrimary][iri]))
	for _, sym := range s.roleEdges[core.RolePrimary][iri] {
		labels = append(labels, s.LabelOf(sym))
	}
	sort.Strings(labels)
	return slices.Compact(labels)
}

// AggregateSymptomsOf returns the sorted labels of all symptoms of the first
// disease whose label contains the given name. Lookup is permissive here
// (introspection helper), unlike PrimarySymptomsOf.
func (s *Store) AggregateSymptomsOf(diseaseName string) []string {
	target := normalizeLabel(diseaseName)
	if target == "" {
		return nil
	}

	for _, iri := range s.instances[s.base+"Disease"] {
		if !strings.Contains(normalizeLabel(s.LabelOf(iri)), target) {
			continue
		}
		labels := make([]string, 0, len(s.symptomSets[iri]))
		for sym := range s.symptomSets[iri] {
			labels = append(labels, s.LabelOf(sym))
		}
		sort.Strings(labels)
		return slices.Compact(labels)
	}
	return nil
}

// ExternalIDOf returns the external knowledge-base identifier of the disease
// with exactly the given label, if one is recorded.
func (s *Store) ExternalIDOf(diseaseLabel string) (string, bool) {
	iri, ok := s.diseaseByExactLabel(diseaseLabel)
	if !ok {
		return "", false
	}
	id := s.externalID(iri)
	return id, id != ""
}

// diseaseByExactLabel finds a disease IRI by normalized exact label match.
func (s *Store) diseaseByExactLabel(label string) (string, bool) {
	target := normalizeLabel(label)
	for _, iri := range s.instances[s.base+"Disease"] {
		if normalizeLabel(s.LabelOf(iri)) == target {
			return iri, true
		}
	}
	return "", false
}
