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


// Package ontology loads a persisted medical knowledge graph and indexes it
// for symptom-role aware querying.
//
// The graph is serialized as Turtle or N-Triples and contains disease
// entities typed under a Disease class, symptom entities typed under a
// Symptom class or its subclasses, three disjoint role edges per disease
// (hasPrimarySymptom, hasSecondarySymptom, hasComplication), language-tagged
// labels and optional equivalence edges into the Wikidata entity namespace.
//
// A Store is built once at startup and read-only afterwards; construction
// fails on a parse error or a graph without diseases, so a partially usable
// store is never served.
package ontology
