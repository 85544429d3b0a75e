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


// Package ai defines the capability interfaces for external model services.
//
// Two narrow interfaces cross the module boundary:
//
//   - Embedder maps text into the shared vector space used by the
//     vocabulary index. The concrete backend (openai subpackage, backed by
//     an OpenAI-compatible API) is swappable without touching
//     canonicalization policy logic.
//   - Classifier is the statistical text classifier consumed as a black
//     box. Only its label and probability are ever inspected.
//
// The mock subpackage provides deterministic test doubles so the matching
// and fusion logic can be tested without any external service.
//
//	cfg := ai.NewConfig(ai.WithEmbeddingModel("embeddinggemma"))
//	embedder, err := openai.NewEmbedder(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	vector, err := embedder.EmbedText(ctx, "trouble breathing")
package ai
