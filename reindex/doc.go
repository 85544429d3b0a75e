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


// Package reindex rebuilds the embeddings of a persisted symptom vocabulary.
//
// Switching embedding models invalidates every stored vector: vectors from
// different models live in different spaces and their similarities are
// meaningless. The reindexer walks all stored entries in batches, re-embeds
// their canonical texts with retry and progress reporting, and finally
// rewrites the manifest so readers can verify the index again.
package reindex
