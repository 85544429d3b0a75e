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


package vocab

import "errors"

var (
	// ErrIndexRequired is returned when an embedding index is not provided.
	ErrIndexRequired = errors.New("embedding index required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrEmptyVocabulary indicates an index was built with zero entries.
	ErrEmptyVocabulary = errors.New("vocabulary is empty")

	// ErrMissingVector indicates a vocabulary entry has no embedding.
	ErrMissingVector = errors.New("vocabulary entry has no vector")

	// ErrDimensionMismatch indicates inconsistent vector dimensions.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrIndexSizeMismatch indicates the loaded entries do not match the
	// manifest the index was built with.
	ErrIndexSizeMismatch = errors.New("index size does not match vocabulary size")

	// ErrInvalidTopK indicates a k too small to assess ambiguity.
	ErrInvalidTopK = errors.New("k must be at least 2 to assess ambiguity")
)
