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


package core

import "fmt"

// ValidatePrediction validates a classifier verdict according to domain rules.
//
// Validation rules:
//   - DiseaseID must not be empty
//   - Score must be in [0, 1]
//
// The prediction is otherwise opaque; its internal structure is never
// inspected beyond this shape check.
func ValidatePrediction(p *Prediction) error {
	if p == nil {
		return fmt.Errorf("%w: prediction is nil", ErrInvalidPrediction)
	}

	if p.DiseaseID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidPrediction, ErrEmptyDiseaseID)
	}

	if p.Score < 0 || p.Score > 1 {
		return fmt.Errorf("%w: %w: got %v", ErrInvalidPrediction, ErrScoreOutOfRange, p.Score)
	}

	return nil
}

// ValidateVocabEntry validates a vocabulary entry according to domain rules.
//
// Validation rules:
//   - Key must not be empty
//   - Text must not be empty
//
// NOT validated:
//   - Vector (can be empty until the indexer embeds the entry)
//   - ExternalID (optional)
func ValidateVocabEntry(entry *VocabEntry) error {
	if entry == nil {
		return fmt.Errorf("%w: entry is nil", ErrInvalidVocabEntry)
	}

	if entry.Key == "" {
		return fmt.Errorf("%w: %w", ErrInvalidVocabEntry, ErrEmptyVocabKey)
	}

	if entry.Text == "" {
		return fmt.Errorf("%w: %w", ErrInvalidVocabEntry, ErrEmptyVocabText)
	}

	return nil
}
