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

import "errors"

// Domain validation errors
var (
	// ErrInvalidPrediction indicates a classifier Prediction failed validation.
	ErrInvalidPrediction = errors.New("invalid prediction")

	// ErrEmptyDiseaseID indicates the prediction's DiseaseID field is empty.
	ErrEmptyDiseaseID = errors.New("disease id cannot be empty")

	// ErrScoreOutOfRange indicates a probability outside [0, 1].
	ErrScoreOutOfRange = errors.New("score must be in [0, 1]")

	// ErrInvalidVocabEntry indicates a VocabEntry failed validation.
	ErrInvalidVocabEntry = errors.New("invalid vocabulary entry")

	// ErrEmptyVocabKey indicates the entry Key field is empty.
	ErrEmptyVocabKey = errors.New("vocabulary key cannot be empty")

	// ErrEmptyVocabText indicates the entry Text field is empty.
	ErrEmptyVocabText = errors.New("vocabulary text cannot be empty")
)
