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


// Package vocab canonicalizes noisy symptom phrases against a fixed
// vocabulary of canonical terms.
//
// The pipeline is: normalize the phrase, embed it, retrieve the k nearest
// vocabulary entries by cosine similarity over a flat unit-normalized index,
// then apply a two-threshold decision: the top candidate is accepted when
// its score reaches the accept threshold AND it is not ambiguous, where
// ambiguous means the top two scores are closer than the ambiguity delta.
//
// Empty and unembeddable phrases are valid zero-result outcomes, not
// errors. CanonicalizeMany processes phrases independently on a worker
// pool; there is no cross-phrase state.
package vocab
