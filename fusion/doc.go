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


// Package fusion adjudicates between the statistical classifier and the
// knowledge graph matcher.
//
// The engine runs a deterministic chain of named policy steps over a
// running verdict: an agreement bonus when both signals name the same
// disease, a sanity penalty when the query shares no primary symptom with
// the predicted disease, and a low-confidence fallback that substitutes the
// top graph candidate. Each step appends to the reasoning trace, which is
// part of the verdict contract rather than incidental logging.
package fusion
