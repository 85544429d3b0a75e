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


package ontology

import "errors"

var (
	// ErrParseFailed indicates the persisted graph could not be decoded.
	ErrParseFailed = errors.New("failed to parse graph")

	// ErrNoDiseases indicates the graph contains zero disease entities.
	// An empty graph is a configuration error, not a valid empty result.
	ErrNoDiseases = errors.New("no disease entities found; check graph or namespace")
)
