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


package rest

import "errors"

var (
	// ErrEndpointRequired is returned when no classifier endpoint is provided.
	ErrEndpointRequired = errors.New("classifier endpoint required")

	// ErrInvalidEndpoint indicates the endpoint is not an absolute URL.
	ErrInvalidEndpoint = errors.New("classifier endpoint is not a valid URL")

	// ErrPredictionFailed wraps transport and service failures of Predict.
	ErrPredictionFailed = errors.New("prediction request failed")
)
