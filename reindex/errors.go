package reindex

import "errors"

var (
	// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

	// ErrModelRequired is returned when no target model name is provided.
	ErrModelRequired = errors.New("embedding model name required")
)
