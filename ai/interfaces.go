package ai

import (
	"context"

	"github.com/poiesic/symptomap/core"
)

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// Batch processing is more efficient than calling EmbedText multiple times.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Classifier is the external statistical text classifier. The core treats it
// as a black box: one label plus one probability per description. Training
// and inference internals live outside this module.
// Implementations must be thread-safe for concurrent use.
type Classifier interface {
	// Predict maps a free-text patient description to the most likely
	// disease label with a probability in [0, 1].
	Predict(ctx context.Context, text string) (core.Prediction, error)
}
