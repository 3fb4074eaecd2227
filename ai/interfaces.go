package ai

import "context"

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

// Synthesizer produces a natural-language answer to a query from a set of
// retrieved passages. Implementations must be thread-safe for concurrent use.
type Synthesizer interface {
	// Synthesize generates an answer to the query grounded in the given
	// passages. The passages are ordered most-relevant first.
	// Returns an empty string if the model produces no usable answer.
	// Returns an error if generation fails.
	Synthesize(ctx context.Context, query string, passages []string) (string, error)
}

// AIProvider aggregates AI services for convenient initialization and lifecycle management.
// A provider creates and manages Embedder and Synthesizer instances,
// ensuring they share configuration and resources appropriately.
type AIProvider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// Synthesizer returns the answer synthesis service.
	// The returned Synthesizer is safe for concurrent use.
	Synthesizer() Synthesizer

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
