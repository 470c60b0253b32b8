package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// The same embedder (model and version) must be used when building an index and
// when embedding queries against it, or similarity scores are meaningless.
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

// Captioner describes images using a vision-capable model.
// Implementations must be thread-safe for concurrent use.
type Captioner interface {
	// DescribeImage generates a textual description of an image.
	// mimeType identifies the raster format (e.g. "image/jpeg", "image/png").
	// An empty description with a nil error means the model had nothing to say;
	// callers treat it the same as a failure and skip the image.
	DescribeImage(ctx context.Context, mimeType string, image []byte) (string, error)
}

// Completer answers a single-turn prompt with a language model.
// Calls are stateless and made with a low-randomness setting so repeated
// calls with the same prompt give literal, stable answers.
// Implementations must be thread-safe for concurrent use.
type Completer interface {
	// Complete sends one prompt and returns the model's free-text response.
	Complete(ctx context.Context, prompt string) (string, error)
}

// AIProvider aggregates AI services for convenient initialization and lifecycle
// management. A provider creates and manages Embedder, Captioner and Completer
// instances, ensuring they share configuration and resources appropriately.
type AIProvider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// Captioner returns the image description service.
	// The returned Captioner is safe for concurrent use.
	Captioner() Captioner

	// Completer returns the answer generation service.
	// The returned Completer is safe for concurrent use.
	Completer() Completer

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
