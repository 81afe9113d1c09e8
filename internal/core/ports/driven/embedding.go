package driven

import "context"

// Embedder generates vector embeddings from text via an external
// provider.
//
// Implementations partition input into consecutive chunks of at most the
// configured batch size and issue one provider call per chunk,
// sequentially. Providers may return results in arbitrary order within a
// chunk; implementations must restore input order using the provider's
// returned position index before concatenating.
type Embedder interface {
	// EmbedBatch returns one vector per input text, in input order.
	// A total returned count different from the input count is an
	// upstream error, never silently truncated or padded.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size for the configured
	// model.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string
}
