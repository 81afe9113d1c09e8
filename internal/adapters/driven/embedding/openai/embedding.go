// Package openai provides an embedding adapter backed by the OpenAI API.
package openai

import (
	"context"
	"fmt"
	"sort"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/profiledex/profiledex-cli/internal/core/domain"
	"github.com/profiledex/profiledex-cli/internal/core/ports/driven"
	"github.com/profiledex/profiledex-cli/internal/logger"
)

// Ensure Embedder implements the port.
var _ driven.Embedder = (*Embedder)(nil)

// Default configuration values.
const (
	DefaultModel             = "text-embedding-3-large"
	DefaultBatchSize         = 32
	DefaultRequestsPerSecond = 4.0
	DefaultBurstSize         = 4
)

// Model dimensions for OpenAI embedding models.
var modelDimensions = map[string]int{
	"text-embedding-3-small": 1536,
	"text-embedding-3-large": 3072,
	"text-embedding-ada-002": 1536,
}

// Config holds configuration for the OpenAI embedder.
type Config struct {
	// APIKey is the OpenAI API key (required).
	APIKey string

	// BaseURL overrides the API base URL, for compatible providers and
	// tests.
	BaseURL string

	// Model is the embedding model (default: text-embedding-3-large).
	Model string

	// BatchSize is the maximum number of texts per provider call.
	// Must be greater than 0.
	BatchSize int

	// RequestsPerSecond paces provider calls; 0 uses the default.
	RequestsPerSecond float64

	// BurstSize is the rate limiter burst; 0 uses the default.
	BurstSize int
}

// Embedder generates embeddings through the OpenAI embeddings endpoint,
// one sequential request per chunk of at most BatchSize texts.
type Embedder struct {
	client    *openai.Client
	model     string
	batchSize int
	limiter   *rate.Limiter
}

// NewEmbedder creates an OpenAI embedder from the given configuration.
func NewEmbedder(cfg Config) (*Embedder, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: OpenAI API key is required (set OPENAI_API_KEY)", domain.ErrInvalidInput)
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.BatchSize == 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.BatchSize <= 0 {
		return nil, fmt.Errorf("%w: batch size must be greater than 0, got %d", domain.ErrInvalidInput, cfg.BatchSize)
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = DefaultRequestsPerSecond
	}
	if cfg.BurstSize <= 0 {
		cfg.BurstSize = DefaultBurstSize
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &Embedder{
		client:    openai.NewClientWithConfig(clientCfg),
		model:     cfg.Model,
		batchSize: cfg.BatchSize,
		limiter:   rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.BurstSize),
	}, nil
}

// EmbedBatch returns one vector per input text, in input order. Chunks
// are issued strictly sequentially so a failure is attributable to a
// specific chunk; within a chunk the provider may reorder results, so
// each chunk is re-sorted by the provider's returned index before
// concatenation.
func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	embeddings := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += e.batchSize {
		end := start + e.batchSize
		if end > len(texts) {
			end = len(texts)
		}
		chunk := texts[start:end]
		logger.Debug("Embedding chunk [%d:%d] of %d texts", start, end, len(texts))

		if err := e.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("waiting for rate limiter: %w", err)
		}

		resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
			Model: openai.EmbeddingModel(e.model),
			Input: chunk,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: chunk starting at %d: %v", domain.ErrUpstream, start, err)
		}

		// The provider may return chunk results in arbitrary order;
		// restore input order by the returned index.
		data := append([]openai.Embedding(nil), resp.Data...)
		sort.Slice(data, func(i, j int) bool { return data[i].Index < data[j].Index })

		for _, item := range data {
			vec := make([]float32, len(item.Embedding))
			for i, v := range item.Embedding {
				vec[i] = float32(v)
			}
			embeddings = append(embeddings, vec)
		}
	}

	if len(embeddings) != len(texts) {
		return nil, fmt.Errorf("%w: got %d embeddings for %d texts", domain.ErrUpstream, len(embeddings), len(texts))
	}
	return embeddings, nil
}

// Dimensions returns the embedding vector size for the configured model.
func (e *Embedder) Dimensions() int {
	if dim, ok := modelDimensions[e.model]; ok {
		return dim
	}
	return modelDimensions[DefaultModel]
}

// ModelName returns the name of the embedding model being used.
func (e *Embedder) ModelName() string {
	return e.model
}

// BatchSize returns the configured chunk size.
func (e *Embedder) BatchSize() int {
	return e.batchSize
}
