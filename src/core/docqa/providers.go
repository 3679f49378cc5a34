package docqa

import (
	"context"
)

// EmbeddingProvider converts text into fixed-dimension vectors. The same
// provider must be used for ingestion and query so the vectors are comparable.
type EmbeddingProvider interface {
	// Embed generates an embedding for a single input text
	Embed(ctx context.Context, text string) ([]float32, error)
	// EmbedBatch generates embeddings for several texts in one round trip,
	// returned in input order
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// GenerationProvider returns a natural-language completion for a prompt.
type GenerationProvider interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// VectorIndex defines namespace-scoped storage and similarity search.
// A search against one namespace never returns chunks from another.
type VectorIndex interface {
	// Upsert stores all chunks under the namespace as one logical batch
	Upsert(ctx context.Context, namespace string, chunks []Chunk) error
	// Search returns the top-limit most similar chunks in the namespace
	Search(ctx context.Context, namespace string, vector []float32, limit int) ([]RetrievedChunk, error)
	// SearchHybrid mixes vector similarity with keyword matching
	SearchHybrid(ctx context.Context, namespace, query string, vector []float32, limit int) ([]RetrievedChunk, error)
}

// TextExtractor turns raw PDF bytes into per-page plain text.
type TextExtractor interface {
	Extract(ctx context.Context, content []byte, filename string) ([]Page, error)
}
