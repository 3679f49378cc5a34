package weaviate

import (
	"context"
	"fmt"

	"github.com/weaviate/weaviate/entities/models"

	"docchat/src/core/docqa"
)

// DefaultClassName is the Weaviate class holding every document chunk.
// Namespacing happens through the namespace property, not per-class schemas.
const DefaultClassName = "DocumentChunk"

// HybridAlpha weights vector similarity vs BM25 in hybrid queries.
const HybridAlpha = 0.75

var chunkFields = []string{"namespace", "content", "filename", "page", "chunkIndex"}

// ChunkIndex adapts the Weaviate SDK to the docqa.VectorIndex interface.
type ChunkIndex struct {
	sdk       *SDK
	className string
}

func NewChunkIndex(sdk *SDK, className string) *ChunkIndex {
	if className == "" {
		className = DefaultClassName
	}
	return &ChunkIndex{
		sdk:       sdk,
		className: className,
	}
}

// EnsureSchema creates the chunk class if missing. Vectorizer is "none"
// because embeddings are supplied by the embedding provider.
func (i *ChunkIndex) EnsureSchema(ctx context.Context) error {
	properties := []*models.Property{
		{
			Name:     "namespace",
			DataType: []string{"string"},
		},
		{
			Name:     "content",
			DataType: []string{"text"},
		},
		{
			Name:     "filename",
			DataType: []string{"string"},
		},
		{
			Name:     "page",
			DataType: []string{"int"},
		},
		{
			Name:     "chunkIndex",
			DataType: []string{"int"},
		},
	}

	return i.sdk.EnsureSchema(ctx, i.className, properties, "none")
}

// Upsert stores all chunks under the namespace as one batch.
func (i *ChunkIndex) Upsert(ctx context.Context, namespace string, chunks []docqa.Chunk) error {
	objects := make([]VectorObject, len(chunks))
	for n, chunk := range chunks {
		objects[n] = VectorObject{
			Vector: chunk.Embedding,
			Properties: map[string]interface{}{
				"namespace":  namespace,
				"content":    chunk.Text,
				"filename":   chunk.Metadata.Filename,
				"page":       chunk.Metadata.Page,
				"chunkIndex": chunk.Metadata.Index,
			},
		}
	}

	return i.sdk.BatchAddVectors(ctx, i.className, objects)
}

// Search returns the top-limit most similar chunks stored under namespace.
func (i *ChunkIndex) Search(ctx context.Context, namespace string, vector []float32, limit int) ([]docqa.RetrievedChunk, error) {
	results, err := i.sdk.QueryVectors(ctx, i.className, vector, QueryConfig{
		Fields:    chunkFields,
		Limit:     limit,
		Namespace: namespace,
	})
	if err != nil {
		return nil, err
	}

	return toRetrievedChunks(results), nil
}

// SearchHybrid mixes BM25 keyword matching into the similarity ranking.
func (i *ChunkIndex) SearchHybrid(ctx context.Context, namespace, query string, vector []float32, limit int) ([]docqa.RetrievedChunk, error) {
	results, err := i.sdk.QueryHybrid(ctx, i.className, vector, HybridConfig{
		Query:     query,
		Alpha:     HybridAlpha,
		Fields:    chunkFields,
		Limit:     limit,
		Namespace: namespace,
	})
	if err != nil {
		return nil, err
	}

	return toRetrievedChunks(results), nil
}

// DeleteNamespace removes every chunk stored under the namespace.
func (i *ChunkIndex) DeleteNamespace(ctx context.Context, namespace string) error {
	return i.sdk.DeleteByNamespace(ctx, i.className, namespace)
}

// toRetrievedChunks converts raw Weaviate properties into retrieval results.
// Numeric properties arrive as float64 from the GraphQL layer.
func toRetrievedChunks(results []QueryResult) []docqa.RetrievedChunk {
	chunks := make([]docqa.RetrievedChunk, 0, len(results))
	for _, r := range results {
		chunk := docqa.RetrievedChunk{Score: r.Score}
		if content, ok := r.Properties["content"].(string); ok {
			chunk.Text = content
		}
		if ns, ok := r.Properties["namespace"].(string); ok {
			chunk.Metadata.Namespace = ns
		}
		if filename, ok := r.Properties["filename"].(string); ok {
			chunk.Metadata.Filename = filename
		}
		if page, ok := r.Properties["page"].(float64); ok {
			chunk.Metadata.Page = int(page)
		}
		if idx, ok := r.Properties["chunkIndex"].(float64); ok {
			chunk.Metadata.Index = int(idx)
		}
		chunks = append(chunks, chunk)
	}

	return chunks
}

var _ docqa.VectorIndex = (*ChunkIndex)(nil)

// String identifies the index target for configuration errors.
func (i *ChunkIndex) String() string {
	return fmt.Sprintf("weaviate class %s", i.className)
}
