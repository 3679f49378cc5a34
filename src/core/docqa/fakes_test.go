package docqa_test

import (
	"context"
	"errors"

	"docchat/src/core/docqa"
)

// Provider fakes shared by the ingestion and query pipeline tests.

type fakeExtractor struct {
	pages []docqa.Page
	err   error
	calls int
}

func (f *fakeExtractor) Extract(ctx context.Context, content []byte, filename string) ([]docqa.Page, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.pages, nil
}

type fakeEmbedder struct {
	err        error
	embedCalls int
	batchCalls int
	// short makes EmbedBatch return one vector fewer than requested
	short bool
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	f.embedCalls++
	if f.err != nil {
		return nil, f.err
	}
	return []float32{float32(len(text)), 1}, nil
}

func (f *fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	f.batchCalls++
	if f.err != nil {
		return nil, f.err
	}
	n := len(texts)
	if f.short && n > 0 {
		n--
	}
	vectors := make([][]float32, n)
	for i := range vectors {
		vectors[i] = []float32{float32(i), 1}
	}
	return vectors, nil
}

type fakeIndex struct {
	upserted map[string][]docqa.Chunk
	results  []docqa.RetrievedChunk
	// resultsByNamespace, when set, takes precedence over results so tests
	// can verify namespace scoping on the read side
	resultsByNamespace map[string][]docqa.RetrievedChunk
	upsertErr          error
	searchErr          error
	upsertCalls        int
	searchCalls        int
	hybridCalls        int
	searchNamespaces   []string
}

func (f *fakeIndex) Upsert(ctx context.Context, namespace string, chunks []docqa.Chunk) error {
	f.upsertCalls++
	if f.upsertErr != nil {
		return f.upsertErr
	}
	if f.upserted == nil {
		f.upserted = make(map[string][]docqa.Chunk)
	}
	f.upserted[namespace] = append(f.upserted[namespace], chunks...)
	return nil
}

func (f *fakeIndex) Search(ctx context.Context, namespace string, vector []float32, limit int) ([]docqa.RetrievedChunk, error) {
	f.searchCalls++
	f.searchNamespaces = append(f.searchNamespaces, namespace)
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	if f.resultsByNamespace != nil {
		return f.resultsByNamespace[namespace], nil
	}
	return f.results, nil
}

func (f *fakeIndex) SearchHybrid(ctx context.Context, namespace, query string, vector []float32, limit int) ([]docqa.RetrievedChunk, error) {
	f.hybridCalls++
	f.searchNamespaces = append(f.searchNamespaces, namespace)
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	if f.resultsByNamespace != nil {
		return f.resultsByNamespace[namespace], nil
	}
	return f.results, nil
}

type fakeGenerator struct {
	reply      string
	replyFn    func(prompt string) string
	err        error
	calls      int
	lastPrompt string
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.calls++
	f.lastPrompt = prompt
	if f.err != nil {
		return "", f.err
	}
	if f.replyFn != nil {
		return f.replyFn(prompt), nil
	}
	return f.reply, nil
}

var errProviderDown = errors.New("provider unavailable")
