package docqa_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"docchat/src/core/docqa"
)

func pdfBytes(body string) []byte {
	return []byte("%PDF-1.7\n" + body)
}

func TestIngestRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
	}{
		{name: "empty content", content: nil},
		{name: "zero bytes", content: []byte{}},
		{name: "not a pdf", content: []byte("plain text file")},
		{name: "truncated magic", content: []byte("%PD")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			extractor := &fakeExtractor{}
			embedder := &fakeEmbedder{}
			index := &fakeIndex{}
			svc := docqa.NewIngestService(extractor, embedder, index)

			_, err := svc.Ingest(context.Background(), tt.content, "doc.pdf")
			if !errors.Is(err, docqa.ErrInvalidInput) {
				t.Fatalf("Ingest() error = %v, want ErrInvalidInput", err)
			}
			if extractor.calls != 0 || embedder.batchCalls != 0 || index.upsertCalls != 0 {
				t.Errorf("providers called on invalid input: extract=%d embed=%d upsert=%d",
					extractor.calls, embedder.batchCalls, index.upsertCalls)
			}
		})
	}
}

func TestIngestPipeline(t *testing.T) {
	extractor := &fakeExtractor{pages: []docqa.Page{
		{Number: 1, Text: strings.Repeat("a", 600)},
		{Number: 2, Text: strings.Repeat("b", 600)},
	}}
	embedder := &fakeEmbedder{}
	index := &fakeIndex{}
	svc := docqa.NewIngestService(extractor, embedder, index)

	result, err := svc.Ingest(context.Background(), pdfBytes("body"), "My Report.pdf")
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}

	if result.Namespace != "my-report-pdf" {
		t.Errorf("namespace = %q, want %q", result.Namespace, "my-report-pdf")
	}
	// 600 + newline + 600 = 1201 chars, window 1000 step 800 gives 2 chunks.
	if result.ChunkCount != 2 {
		t.Errorf("chunk count = %d, want 2", result.ChunkCount)
	}

	stored := index.upserted["my-report-pdf"]
	if len(stored) != result.ChunkCount {
		t.Fatalf("stored %d chunks, want %d", len(stored), result.ChunkCount)
	}
	for i, c := range stored {
		if len(c.Embedding) == 0 {
			t.Errorf("chunk %d stored without embedding", i)
		}
		if c.Metadata.Index != i {
			t.Errorf("chunk %d metadata index = %d", i, c.Metadata.Index)
		}
		if c.Metadata.Filename != "My Report.pdf" {
			t.Errorf("chunk %d filename = %q", i, c.Metadata.Filename)
		}
	}
	// First chunk starts on page 1, second starts inside page 2's text.
	if stored[0].Metadata.Page != 1 {
		t.Errorf("first chunk page = %d, want 1", stored[0].Metadata.Page)
	}
	if stored[1].Metadata.Page != 2 {
		t.Errorf("second chunk page = %d, want 2", stored[1].Metadata.Page)
	}
	if index.upsertCalls != 1 {
		t.Errorf("upsert calls = %d, want a single batch", index.upsertCalls)
	}
}

func TestIngestEmbedFailureWritesNothing(t *testing.T) {
	extractor := &fakeExtractor{pages: []docqa.Page{{Number: 1, Text: strings.Repeat("a", 3000)}}}
	embedder := &fakeEmbedder{err: errProviderDown}
	index := &fakeIndex{}
	svc := docqa.NewIngestService(extractor, embedder, index)

	_, err := svc.Ingest(context.Background(), pdfBytes("body"), "doc.pdf")

	var perr *docqa.ProviderError
	if !errors.As(err, &perr) {
		t.Fatalf("Ingest() error = %v, want ProviderError", err)
	}
	if perr.Op != "embed chunks" {
		t.Errorf("op = %q, want %q", perr.Op, "embed chunks")
	}
	if index.upsertCalls != 0 {
		t.Errorf("upsert called %d times after embed failure, want 0", index.upsertCalls)
	}
}

func TestIngestEmbeddingCountMismatch(t *testing.T) {
	extractor := &fakeExtractor{pages: []docqa.Page{{Number: 1, Text: strings.Repeat("a", 3000)}}}
	embedder := &fakeEmbedder{short: true}
	index := &fakeIndex{}
	svc := docqa.NewIngestService(extractor, embedder, index)

	_, err := svc.Ingest(context.Background(), pdfBytes("body"), "doc.pdf")

	var perr *docqa.ProviderError
	if !errors.As(err, &perr) {
		t.Fatalf("Ingest() error = %v, want ProviderError", err)
	}
	if index.upsertCalls != 0 {
		t.Error("upsert called despite embedding count mismatch")
	}
}

func TestIngestExtractionFailure(t *testing.T) {
	extractor := &fakeExtractor{err: errProviderDown}
	embedder := &fakeEmbedder{}
	index := &fakeIndex{}
	svc := docqa.NewIngestService(extractor, embedder, index)

	_, err := svc.Ingest(context.Background(), pdfBytes("body"), "doc.pdf")

	var perr *docqa.ProviderError
	if !errors.As(err, &perr) {
		t.Fatalf("Ingest() error = %v, want ProviderError", err)
	}
	if perr.Op != "extract text" {
		t.Errorf("op = %q, want %q", perr.Op, "extract text")
	}
	if embedder.batchCalls != 0 || index.upsertCalls != 0 {
		t.Error("downstream providers called after extraction failure")
	}
}

func TestIngestEmptyExtractionStoresNothing(t *testing.T) {
	extractor := &fakeExtractor{pages: nil}
	embedder := &fakeEmbedder{}
	index := &fakeIndex{}
	svc := docqa.NewIngestService(extractor, embedder, index)

	result, err := svc.Ingest(context.Background(), pdfBytes(""), "blank.pdf")
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	if result.ChunkCount != 0 {
		t.Errorf("chunk count = %d, want 0", result.ChunkCount)
	}
	if index.upsertCalls != 0 {
		t.Errorf("upsert calls = %d for empty document, want 0", index.upsertCalls)
	}
}

func TestIngestReportsProgress(t *testing.T) {
	extractor := &fakeExtractor{pages: []docqa.Page{{Number: 1, Text: strings.Repeat("a", 20000)}}}
	embedder := &fakeEmbedder{}
	index := &fakeIndex{}
	svc := docqa.NewIngestService(extractor, embedder, index)

	var last, total int
	svc.OnProgress = func(done, n int) {
		last = done
		total = n
	}

	result, err := svc.Ingest(context.Background(), pdfBytes("body"), "doc.pdf")
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	if last != result.ChunkCount || total != result.ChunkCount {
		t.Errorf("final progress = %d/%d, want %d/%d", last, total, result.ChunkCount, result.ChunkCount)
	}
}
