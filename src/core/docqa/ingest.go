package docqa

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"docchat/src/infrastructure/log"
)

const (
	// DefaultChunkSize and DefaultChunkOverlap keep each chunk within
	// typical embedding-model context limits while preserving continuity
	// across chunk boundaries.
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200

	// embedBatchSize bounds how many chunk texts go to the embedding
	// provider per round trip.
	embedBatchSize = 16
)

var pdfMagic = []byte("%PDF-")

// IsPDF reports whether content starts with the PDF magic marker.
func IsPDF(content []byte) bool {
	return bytes.HasPrefix(content, pdfMagic)
}

// IngestService turns raw PDF content into embedded chunks stored under a
// filename-derived namespace. It is stateless and safe for concurrent use;
// concurrent ingestions into the same namespace are not coordinated.
type IngestService struct {
	extractor    TextExtractor
	embedder     EmbeddingProvider
	index        VectorIndex
	chunkSize    int
	chunkOverlap int

	// OnProgress, when set, is called after each embedded batch with the
	// number of chunks embedded so far and the total.
	OnProgress func(done, total int)
}

func NewIngestService(extractor TextExtractor, embedder EmbeddingProvider, index VectorIndex) *IngestService {
	return &IngestService{
		extractor:    extractor,
		embedder:     embedder,
		index:        index,
		chunkSize:    DefaultChunkSize,
		chunkOverlap: DefaultChunkOverlap,
	}
}

// Ingest runs the full pipeline: validate the bytes are a PDF, extract text
// page by page, chunk it, embed every chunk, and upsert the whole batch into
// the vector index. All embeddings are staged in memory first, so an
// embedding failure writes nothing; a failure during the upsert itself can
// still leave the namespace partially populated.
func (s *IngestService) Ingest(ctx context.Context, content []byte, filename string) (*IngestResult, error) {
	if len(content) == 0 {
		return nil, fmt.Errorf("%w: uploaded file is empty", ErrInvalidInput)
	}
	if !IsPDF(content) {
		return nil, fmt.Errorf("%w: file content is not a PDF document", ErrInvalidInput)
	}

	pages, err := s.extractor.Extract(ctx, content, filename)
	if err != nil {
		return nil, &ProviderError{Op: "extract text", Err: err}
	}

	text, offsets := joinPages(pages)
	namespace := ResolveNamespace(filename)

	texts := SplitText(text, s.chunkSize, s.chunkOverlap)
	step := s.chunkSize - s.chunkOverlap
	chunks := make([]Chunk, len(texts))
	for i, t := range texts {
		chunks[i] = Chunk{
			Text: t,
			Metadata: ChunkMetadata{
				Namespace: namespace,
				Filename:  filename,
				Page:      pageAt(offsets, i*step),
				Index:     i,
			},
		}
	}

	if err := s.embedChunks(ctx, chunks); err != nil {
		return nil, err
	}

	if len(chunks) > 0 {
		if err := s.index.Upsert(ctx, namespace, chunks); err != nil {
			return nil, &ProviderError{Op: "store chunks", Err: err}
		}
	}

	log.Info("document ingested",
		"namespace", namespace,
		"filename", filename,
		"pages", len(pages),
		"chunks", len(chunks))

	return &IngestResult{Namespace: namespace, ChunkCount: len(chunks)}, nil
}

// embedChunks fills in chunk embeddings batch by batch. Any provider error
// fails the whole ingestion; there is no partial-success mode.
func (s *IngestService) embedChunks(ctx context.Context, chunks []Chunk) error {
	for start := 0; start < len(chunks); start += embedBatchSize {
		end := min(start+embedBatchSize, len(chunks))

		texts := make([]string, 0, end-start)
		for _, c := range chunks[start:end] {
			texts = append(texts, c.Text)
		}

		vectors, err := s.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return &ProviderError{Op: "embed chunks", Err: err}
		}
		if len(vectors) != len(texts) {
			return &ProviderError{
				Op:  "embed chunks",
				Err: fmt.Errorf("expected %d embeddings, got %d", len(texts), len(vectors)),
			}
		}

		for i, v := range vectors {
			chunks[start+i].Embedding = v
		}
		if s.OnProgress != nil {
			s.OnProgress(end, len(chunks))
		}
	}
	return nil
}

// pageOffset records where a page's text begins in the concatenated stream.
type pageOffset struct {
	start int
	page  int
}

// joinPages concatenates page texts in page order, separated by a newline,
// and records the starting offset of each page so chunks can be mapped back
// to the page they begin on.
func joinPages(pages []Page) (string, []pageOffset) {
	var b strings.Builder
	offsets := make([]pageOffset, 0, len(pages))
	for i, p := range pages {
		if i > 0 {
			b.WriteByte('\n')
		}
		offsets = append(offsets, pageOffset{start: b.Len(), page: p.Number})
		b.WriteString(p.Text)
	}
	return b.String(), offsets
}

// pageAt returns the page containing the given offset, or 0 when page
// tracking is unavailable.
func pageAt(offsets []pageOffset, offset int) int {
	page := 0
	for _, o := range offsets {
		if o.start > offset {
			break
		}
		page = o.page
	}
	return page
}
