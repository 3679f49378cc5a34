package pdfextract

import (
	"bytes"
	"context"
	"fmt"

	"github.com/tmc/langchaingo/documentloaders"

	"docchat/src/core/docqa"
)

// LocalExtractor parses PDF text in-process, one document per page. It needs
// no external service, which makes it the default extraction path.
type LocalExtractor struct{}

func NewLocalExtractor() *LocalExtractor {
	return &LocalExtractor{}
}

func (e *LocalExtractor) Extract(ctx context.Context, content []byte, filename string) ([]docqa.Page, error) {
	loader := documentloaders.NewPDF(bytes.NewReader(content), int64(len(content)))
	docs, err := loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to parse PDF %q: %w", filename, err)
	}

	pages := make([]docqa.Page, 0, len(docs))
	for i, doc := range docs {
		number := i + 1
		if p, ok := doc.Metadata["page"].(int); ok {
			number = p
		}
		pages = append(pages, docqa.Page{
			Number: number,
			Text:   doc.PageContent,
		})
	}

	return pages, nil
}

var _ docqa.TextExtractor = (*LocalExtractor)(nil)
