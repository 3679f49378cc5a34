package docqa

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"docchat/src/infrastructure/log"
)

// QueryOptions configures the retrieval side of the query pipeline.
type QueryOptions struct {
	// TopK is how many chunks to retrieve per question
	TopK int
	// Hybrid mixes keyword matching into the similarity search
	Hybrid bool
}

// DefaultQueryOptions returns the retrieval defaults.
func DefaultQueryOptions() QueryOptions {
	return QueryOptions{TopK: 5}
}

// QueryService answers questions strictly from chunks stored under one
// namespace. It is stateless and safe for concurrent use.
type QueryService struct {
	embedder  EmbeddingProvider
	generator GenerationProvider
	index     VectorIndex
	opts      QueryOptions
}

func NewQueryService(embedder EmbeddingProvider, generator GenerationProvider, index VectorIndex, opts QueryOptions) *QueryService {
	if opts.TopK <= 0 {
		opts.TopK = DefaultQueryOptions().TopK
	}
	return &QueryService{
		embedder:  embedder,
		generator: generator,
		index:     index,
		opts:      opts,
	}
}

// Answer runs the query pipeline: validate, short-circuit greetings, embed
// the question, retrieve the top-k chunks from the namespace, build the
// grounding prompt, generate once, and apply the empty-context guard.
func (s *QueryService) Answer(ctx context.Context, question, namespace string) (*Answer, error) {
	if strings.TrimSpace(question) == "" {
		return nil, fmt.Errorf("%w: question is required", ErrInvalidInput)
	}
	if namespace == "" {
		return nil, fmt.Errorf("%w: namespace is required", ErrInvalidInput)
	}

	// Bare greetings never reach retrieval or generation.
	if strings.ToLower(strings.TrimSpace(question)) == "hi" {
		return &Answer{Text: GreetingReply}, nil
	}

	vector, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return nil, &ProviderError{Op: "embed question", Err: err}
	}

	var retrieved []RetrievedChunk
	if s.opts.Hybrid {
		retrieved, err = s.index.SearchHybrid(ctx, namespace, question, vector, s.opts.TopK)
	} else {
		retrieved, err = s.index.Search(ctx, namespace, vector, s.opts.TopK)
	}
	if err != nil {
		return nil, &ProviderError{Op: "search index", Err: err}
	}

	prompt, err := BuildGroundedPrompt(buildContext(retrieved), question)
	if err != nil {
		return nil, &ProviderError{Op: "build prompt", Err: err}
	}

	answer, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, &ProviderError{Op: "generate answer", Err: err}
	}

	// Backstop against providers that ignore grounding instructions when
	// handed empty context.
	if len(retrieved) == 0 && !containsRefusal(answer) {
		answer = NotCoveredReply
	}

	log.Debug("question answered",
		"namespace", namespace,
		"retrieved", len(retrieved),
		"answer_length", len(answer))

	resp := &Answer{Text: answer}
	if len(retrieved) > 0 {
		resp.Sources = retrieved
	}
	return resp, nil
}

// buildContext concatenates retrieved chunks in rank order, each delimited
// and labelled with its page when known.
func buildContext(chunks []RetrievedChunk) string {
	parts := make([]string, 0, len(chunks))
	for _, c := range chunks {
		page := "N/A"
		if c.Metadata.Page > 0 {
			page = strconv.Itoa(c.Metadata.Page)
		}
		parts = append(parts, fmt.Sprintf("Content: %s\nPage: %s", c.Text, page))
	}
	return strings.Join(parts, "\n\n")
}

func containsRefusal(answer string) bool {
	return strings.Contains(answer, "not covered") || strings.Contains(answer, "isn't available")
}
