package ollama

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"

	"docchat/src/core/docqa"
)

const (
	DefaultURL = "http://localhost:11434"
)

// Client wraps the Ollama API for embedding and generation with fixed
// models. It implements both provider interfaces of the docqa core.
type Client struct {
	api           *api.Client
	embedModel    string
	generateModel string
}

// NewClient creates a new Ollama client bound to an embedding model and a
// generation model.
func NewClient(baseURL string, c *http.Client, embedModel, generateModel string) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama URL %q: %w", baseURL, err)
	}
	if c == nil {
		c = http.DefaultClient
	}

	return &Client{
		api:           api.NewClient(base, c),
		embedModel:    embedModel,
		generateModel: generateModel,
	}, nil
}

// Embed generates an embedding for a single input text.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch generates embeddings for several texts in one request,
// returned in input order.
func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	resp, err := c.api.Embed(ctx, &api.EmbedRequest{
		Model: c.embedModel,
		Input: texts,
	})
	if err != nil {
		return nil, fmt.Errorf("ollama embed: %w", err)
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("ollama embed: expected %d embeddings, got %d", len(texts), len(resp.Embeddings))
	}

	return resp.Embeddings, nil
}

// Generate performs a single non-streaming completion for the prompt.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	stream := false
	var response strings.Builder

	err := c.api.Generate(ctx, &api.GenerateRequest{
		Model:  c.generateModel,
		Prompt: prompt,
		Stream: &stream,
		Options: map[string]interface{}{
			"temperature": 0.3,
		},
	}, func(r api.GenerateResponse) error {
		response.WriteString(r.Response)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("ollama generate: %w", err)
	}
	if response.Len() == 0 {
		return "", fmt.Errorf("no response received from ollama")
	}

	return response.String(), nil
}

var (
	_ docqa.EmbeddingProvider  = (*Client)(nil)
	_ docqa.GenerationProvider = (*Client)(nil)
)
