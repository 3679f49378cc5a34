package unstructured

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"docchat/src/core/docqa"
)

// Service extracts per-page plain text from PDFs through the Unstructured
// partition API.
type Service struct {
	baseURL    string
	httpClient *http.Client
}

type Element struct {
	Type      string   `json:"type"`
	Text      string   `json:"text"`
	ElementID string   `json:"element_id"`
	Metadata  Metadata `json:"metadata"`
}

type Metadata struct {
	Filename   string `json:"filename,omitempty"`
	Filetype   string `json:"filetype,omitempty"`
	PageNumber int    `json:"page_number,omitempty"`
}

func NewService(baseURL string, c *http.Client) *Service {
	if c == nil {
		c = http.DefaultClient
	}
	return &Service{
		baseURL:    baseURL,
		httpClient: c,
	}
}

// Extract partitions the PDF and folds the returned elements into one text
// block per page, in page order.
func (s *Service) Extract(ctx context.Context, content []byte, filename string) ([]docqa.Page, error) {
	elements, err := s.partition(ctx, filename, content)
	if err != nil {
		return nil, err
	}

	var pages []docqa.Page
	for _, el := range elements {
		if el.Text == "" {
			continue
		}
		n := len(pages)
		if n > 0 && pages[n-1].Number == el.Metadata.PageNumber {
			pages[n-1].Text += "\n" + el.Text
			continue
		}
		pages = append(pages, docqa.Page{
			Number: el.Metadata.PageNumber,
			Text:   el.Text,
		})
	}

	return pages, nil
}

func (s *Service) partition(ctx context.Context, filename string, content []byte) ([]Element, error) {
	var requestBody bytes.Buffer
	multipartWriter := multipart.NewWriter(&requestBody)

	fileWriter, err := multipartWriter.CreateFormFile("files", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %v", err)
	}
	if _, err = io.Copy(fileWriter, bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("failed to write file content: %v", err)
	}

	if err := multipartWriter.WriteField("strategy", "fast"); err != nil {
		return nil, fmt.Errorf("failed to write strategy: %v", err)
	}
	if err := multipartWriter.WriteField("output_format", "application/json"); err != nil {
		return nil, fmt.Errorf("failed to write output format: %v", err)
	}

	multipartWriter.Close()

	httpReq, err := http.NewRequestWithContext(ctx, "POST", s.baseURL+"/general/v0/general", &requestBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %v", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Content-Type", multipartWriter.FormDataContentType())

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("partition service error: %s: %s", resp.Status, string(body))
	}

	var elements []Element
	if err := json.NewDecoder(resp.Body).Decode(&elements); err != nil {
		return nil, fmt.Errorf("failed to parse response: %v", err)
	}

	return elements, nil
}

var _ docqa.TextExtractor = (*Service)(nil)
