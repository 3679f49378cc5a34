package docqa

// Page is one page of text extracted from a document, in document order.
type Page struct {
	Number int
	Text   string
}

// ChunkMetadata travels with every chunk into the vector index and back
// out through query results.
type ChunkMetadata struct {
	Namespace string `json:"namespace"`
	Filename  string `json:"filename,omitempty"`
	Page      int    `json:"page,omitempty"`
	Index     int    `json:"index"`
}

// Chunk is a contiguous slice of a document's extracted text together with
// its embedding. Chunks are created during ingestion and never mutated.
type Chunk struct {
	Text      string
	Embedding []float32
	Metadata  ChunkMetadata
}

// RetrievedChunk is a single similarity-search hit. The score is kept for
// logging only and is not part of the response body.
type RetrievedChunk struct {
	Text     string        `json:"text"`
	Metadata ChunkMetadata `json:"metadata"`
	Score    float64       `json:"-"`
}

// IngestResult reports a completed ingestion.
type IngestResult struct {
	Namespace  string `json:"namespace"`
	ChunkCount int    `json:"chunkCount"`
}

// Answer is the result of one query. Sources is omitted entirely when the
// retrieval list was empty.
type Answer struct {
	Text    string           `json:"answer"`
	Sources []RetrievedChunk `json:"sources,omitempty"`
}
