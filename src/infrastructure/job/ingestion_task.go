package job

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"docchat/src/core/docqa"
	"docchat/src/storage/minioctrl"
	"docchat/src/storage/postgres/documentctrl"
)

const TaskTypeIngestion = "ingestion"

// IngestionPayload identifies the registry record whose stored PDF should
// be ingested.
type IngestionPayload struct {
	DocumentID string `json:"document_id"`
}

// IngestionTask replays the ingestion pipeline for a previously uploaded
// document fetched back from object storage.
type IngestionTask struct {
	documentService *documentctrl.DocumentService
	minioService    *minioctrl.MinioService
	ingestService   *docqa.IngestService
}

func NewIngestionTask(
	documentService *documentctrl.DocumentService,
	minioService *minioctrl.MinioService,
	ingestService *docqa.IngestService,
) *IngestionTask {
	return &IngestionTask{
		documentService: documentService,
		minioService:    minioService,
		ingestService:   ingestService,
	}
}

func (task *IngestionTask) HandleIngestionTask(ctx context.Context, payload json.RawMessage) error {
	var ingestionPayload IngestionPayload
	if err := json.Unmarshal(payload, &ingestionPayload); err != nil {
		return fmt.Errorf("failed to unmarshal ingestion payload: %w", err)
	}

	documentID, err := strconv.ParseInt(ingestionPayload.DocumentID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid document ID: %w", err)
	}
	document, err := task.documentService.GetByID(ctx, documentID)
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}
	if document == nil {
		return fmt.Errorf("document not found: %s", ingestionPayload.DocumentID)
	}

	bucket, object := task.minioService.GetBucketAndObjectFromURL(document.MinioURL)
	if bucket == "" {
		return fmt.Errorf("invalid minio URL format: %s", document.MinioURL)
	}
	content, err := task.minioService.GetObject(ctx, bucket, object)
	if err != nil {
		return fmt.Errorf("failed to get document content: %w", err)
	}

	result, err := task.ingestService.Ingest(ctx, content, document.Filename)
	if err != nil {
		return fmt.Errorf("failed to ingest document: %w", err)
	}

	if err := task.documentService.SetChunkCount(ctx, document.ID, result.ChunkCount); err != nil {
		return fmt.Errorf("failed to record chunk count: %w", err)
	}

	return nil
}
