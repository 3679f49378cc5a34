package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"docchat/src/core/docqa"
	"docchat/src/infrastructure/job"
	"docchat/src/infrastructure/log"
)

type uploadResponse struct {
	Success    bool   `json:"success"`
	Namespace  string `json:"namespace"`
	ChunkCount int    `json:"chunkCount"`
	JobID      *int   `json:"jobId,omitempty"`
}

// Upload accepts a multipart PDF upload and runs (or enqueues, with
// ?async=true) the ingestion pipeline. All input validation happens before
// any storage or provider call.
func (h *Handler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "No file uploaded"})
		return
	}
	defer file.Close()

	if header.Size > h.maxUploadSize {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: fmt.Sprintf("File exceeds the %d byte limit", h.maxUploadSize),
		})
		return
	}

	// The upload must declare itself as a PDF; the magic-byte check below
	// still guards against mislabelled content.
	if header.Header.Get("Content-Type") != "application/pdf" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "File must be a PDF"})
		return
	}

	content, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to read file"})
		return
	}
	if !docqa.IsPDF(content) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "File content is not a PDF document"})
		return
	}

	// Keep the original bytes so ingestion can be replayed later.
	objectName := fmt.Sprintf("%s.pdf", uuid.New().String())
	if err := h.minioService.PutObject(c.Request.Context(), h.bucketName, objectName, "application/pdf", content); err != nil {
		log.Error(err, "failed to store uploaded document", "filename", header.Filename)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to store file"})
		return
	}

	namespace := docqa.ResolveNamespace(header.Filename)
	document, err := h.documentService.Create(
		c.Request.Context(),
		header.Filename,
		namespace,
		fmt.Sprintf("%s/%s", h.bucketName, objectName),
		header.Size,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to record document"})
		return
	}

	if c.Query("async") == "true" {
		h.enqueueIngestion(c, document.ID, namespace)
		return
	}

	result, err := h.ingestService.Ingest(c.Request.Context(), content, header.Filename)
	if err != nil {
		sendError(c, err)
		return
	}

	if err := h.documentService.SetChunkCount(c.Request.Context(), document.ID, result.ChunkCount); err != nil {
		log.Error(err, "failed to record chunk count", "document_id", document.ID)
	}

	c.JSON(http.StatusOK, uploadResponse{
		Success:    true,
		Namespace:  result.Namespace,
		ChunkCount: result.ChunkCount,
	})
}

func (h *Handler) enqueueIngestion(c *gin.Context, documentID int64, namespace string) {
	if h.jobService == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "Async ingestion is not configured"})
		return
	}

	payload, err := json.Marshal(job.IngestionPayload{
		DocumentID: strconv.FormatInt(documentID, 10),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to build ingestion job"})
		return
	}

	queued, err := h.jobService.EnqueueJob(c.Request.Context(), job.TaskTypeIngestion, payload)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to enqueue ingestion job"})
		return
	}

	c.JSON(http.StatusAccepted, uploadResponse{
		Success:   true,
		Namespace: namespace,
		JobID:     &queued.ID,
	})
}

// List returns registered documents, newest first.
func (h *Handler) List(c *gin.Context) {
	limit := 10
	offset := 0

	if limitParam := c.Query("limit"); limitParam != "" {
		parsed, err := strconv.Atoi(limitParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid limit parameter"})
			return
		}
		limit = parsed
	}
	if offsetParam := c.Query("offset"); offsetParam != "" {
		parsed, err := strconv.Atoi(offsetParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid offset parameter"})
			return
		}
		offset = parsed
	}

	documents, err := h.documentService.List(c.Request.Context(), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list documents"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"documents": documents,
		"pagination": gin.H{
			"limit":  limit,
			"offset": offset,
		},
	})
}
