package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"docchat/src/core/docqa"
	"docchat/src/infrastructure/job"
	"docchat/src/storage/minioctrl"
	"docchat/src/storage/postgres/documentctrl"
)

// DefaultMaxUploadSize caps uploads at 10 MB.
const DefaultMaxUploadSize = 10 << 20

type Handler struct {
	ingestService   *docqa.IngestService
	queryService    *docqa.QueryService
	documentService *documentctrl.DocumentService
	minioService    *minioctrl.MinioService
	bucketName      string
	jobService      *job.JobService // nil disables async ingestion
	maxUploadSize   int64
}

func NewHandler(
	ingestService *docqa.IngestService,
	queryService *docqa.QueryService,
	documentService *documentctrl.DocumentService,
	minioService *minioctrl.MinioService,
	bucketName string,
	jobService *job.JobService,
) *Handler {
	return &Handler{
		ingestService:   ingestService,
		queryService:    queryService,
		documentService: documentService,
		minioService:    minioService,
		bucketName:      bucketName,
		jobService:      jobService,
		maxUploadSize:   DefaultMaxUploadSize,
	}
}

// RegisterRoutes registers all API routes
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")

	api.POST("/documents", h.Upload)
	api.GET("/documents", h.List)
	api.POST("/query", h.Query)
	api.GET("/jobs/:id", h.GetJob)
	api.GET("/health", h.CheckHealth)
}

// ErrorResponse is the failure shape for both boundary operations.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// sendError translates the core error taxonomy into HTTP statuses. Invalid
// input maps to 400; provider failures keep their message in details and map
// to a generic 500.
func sendError(c *gin.Context, err error) {
	var providerErr *docqa.ProviderError

	switch {
	case errors.Is(err, docqa.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.As(err, &providerErr):
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Failed to process request",
			Details: providerErr.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Failed to process request",
			Details: err.Error(),
		})
	}
}
