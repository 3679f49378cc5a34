package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// GetJob reports the status of a background ingestion job.
func (h *Handler) GetJob(c *gin.Context) {
	if h.jobService == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "Async ingestion is not configured"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid job ID"})
		return
	}

	job, err := h.jobService.GetJob(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to get job"})
		return
	}
	if job == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Job not found"})
		return
	}

	c.JSON(http.StatusOK, job)
}

// CheckHealth reports service liveness.
func (h *Handler) CheckHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
