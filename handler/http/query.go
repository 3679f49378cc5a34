package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type queryRequest struct {
	Question  string `json:"question"`
	Namespace string `json:"namespace"`
}

// Query answers a question strictly from the chunks stored under the given
// namespace. Validation of question and namespace happens inside the
// pipeline, before any provider call.
func (h *Handler) Query(c *gin.Context) {
	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format"})
		return
	}

	answer, err := h.queryService.Answer(c.Request.Context(), req.Question, req.Namespace)
	if err != nil {
		sendError(c, err)
		return
	}

	c.JSON(http.StatusOK, answer)
}
