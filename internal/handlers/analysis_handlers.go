package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AnalysisInput defines the JSON body for the admin analysis endpoint.
type AnalysisInput struct {
	Question string `json:"question" binding:"required"`
}

// AskAnalysis is the handler for POST /v1/admin/analysis.
// It backs the admin analysis dashboard: free-form questions answered by the
// assistant over the read-only database connection.
func (h *Handlers) AskAnalysis(c *gin.Context) {
	if h.Analysis == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Analysis assistant is not configured"})
		return
	}

	var input AnalysisInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	answer, err := h.Analysis.Answer(c.Request.Context(), input.Question)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Analysis assistant unavailable: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"answer": answer})
}
