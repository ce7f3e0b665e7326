package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ChinmayIngle26/PhishGuard/internal/classifier"
	"github.com/ChinmayIngle26/PhishGuard/internal/models"
	"github.com/ChinmayIngle26/PhishGuard/internal/scan"
)

type ScanHandler struct {
	Pipeline *scan.Pipeline
}

func NewScanHandler(pipeline *scan.Pipeline) *ScanHandler {
	return &ScanHandler{Pipeline: pipeline}
}

type scanRequest struct {
	URL string `json:"url"`
}

// Scan handles POST /api/scan. The response is the classifier's verdict
// verbatim; a dangerous verdict has already been recorded to the threat
// feed by the pipeline before this handler replies.
func (h *ScanHandler) Scan(c *gin.Context) {
	var req scanRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.URL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "URL is required"})
		return
	}

	verdict, err := h.Pipeline.ScanURL(c.Request.Context(), req.URL)
	if err != nil {
		var verr *models.ValidationError
		switch {
		case errors.As(err, &verr):
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
		case errors.Is(err, classifier.ErrRateLimited):
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "API rate limit exceeded. Please try again later."})
		default:
			// "Could not assess" is distinct from "safe"; the client
			// must not treat this as a clean verdict.
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not assess this URL. Please try again later."})
		}
		return
	}

	c.JSON(http.StatusOK, verdict)
}
