package handlers

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ChinmayIngle26/PhishGuard/internal/classifier"
	"github.com/ChinmayIngle26/PhishGuard/internal/middleware"
	"github.com/ChinmayIngle26/PhishGuard/internal/models"
	"github.com/ChinmayIngle26/PhishGuard/internal/scan"
)

type EmailHandler struct {
	Pipeline *scan.Pipeline
	Limiter  middleware.RateLimiter
}

func NewEmailHandler(pipeline *scan.Pipeline, limiter middleware.RateLimiter) *EmailHandler {
	return &EmailHandler{Pipeline: pipeline, Limiter: limiter}
}

type analyzeEmailRequest struct {
	EmailContent string `json:"emailContent"`
}

// AnalyzeEmail handles POST /api/analyze-email. Email analysis has no
// persistence side effect; the endpoint exists purely to relay the
// classifier's judgment.
func (h *EmailHandler) AnalyzeEmail(c *gin.Context) {
	var req analyzeEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email content is required"})
		return
	}

	if h.Limiter != nil {
		clientIP := c.ClientIP()
		result := h.Limiter.CheckAndRecord(clientIP, contentKey(req.EmailContent))
		if !result.Allowed {
			traceID, _ := c.Get("trace_id")
			slog.Info("Email analysis rate limited",
				"trace_id", traceID,
				"ip", clientIP,
				"reason", result.Reason,
				"wait_seconds", result.WaitSeconds,
			)
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":        "API rate limit exceeded. Please try again later.",
				"reason":       result.Reason,
				"wait_seconds": result.WaitSeconds,
			})
			return
		}
	}

	verdict, err := h.Pipeline.ScanEmail(c.Request.Context(), req.EmailContent)
	if err != nil {
		var verr *models.ValidationError
		switch {
		case errors.As(err, &verr):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email content must be at least 50 characters long."})
		case errors.Is(err, classifier.ErrRateLimited):
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "API rate limit exceeded. Please try again later."})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		}
		return
	}

	c.JSON(http.StatusOK, verdict)
}

// contentKey feeds the anti-repeat check without keeping email bodies in
// the limiter's memory.
func contentKey(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:8])
}
