package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ChinmayIngle26/PhishGuard/internal/models"
)

const (
	defaultThreatLimit = 10
	maxThreatLimit     = 20
)

type ThreatReader interface {
	RecentThreats(ctx context.Context, limit int) ([]models.ThreatRecord, error)
}

type ThreatsHandler struct {
	Threats ThreatReader
}

func NewThreatsHandler(threats ThreatReader) *ThreatsHandler {
	return &ThreatsHandler{Threats: threats}
}

// RecentThreats handles GET /api/threats, backing the live threat feed
// with a bounded, time-ordered window.
func (h *ThreatsHandler) RecentThreats(c *gin.Context) {
	limit := defaultThreatLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = n
	}
	if limit > maxThreatLimit {
		limit = maxThreatLimit
	}

	threats, err := h.Threats.RecentThreats(c.Request.Context(), limit)
	if err != nil {
		slog.Error("Threat feed query failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch threats."})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"threats": threats,
		"count":   len(threats),
	})
}
