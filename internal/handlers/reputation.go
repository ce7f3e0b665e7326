package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ChinmayIngle26/PhishGuard/internal/db"
	"github.com/ChinmayIngle26/PhishGuard/internal/models"
	"github.com/ChinmayIngle26/PhishGuard/internal/reputation"
)

type ReputationHandler struct {
	Ledger *reputation.Ledger
}

func NewReputationHandler(ledger *reputation.Ledger) *ReputationHandler {
	return &ReputationHandler{Ledger: ledger}
}

type getReputationRequest struct {
	UID string `json:"uid"`
}

// GetReputation handles POST /api/get-reputation. A user that was never
// initialized yields data=null with success=true, so clients can tell
// "no record" apart from "zero points".
func (h *ReputationHandler) GetReputation(c *gin.Context) {
	var req getReputationRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid input.", "data": nil})
		return
	}

	rep, err := h.Ledger.GetUserReputation(c.Request.Context(), req.UID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusOK, gin.H{"success": true, "error": nil, "data": nil})
			return
		}
		slog.Error("Reputation lookup failed", "uid", req.UID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch user reputation.", "data": nil})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "error": nil, "data": rep})
}

type signupRequest struct {
	UID   string  `json:"uid"`
	Email *string `json:"email"`
}

// Signup handles POST /api/signup, lazily creating the zeroed reputation
// record. Repeat calls are no-ops.
func (h *ReputationHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid input."})
		return
	}

	if err := h.Ledger.EnsureUserReputation(c.Request.Context(), req.UID, req.Email); err != nil {
		slog.Error("Reputation initialization failed", "uid", req.UID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to initialize reputation."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

type feedbackRequest struct {
	UserID       string `json:"userId"`
	FeedbackType string `json:"feedbackType"`
}

// SubmitFeedback handles POST /api/feedback. Unlike the threat feed
// write, a failed increment surfaces: the whole point of the action is
// the write succeeding.
func (h *ReputationHandler) SubmitFeedback(c *gin.Context) {
	var req feedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid input."})
		return
	}

	err := h.Ledger.AddFeedback(c.Request.Context(), req.UserID, req.FeedbackType)
	if err != nil {
		var verr *models.ValidationError
		switch {
		case errors.As(err, &verr):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid input."})
		case errors.Is(err, db.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "No reputation record. Sign up before submitting feedback."})
		default:
			slog.Error("Feedback submission failed", "uid", req.UserID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to submit feedback. Please try again."})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
