// Copyright (c) 2025-2026 PhishGuard
// Licensed under MIT — See LICENSE for terms.
package models

import "fmt"

// Risk thresholds. The write threshold (inclusive) decides whether a scan
// is recorded to the threat feed; the display bands only label verdicts in
// API output and are configured independently of the write threshold.
const (
	DangerousThreshold  = 75
	SuspiciousThreshold = 40
)

// URLVerdict is the structured judgment returned by the classifier for a
// URL scan. RiskLevel is nominally 0-100 but the classifier owns that
// contract; values outside the range are passed through untouched.
type URLVerdict struct {
	RiskLevel         int    `json:"riskLevel"`
	Reason            string `json:"reason"`
	ImpersonatedBrand string `json:"impersonatedBrand,omitempty"`
	Recommendation    string `json:"recommendation"`
}

type EmailTactic struct {
	Tactic      string `json:"tactic"`
	Explanation string `json:"explanation"`
	Quote       string `json:"quote"`
}

// EmailVerdict is the classifier's judgment for an email body. Email
// verdicts are never written to the threat feed.
type EmailVerdict struct {
	OverallRiskLevel      int           `json:"overallRiskLevel"`
	OverallRecommendation string        `json:"overallRecommendation"`
	DetectedTactics       []EmailTactic `json:"detectedTactics"`
}

// ThreatRecord is one append-only threat feed entry. Timestamp is
// assigned server-side at the moment the write decision is made.
type ThreatRecord struct {
	ID        int64  `json:"-"`
	URL       string `json:"url"`
	RiskLevel int    `json:"riskLevel"`
	Reason    string `json:"reason"`
	Timestamp string `json:"timestamp"`
}

// UserReputation tracks feedback-earned points for one user. Both
// counters start at zero and only ever grow.
type UserReputation struct {
	UID           string  `json:"uid"`
	Email         *string `json:"email"`
	GuardPoints   int64   `json:"guardPoints"`
	FeedbackCount int64   `json:"feedbackCount"`
}

// RiskBand labels a risk level for display. Banding deliberately uses
// exclusive comparisons, matching the shield interstitial, and is kept
// separate from the inclusive feed-write threshold.
func RiskBand(level int) string {
	switch {
	case level > DangerousThreshold:
		return "Dangerous"
	case level > SuspiciousThreshold:
		return "Suspicious"
	default:
		return "Safe"
	}
}

// ValidationError marks malformed caller input. Requests failing
// validation never reach the classifier or the store.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}
