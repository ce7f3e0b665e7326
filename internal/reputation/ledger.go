// Copyright (c) 2025-2026 PhishGuard
// Licensed under MIT — See LICENSE for terms.

// Package reputation maintains per-user guard points earned by feedback
// on scan accuracy. A record moves Absent -> Present exactly once, and
// its counters only ever grow.
package reputation

import (
	"context"

	"github.com/ChinmayIngle26/PhishGuard/internal/metrics"
	"github.com/ChinmayIngle26/PhishGuard/internal/models"
)

const (
	GoodFeedbackPoints = 10
	BadFeedbackPoints  = 1
)

const (
	FeedbackGood = "good"
	FeedbackBad  = "bad"
)

// Store is the persistence contract the ledger needs. AddFeedback must
// apply the delta atomically in the store, and EnsureReputation must be a
// conditional create that never resets an existing record.
type Store interface {
	EnsureReputation(ctx context.Context, uid string, email *string) error
	AddFeedback(ctx context.Context, uid string, points int) error
	GetReputation(ctx context.Context, uid string) (*models.UserReputation, error)
}

type Ledger struct {
	store Store
}

func New(store Store) *Ledger {
	return &Ledger{store: store}
}

// EnsureUserReputation lazily creates a zeroed record for uid. Calling it
// again for an existing user is a no-op.
func (l *Ledger) EnsureUserReputation(ctx context.Context, uid string, email *string) error {
	if uid == "" {
		return models.NewValidationError("uid", "is required")
	}
	return l.store.EnsureReputation(ctx, uid, email)
}

// AddFeedback rewards a feedback submission: +10 guard points for good,
// +1 for bad, and one feedback count either way. The record must already
// exist; the store's ErrNotFound passes through untouched.
func (l *Ledger) AddFeedback(ctx context.Context, uid, feedbackType string) error {
	if uid == "" {
		return models.NewValidationError("uid", "is required")
	}

	var points int
	switch feedbackType {
	case FeedbackGood:
		points = GoodFeedbackPoints
	case FeedbackBad:
		points = BadFeedbackPoints
	default:
		return models.NewValidationError("feedbackType", "must be 'good' or 'bad'")
	}

	if err := l.store.AddFeedback(ctx, uid, points); err != nil {
		return err
	}
	metrics.FeedbackTotal.WithLabelValues(feedbackType).Inc()
	return nil
}

// GetUserReputation is a pure read; absence surfaces as the store's
// ErrNotFound rather than a zeroed record.
func (l *Ledger) GetUserReputation(ctx context.Context, uid string) (*models.UserReputation, error) {
	if uid == "" {
		return nil, models.NewValidationError("uid", "is required")
	}
	return l.store.GetReputation(ctx, uid)
}
