// Copyright (c) 2025-2026 PhishGuard
// Licensed under MIT — See LICENSE for terms.
package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ChinmayIngle26/PhishGuard/internal/models"
)

// EnsureReputation creates a zeroed reputation row for uid if none
// exists. The conditional insert makes concurrent creation safe: a racing
// create can never clobber points already accumulated by an increment.
func (d *Database) EnsureReputation(ctx context.Context, uid string, email *string) error {
	_, err := d.Pool.Exec(ctx,
		`INSERT INTO reputations (uid, email, guard_points, feedback_count)
		 VALUES ($1, $2, 0, 0)
		 ON CONFLICT (uid) DO NOTHING`,
		uid, email,
	)
	if err != nil {
		return fmt.Errorf("failed to ensure reputation for %s: %w", uid, err)
	}
	return nil
}

// AddFeedback applies the point reward as a single atomic delta in the
// store, so concurrent submissions from the same user never lose an
// increment. Returns ErrNotFound if the reputation row does not exist;
// feedback must follow initialization, it never creates a row.
func (d *Database) AddFeedback(ctx context.Context, uid string, points int) error {
	tag, err := d.Pool.Exec(ctx,
		`UPDATE reputations
		 SET guard_points = guard_points + $2, feedback_count = feedback_count + 1
		 WHERE uid = $1`,
		uid, points,
	)
	if err != nil {
		return fmt.Errorf("failed to add feedback for %s: %w", uid, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("no reputation record for %s: %w", uid, ErrNotFound)
	}
	return nil
}

// GetReputation returns ErrNotFound when the user was never initialized,
// so callers can distinguish that from a zero-point record.
func (d *Database) GetReputation(ctx context.Context, uid string) (*models.UserReputation, error) {
	var rep models.UserReputation
	err := d.Pool.QueryRow(ctx,
		`SELECT uid, email, guard_points, feedback_count FROM reputations WHERE uid = $1`,
		uid,
	).Scan(&rep.UID, &rep.Email, &rep.GuardPoints, &rep.FeedbackCount)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("reputation for %s: %w", uid, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch reputation for %s: %w", uid, err)
	}
	return &rep, nil
}
