// Copyright (c) 2025-2026 PhishGuard
// Licensed under MIT — See LICENSE for terms.
package db

import (
	"context"
	"fmt"

	"github.com/ChinmayIngle26/PhishGuard/internal/models"
)

// AddThreat appends one record to the threat feed. The feed is
// append-only; nothing in this system updates or deletes rows.
func (d *Database) AddThreat(ctx context.Context, t models.ThreatRecord) error {
	_, err := d.Pool.Exec(ctx,
		`INSERT INTO threats (url, risk_level, reason, ts) VALUES ($1, $2, $3, $4)`,
		t.URL, t.RiskLevel, t.Reason, t.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to insert threat: %w", err)
	}
	return nil
}

// RecentThreats returns the newest entries, timestamp descending.
func (d *Database) RecentThreats(ctx context.Context, limit int) ([]models.ThreatRecord, error) {
	rows, err := d.Pool.Query(ctx,
		`SELECT id, url, risk_level, reason, ts FROM threats ORDER BY ts DESC, id DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query threats: %w", err)
	}
	defer rows.Close()

	threats := []models.ThreatRecord{}
	for rows.Next() {
		var t models.ThreatRecord
		if err := rows.Scan(&t.ID, &t.URL, &t.RiskLevel, &t.Reason, &t.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan threat row: %w", err)
		}
		threats = append(threats, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read threat rows: %w", err)
	}
	return threats, nil
}
