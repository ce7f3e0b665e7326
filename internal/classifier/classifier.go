// Copyright (c) 2025-2026 PhishGuard
// Licensed under MIT — See LICENSE for terms.

// Package classifier delegates phishing assessment to an external
// LLM-backed classification service. PhishGuard implements no detection
// logic of its own; the gateway's verdict is passed through unchanged.
package classifier

import (
	"context"
	"errors"

	"github.com/ChinmayIngle26/PhishGuard/internal/models"
)

// ErrUnavailable means the classifier could not produce a verdict
// (network failure, non-success status, malformed response). Callers must
// treat it as "could not assess", never as "safe".
var ErrUnavailable = errors.New("classifier unavailable")

// ErrRateLimited means the classifier refused the call due to quota,
// either upstream (HTTP 429) or via the local outbound limiter.
var ErrRateLimited = errors.New("classifier rate limited")

type Gateway interface {
	AnalyzeURL(ctx context.Context, url string) (*models.URLVerdict, error)
	AnalyzeEmail(ctx context.Context, content string) (*models.EmailVerdict, error)
}
