// Copyright (c) 2025-2026 PhishGuard
// Licensed under MIT — See LICENSE for terms.

// Package scan implements the scan pipeline: validate the target, obtain
// a verdict from the classifier gateway, and conditionally append
// dangerous URLs to the shared threat feed.
package scan

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/net/idna"

	"github.com/ChinmayIngle26/PhishGuard/internal/classifier"
	"github.com/ChinmayIngle26/PhishGuard/internal/metrics"
	"github.com/ChinmayIngle26/PhishGuard/internal/models"
	"github.com/ChinmayIngle26/PhishGuard/internal/telemetry"
)

// MinEmailLength is a crude anti-empty-submission guard, not a security
// boundary.
const MinEmailLength = 50

// ThreatStore is the slice of the persistence layer the pipeline writes
// to. Writes are best effort: failures are logged, never surfaced.
type ThreatStore interface {
	AddThreat(ctx context.Context, t models.ThreatRecord) error
}

type Pipeline struct {
	gateway classifier.Gateway
	threats ThreatStore
	cache   *telemetry.TTLCache[*models.URLVerdict]
	now     func() time.Time
}

// New builds a pipeline. cache may be nil to disable verdict caching
// (tests pin the one-write-per-scan contract that way).
func New(gateway classifier.Gateway, threats ThreatStore, cache *telemetry.TTLCache[*models.URLVerdict]) *Pipeline {
	return &Pipeline{
		gateway: gateway,
		threats: threats,
		cache:   cache,
		now:     time.Now,
	}
}

// ScanURL validates target, asks the classifier for a verdict, and
// appends a threat record when the risk level reaches the dangerous
// threshold. The verdict is returned unchanged; the pipeline adds no
// scoring of its own. A failed feed write never fails the scan.
func (p *Pipeline) ScanURL(ctx context.Context, target string) (*models.URLVerdict, error) {
	target, err := canonicalTarget(target)
	if err != nil {
		metrics.ScansTotal.WithLabelValues("url", "validation_error").Inc()
		return nil, err
	}

	if p.cache != nil {
		if verdict, ok := p.cache.Get(target); ok {
			metrics.ScansTotal.WithLabelValues("url", "cache_hit").Inc()
			return verdict, nil
		}
	}

	verdict, err := p.gateway.AnalyzeURL(ctx, target)
	if err != nil {
		metrics.ScansTotal.WithLabelValues("url", "classifier_error").Inc()
		return nil, err
	}

	// The write decision and its timestamp are taken here, after the
	// verdict is known and before it is returned.
	if verdict.RiskLevel >= models.DangerousThreshold {
		record := models.ThreatRecord{
			URL:       target,
			RiskLevel: verdict.RiskLevel,
			Reason:    verdict.Reason,
			Timestamp: p.now().UTC().Format(time.RFC3339),
		}
		if err := p.threats.AddThreat(ctx, record); err != nil {
			// The feed is observability, not a correctness-critical
			// path; the caller still gets their verdict.
			metrics.ThreatWriteFailures.Inc()
			slog.Error("Threat feed write failed", "url", target, "risk_level", verdict.RiskLevel, "error", err)
		} else {
			metrics.ThreatsRecorded.Inc()
		}
	}

	if p.cache != nil {
		p.cache.Set(target, verdict)
	}

	metrics.ScansTotal.WithLabelValues("url", bandLabel(verdict.RiskLevel)).Inc()
	return verdict, nil
}

// ScanEmail assesses an email body. Email verdicts are never written to
// the threat feed.
func (p *Pipeline) ScanEmail(ctx context.Context, content string) (*models.EmailVerdict, error) {
	if utf8.RuneCountInString(content) < MinEmailLength {
		metrics.ScansTotal.WithLabelValues("email", "validation_error").Inc()
		return nil, models.NewValidationError("emailContent", "must be at least 50 characters long")
	}

	verdict, err := p.gateway.AnalyzeEmail(ctx, content)
	if err != nil {
		metrics.ScansTotal.WithLabelValues("email", "classifier_error").Inc()
		return nil, err
	}

	metrics.ScansTotal.WithLabelValues("email", bandLabel(verdict.OverallRiskLevel)).Inc()
	return verdict, nil
}

// CacheStats reports verdict cache statistics for the health endpoint.
func (p *Pipeline) CacheStats() *telemetry.CacheStats {
	if p.cache == nil {
		return nil
	}
	stats := p.cache.Stats()
	return &stats
}

// canonicalTarget validates target and normalizes its host: lowercased
// and IDNA ASCII-encoded, so Unicode and punycode spellings of the same
// host share one cache entry and one feed record.
func canonicalTarget(target string) (string, error) {
	if target == "" {
		return "", models.NewValidationError("url", "is required")
	}
	u, err := url.Parse(target)
	if err != nil {
		return "", models.NewValidationError("url", "is not a valid URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", models.NewValidationError("url", "must use http or https")
	}
	if u.Host == "" {
		return "", models.NewValidationError("url", "must be absolute")
	}

	host := strings.ToLower(u.Hostname())
	if ascii, err := idna.Lookup.ToASCII(host); err == nil {
		host = ascii
	}
	if port := u.Port(); port != "" {
		u.Host = host + ":" + port
	} else {
		u.Host = host
	}

	return u.String(), nil
}

func bandLabel(level int) string {
	switch models.RiskBand(level) {
	case "Dangerous":
		return "dangerous"
	case "Suspicious":
		return "suspicious"
	default:
		return "safe"
	}
}
