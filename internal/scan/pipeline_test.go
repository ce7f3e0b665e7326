// Copyright (c) 2025-2026 PhishGuard
// Licensed under MIT — See LICENSE for terms.
package scan

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ChinmayIngle26/PhishGuard/internal/classifier"
	"github.com/ChinmayIngle26/PhishGuard/internal/models"
	"github.com/ChinmayIngle26/PhishGuard/internal/telemetry"
)

type fakeGateway struct {
	urlVerdict   *models.URLVerdict
	emailVerdict *models.EmailVerdict
	err          error
	urlCalls     int
	emailCalls   int
}

func (f *fakeGateway) AnalyzeURL(ctx context.Context, url string) (*models.URLVerdict, error) {
	f.urlCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.urlVerdict, nil
}

func (f *fakeGateway) AnalyzeEmail(ctx context.Context, content string) (*models.EmailVerdict, error) {
	f.emailCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.emailVerdict, nil
}

type fakeThreatStore struct {
	records []models.ThreatRecord
	err     error
}

func (f *fakeThreatStore) AddThreat(ctx context.Context, t models.ThreatRecord) error {
	if f.err != nil {
		return f.err
	}
	f.records = append(f.records, t)
	return nil
}

func safeVerdict() *models.URLVerdict {
	return &models.URLVerdict{RiskLevel: 5, Reason: "well-known domain", Recommendation: "This site appears to be safe."}
}

func dangerousVerdict() *models.URLVerdict {
	return &models.URLVerdict{
		RiskLevel:         90,
		Reason:            "brand impersonation",
		ImpersonatedBrand: "Example Bank",
		Recommendation:    "Avoid this site.",
	}
}

func assertValidation(t *testing.T, err error) {
	t.Helper()
	var verr *models.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestScanURLRejectsInvalidTargets(t *testing.T) {
	cases := []struct {
		name   string
		target string
	}{
		{"empty", ""},
		{"no scheme", "example.com/login"},
		{"ftp scheme", "ftp://example.com/file"},
		{"javascript scheme", "javascript:alert(1)"},
		{"scheme only", "https://"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gateway := &fakeGateway{urlVerdict: safeVerdict()}
			pipeline := New(gateway, &fakeThreatStore{}, nil)

			_, err := pipeline.ScanURL(context.Background(), tc.target)
			assertValidation(t, err)
			if gateway.urlCalls != 0 {
				t.Errorf("classifier must not be called for invalid input, got %d calls", gateway.urlCalls)
			}
		})
	}
}

func TestScanURLPassesVerdictThrough(t *testing.T) {
	gateway := &fakeGateway{urlVerdict: safeVerdict()}
	store := &fakeThreatStore{}
	pipeline := New(gateway, store, nil)

	verdict, err := pipeline.ScanURL(context.Background(), "https://example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if verdict.RiskLevel != 5 || verdict.Reason != "well-known domain" {
		t.Errorf("verdict must pass through unchanged, got %+v", verdict)
	}
	if len(store.records) != 0 {
		t.Errorf("safe verdict must not be recorded, got %d records", len(store.records))
	}
}

func TestScanURLRecordsDangerousVerdict(t *testing.T) {
	gateway := &fakeGateway{urlVerdict: dangerousVerdict()}
	store := &fakeThreatStore{}
	pipeline := New(gateway, store, nil)
	pipeline.now = func() time.Time { return time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC) }

	_, err := pipeline.ScanURL(context.Background(), "https://examp1e-bank.xyz/login")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(store.records) != 1 {
		t.Fatalf("expected exactly one threat record, got %d", len(store.records))
	}
	record := store.records[0]
	if record.URL != "https://examp1e-bank.xyz/login" {
		t.Errorf("record URL mismatch: %s", record.URL)
	}
	if record.RiskLevel != 90 || record.Reason != "brand impersonation" {
		t.Errorf("record must mirror the verdict, got %+v", record)
	}
	if record.Timestamp != "2026-03-14T09:26:53Z" {
		t.Errorf("timestamp must be assigned at decision time, got %s", record.Timestamp)
	}
}

func TestScanURLThresholdBoundary(t *testing.T) {
	cases := []struct {
		level    int
		recorded bool
	}{
		{74, false},
		{75, true},
		{76, true},
		{0, false},
		{100, true},
		// Out-of-range scores are opaque to the pipeline.
		{150, true},
		{-5, false},
	}

	for _, tc := range cases {
		gateway := &fakeGateway{urlVerdict: &models.URLVerdict{RiskLevel: tc.level, Reason: "r", Recommendation: "x"}}
		store := &fakeThreatStore{}
		pipeline := New(gateway, store, nil)

		if _, err := pipeline.ScanURL(context.Background(), "https://example.com"); err != nil {
			t.Fatalf("level %d: unexpected error: %v", tc.level, err)
		}
		got := len(store.records) == 1
		if got != tc.recorded {
			t.Errorf("level %d: recorded=%v, want %v", tc.level, got, tc.recorded)
		}
	}
}

func TestScanURLSwallowsFeedWriteFailure(t *testing.T) {
	gateway := &fakeGateway{urlVerdict: dangerousVerdict()}
	store := &fakeThreatStore{err: errors.New("store down")}
	pipeline := New(gateway, store, nil)

	verdict, err := pipeline.ScanURL(context.Background(), "https://examp1e-bank.xyz/login")
	if err != nil {
		t.Fatalf("feed write failure must not fail the scan: %v", err)
	}
	if verdict.RiskLevel != 90 {
		t.Errorf("verdict must still be returned, got %+v", verdict)
	}
}

func TestScanURLClassifierFailurePropagates(t *testing.T) {
	gateway := &fakeGateway{err: classifier.ErrUnavailable}
	store := &fakeThreatStore{}
	pipeline := New(gateway, store, nil)

	_, err := pipeline.ScanURL(context.Background(), "https://example.com")
	if !errors.Is(err, classifier.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if len(store.records) != 0 {
		t.Error("no record may be written without a verdict")
	}
}

func TestScanURLCacheHitSkipsGateway(t *testing.T) {
	gateway := &fakeGateway{urlVerdict: safeVerdict()}
	cache := telemetry.NewTTLCache[*models.URLVerdict]("verdicts", 16, time.Minute)
	pipeline := New(gateway, &fakeThreatStore{}, cache)

	for i := 0; i < 3; i++ {
		if _, err := pipeline.ScanURL(context.Background(), "https://example.com"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if gateway.urlCalls != 1 {
		t.Errorf("expected a single gateway call with warm cache, got %d", gateway.urlCalls)
	}
	if stats := pipeline.CacheStats(); stats == nil || stats.Hits != 2 {
		t.Errorf("expected 2 cache hits, got %+v", stats)
	}
}

func TestScanURLNormalizesHostSpellings(t *testing.T) {
	gateway := &fakeGateway{urlVerdict: safeVerdict()}
	cache := telemetry.NewTTLCache[*models.URLVerdict]("verdicts", 16, time.Minute)
	pipeline := New(gateway, &fakeThreatStore{}, cache)

	// Unicode, punycode, and mixed-case spellings of one host.
	spellings := []string{
		"https://пример.example/login",
		"https://xn--e1afmkfd.example/login",
		"https://XN--E1AFMKFD.Example/login",
	}
	for _, target := range spellings {
		if _, err := pipeline.ScanURL(context.Background(), target); err != nil {
			t.Fatalf("%s: unexpected error: %v", target, err)
		}
	}
	if gateway.urlCalls != 1 {
		t.Errorf("host spellings must share one cache entry, got %d gateway calls", gateway.urlCalls)
	}
}

func TestScanURLRecordsCanonicalHost(t *testing.T) {
	gateway := &fakeGateway{urlVerdict: dangerousVerdict()}
	store := &fakeThreatStore{}
	pipeline := New(gateway, store, nil)

	if _, err := pipeline.ScanURL(context.Background(), "https://ПРИМЕР.example:8443/login"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.records) != 1 {
		t.Fatalf("expected one threat record, got %d", len(store.records))
	}
	if got := store.records[0].URL; got != "https://xn--e1afmkfd.example:8443/login" {
		t.Errorf("feed record must carry the canonical host, got %s", got)
	}
}

func TestScanEmailRejectsShortContent(t *testing.T) {
	gateway := &fakeGateway{emailVerdict: &models.EmailVerdict{OverallRiskLevel: 10}}
	pipeline := New(gateway, &fakeThreatStore{}, nil)

	_, err := pipeline.ScanEmail(context.Background(), "too short")
	assertValidation(t, err)
	if gateway.emailCalls != 0 {
		t.Errorf("classifier must not be called for short content, got %d calls", gateway.emailCalls)
	}
}

func TestScanEmailBoundaryLength(t *testing.T) {
	gateway := &fakeGateway{emailVerdict: &models.EmailVerdict{OverallRiskLevel: 10, OverallRecommendation: "ok"}}
	pipeline := New(gateway, &fakeThreatStore{}, nil)

	at49 := strings.Repeat("a", 49)
	if _, err := pipeline.ScanEmail(context.Background(), at49); err == nil {
		t.Error("49 characters should fail validation")
	}

	at50 := strings.Repeat("a", 50)
	if _, err := pipeline.ScanEmail(context.Background(), at50); err != nil {
		t.Errorf("50 characters should pass validation: %v", err)
	}
}

func TestScanEmailNeverWritesThreats(t *testing.T) {
	gateway := &fakeGateway{emailVerdict: &models.EmailVerdict{OverallRiskLevel: 99, OverallRecommendation: "delete"}}
	store := &fakeThreatStore{}
	pipeline := New(gateway, store, nil)

	content := strings.Repeat("URGENT: verify your account now or lose access! ", 3)
	if _, err := pipeline.ScanEmail(context.Background(), content); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.records) != 0 {
		t.Errorf("email verdicts must never reach the threat feed, got %d records", len(store.records))
	}
}
