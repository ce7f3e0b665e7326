package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/ChinmayIngle26/PhishGuard/internal/models"
	"github.com/ChinmayIngle26/PhishGuard/internal/telemetry"
)

const maxResponseBytes = 1 << 20

// GeminiGateway calls the Gemini generateContent REST API in JSON mode.
// Outbound calls are bounded by a local rate limiter, and the upstream
// telemetry cooldown short-circuits calls while the API is failing.
type GeminiGateway struct {
	apiKey   string
	model    string
	baseURL  string
	client   *http.Client
	limiter  *rate.Limiter
	Upstream *telemetry.Upstream
}

func NewGeminiGateway(baseURL, model, apiKey string, timeout time.Duration, rpm int) *GeminiGateway {
	return &GeminiGateway{
		apiKey:  apiKey,
		model:   model,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				IdleConnTimeout:     30 * time.Second,
				MaxIdleConnsPerHost: 5,
			},
		},
		limiter:  rate.NewLimiter(rate.Limit(float64(rpm)/60.0), rpm),
		Upstream: telemetry.NewUpstream("gemini"),
	}
}

func (g *GeminiGateway) AnalyzeURL(ctx context.Context, url string) (*models.URLVerdict, error) {
	var verdict models.URLVerdict
	if err := g.generate(ctx, urlPrompt(url), &verdict); err != nil {
		return nil, err
	}
	return &verdict, nil
}

func (g *GeminiGateway) AnalyzeEmail(ctx context.Context, content string) (*models.EmailVerdict, error) {
	var verdict models.EmailVerdict
	if err := g.generate(ctx, emailPrompt(content), &verdict); err != nil {
		return nil, err
	}
	if verdict.DetectedTactics == nil {
		verdict.DetectedTactics = []models.EmailTactic{}
	}
	return &verdict, nil
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMIMEType string  `json:"responseMimeType"`
	Temperature      float64 `json:"temperature"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (g *GeminiGateway) generate(ctx context.Context, prompt string, out interface{}) error {
	if !g.limiter.Allow() {
		return fmt.Errorf("outbound classifier quota exhausted: %w", ErrRateLimited)
	}
	if g.Upstream.InCooldown() {
		return fmt.Errorf("classifier in cooldown after repeated failures: %w", ErrUnavailable)
	}

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			ResponseMIMEType: "application/json",
			Temperature:      0.2,
		},
	})
	if err != nil {
		return fmt.Errorf("encode classifier request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent", g.baseURL, g.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build classifier request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	start := time.Now()
	resp, err := g.client.Do(req)
	if err != nil {
		g.Upstream.RecordFailure(err.Error())
		return fmt.Errorf("classifier request failed: %v: %w", err, ErrUnavailable)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		g.Upstream.RecordFailure(err.Error())
		return fmt.Errorf("read classifier response: %v: %w", err, ErrUnavailable)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		g.Upstream.RecordFailure("upstream 429")
		return fmt.Errorf("classifier quota exceeded: %w", ErrRateLimited)
	}
	if resp.StatusCode != http.StatusOK {
		g.Upstream.RecordFailure(fmt.Sprintf("status %d", resp.StatusCode))
		slog.Warn("Classifier returned non-success status", "status", resp.StatusCode)
		return fmt.Errorf("classifier status %d: %w", resp.StatusCode, ErrUnavailable)
	}

	var genResp generateResponse
	if err := json.Unmarshal(raw, &genResp); err != nil {
		g.Upstream.RecordFailure("malformed envelope")
		return fmt.Errorf("decode classifier envelope: %v: %w", err, ErrUnavailable)
	}
	if len(genResp.Candidates) == 0 || len(genResp.Candidates[0].Content.Parts) == 0 {
		g.Upstream.RecordFailure("empty candidates")
		return fmt.Errorf("classifier returned no candidates: %w", ErrUnavailable)
	}

	text := stripCodeFences(genResp.Candidates[0].Content.Parts[0].Text)
	if err := json.Unmarshal([]byte(text), out); err != nil {
		g.Upstream.RecordFailure("malformed verdict")
		return fmt.Errorf("decode classifier verdict: %v: %w", err, ErrUnavailable)
	}

	g.Upstream.RecordSuccess(time.Since(start))
	return nil
}

// Models occasionally wrap JSON-mode output in markdown fences anyway.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(s, "```")
	}
	return strings.TrimSpace(s)
}
