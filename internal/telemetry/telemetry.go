// Package telemetry tracks upstream health for the classifier gateway and
// caches verdicts so repeated scans of the same target do not re-bill the
// classifier API.
package telemetry

import (
	"sort"
	"sync"
	"time"
)

type HealthState string

const (
	Healthy   HealthState = "healthy"
	Degraded  HealthState = "degraded"
	Unhealthy HealthState = "unhealthy"

	degradedAfter  = 3
	unhealthyAfter = 5
	cooldownBase   = 5 * time.Second
	cooldownMax    = 5 * time.Minute
	latencyWindow  = 100
)

type UpstreamStats struct {
	Name            string      `json:"name"`
	State           HealthState `json:"state"`
	TotalRequests   int64       `json:"total_requests"`
	SuccessCount    int64       `json:"success_count"`
	FailureCount    int64       `json:"failure_count"`
	ConsecFailures  int         `json:"consecutive_failures"`
	LastError       string      `json:"last_error,omitempty"`
	LastErrorTime   *time.Time  `json:"last_error_time,omitempty"`
	LastSuccessTime *time.Time  `json:"last_success_time,omitempty"`
	AvgLatencyMs    float64     `json:"avg_latency_ms"`
	P95LatencyMs    float64     `json:"p95_latency_ms"`
	InCooldown      bool        `json:"in_cooldown"`
	CooldownUntil   *time.Time  `json:"cooldown_until,omitempty"`
}

// Upstream records call outcomes for one external collaborator. After a
// run of consecutive failures it enters an exponentially growing cooldown
// so callers can fail fast instead of hammering a dead upstream.
type Upstream struct {
	mu             sync.Mutex
	name           string
	totalRequests  int64
	successCount   int64
	failureCount   int64
	consecFailures int
	lastError      string
	lastErrorTime  time.Time
	lastSuccess    time.Time
	latencies      []float64
	cooldownUntil  time.Time
}

func NewUpstream(name string) *Upstream {
	return &Upstream{
		name:      name,
		latencies: make([]float64, 0, latencyWindow),
	}
}

func (u *Upstream) RecordSuccess(latency time.Duration) {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.totalRequests++
	u.successCount++
	u.consecFailures = 0
	u.lastSuccess = time.Now()
	u.cooldownUntil = time.Time{}

	ms := float64(latency.Microseconds()) / 1000.0
	if len(u.latencies) >= latencyWindow {
		u.latencies = u.latencies[1:]
	}
	u.latencies = append(u.latencies, ms)
}

func (u *Upstream) RecordFailure(errMsg string) {
	u.mu.Lock()
	defer u.mu.Unlock()

	now := time.Now()
	u.totalRequests++
	u.failureCount++
	u.consecFailures++
	u.lastError = errMsg
	u.lastErrorTime = now

	if u.consecFailures >= degradedAfter {
		backoff := cooldownBase << (u.consecFailures - degradedAfter)
		if backoff > cooldownMax || backoff <= 0 {
			backoff = cooldownMax
		}
		u.cooldownUntil = now.Add(backoff)
	}
}

func (u *Upstream) InCooldown() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return !u.cooldownUntil.IsZero() && time.Now().Before(u.cooldownUntil)
}

func (u *Upstream) Stats() UpstreamStats {
	u.mu.Lock()
	defer u.mu.Unlock()

	s := UpstreamStats{
		Name:           u.name,
		TotalRequests:  u.totalRequests,
		SuccessCount:   u.successCount,
		FailureCount:   u.failureCount,
		ConsecFailures: u.consecFailures,
		LastError:      u.lastError,
	}

	if !u.lastErrorTime.IsZero() {
		t := u.lastErrorTime
		s.LastErrorTime = &t
	}
	if !u.lastSuccess.IsZero() {
		t := u.lastSuccess
		s.LastSuccessTime = &t
	}

	switch {
	case u.consecFailures >= unhealthyAfter:
		s.State = Unhealthy
	case u.consecFailures >= degradedAfter:
		s.State = Degraded
	default:
		s.State = Healthy
	}

	now := time.Now()
	if !u.cooldownUntil.IsZero() && now.Before(u.cooldownUntil) {
		s.InCooldown = true
		t := u.cooldownUntil
		s.CooldownUntil = &t
	}

	if n := len(u.latencies); n > 0 {
		sorted := make([]float64, n)
		copy(sorted, u.latencies)
		sort.Float64s(sorted)

		sum := 0.0
		for _, v := range sorted {
			sum += v
		}
		s.AvgLatencyMs = sum / float64(n)
		s.P95LatencyMs = sorted[int(float64(n-1)*0.95)]
	}

	return s
}
