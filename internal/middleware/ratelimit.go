package middleware

import (
	"strings"
	"sync"
	"time"
)

const (
	RateLimitWindow      = 60
	RateLimitMaxRequests = 10
	AntiRepeatWindow     = 15
)

type RateLimitResult struct {
	Allowed     bool
	Reason      string
	WaitSeconds int
}

type RateLimiter interface {
	CheckAndRecord(ip, target string) RateLimitResult
}

type requestEntry struct {
	timestamp float64
	target    string
}

// InMemoryRateLimiter bounds scan requests per client IP: a sliding
// request window plus an anti-repeat window that blocks re-scanning the
// same target in quick succession.
type InMemoryRateLimiter struct {
	mu       sync.Mutex
	requests map[string][]requestEntry
}

func NewInMemoryRateLimiter() *InMemoryRateLimiter {
	limiter := &InMemoryRateLimiter{
		requests: make(map[string][]requestEntry),
	}

	go limiter.cleanupLoop()

	return limiter
}

func (l *InMemoryRateLimiter) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		l.mu.Lock()
		now := float64(time.Now().Unix())
		for ip, entries := range l.requests {
			l.requests[ip] = pruneOld(entries, now)
			if len(l.requests[ip]) == 0 {
				delete(l.requests, ip)
			}
		}
		l.mu.Unlock()
	}
}

func pruneOld(entries []requestEntry, now float64) []requestEntry {
	cutoff := now - RateLimitWindow
	result := entries[:0]
	for _, e := range entries {
		if e.timestamp >= cutoff {
			result = append(result, e)
		}
	}
	return result
}

func (l *InMemoryRateLimiter) CheckAndRecord(ip, target string) RateLimitResult {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := float64(time.Now().Unix())
	target = strings.ToLower(strings.TrimSpace(target))

	l.requests[ip] = pruneOld(l.requests[ip], now)
	entries := l.requests[ip]

	if len(entries) >= RateLimitMaxRequests {
		oldest := entries[0].timestamp
		waitSeconds := int(oldest+RateLimitWindow-now) + 1
		if waitSeconds < 1 {
			waitSeconds = 1
		}
		return RateLimitResult{
			Allowed:     false,
			Reason:      "rate_limit",
			WaitSeconds: waitSeconds,
		}
	}

	antiRepeatCutoff := now - AntiRepeatWindow
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].timestamp < antiRepeatCutoff {
			break
		}
		if entries[i].target == target {
			waitSeconds := int(entries[i].timestamp+AntiRepeatWindow-now) + 1
			if waitSeconds < 1 {
				waitSeconds = 1
			}
			return RateLimitResult{
				Allowed:     false,
				Reason:      "anti_repeat",
				WaitSeconds: waitSeconds,
			}
		}
	}

	l.requests[ip] = append(entries, requestEntry{
		timestamp: now,
		target:    target,
	})

	return RateLimitResult{
		Allowed: true,
		Reason:  "ok",
	}
}
