package handlers

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ChinmayIngle26/PhishGuard/internal/scan"
	"github.com/ChinmayIngle26/PhishGuard/internal/telemetry"
)

type HealthPinger interface {
	HealthCheck(ctx context.Context) error
}

type HealthHandler struct {
	DB        HealthPinger
	Upstream  *telemetry.Upstream
	Pipeline  *scan.Pipeline
	StartTime time.Time
}

func NewHealthHandler(database HealthPinger, upstream *telemetry.Upstream, pipeline *scan.Pipeline) *HealthHandler {
	return &HealthHandler{
		DB:        database,
		Upstream:  upstream,
		Pipeline:  pipeline,
		StartTime: time.Now(),
	}
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	dbStatus := "healthy"
	if err := h.DB.HealthCheck(c.Request.Context()); err != nil {
		dbStatus = "unhealthy: " + err.Error()
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	response := gin.H{
		"status":  "ok",
		"runtime": "go",
		"uptime":  time.Since(h.StartTime).String(),
		"database": gin.H{
			"status": dbStatus,
		},
		"memory": gin.H{
			"alloc_mb":       memStats.Alloc / 1024 / 1024,
			"sys_mb":         memStats.Sys / 1024 / 1024,
			"num_goroutines": runtime.NumGoroutine(),
		},
	}

	if h.Upstream != nil {
		stats := h.Upstream.Stats()
		classifier := gin.H{
			"name":                 stats.Name,
			"state":                string(stats.State),
			"total_requests":       stats.TotalRequests,
			"success_count":        stats.SuccessCount,
			"failure_count":        stats.FailureCount,
			"consecutive_failures": stats.ConsecFailures,
			"avg_latency_ms":       stats.AvgLatencyMs,
			"p95_latency_ms":       stats.P95LatencyMs,
			"in_cooldown":          stats.InCooldown,
		}
		if stats.LastError != "" {
			classifier["last_error"] = stats.LastError
		}
		if stats.LastErrorTime != nil {
			classifier["last_error_time"] = stats.LastErrorTime.Format(time.RFC3339)
		}
		if stats.LastSuccessTime != nil {
			classifier["last_success_time"] = stats.LastSuccessTime.Format(time.RFC3339)
		}
		response["classifier"] = classifier
	}

	if h.Pipeline != nil {
		if cs := h.Pipeline.CacheStats(); cs != nil {
			response["caches"] = []gin.H{{
				"name":     cs.Name,
				"size":     cs.Size,
				"max_size": cs.MaxSize,
				"hits":     cs.Hits,
				"misses":   cs.Misses,
				"hit_rate": cs.HitRate,
			}}
		}
	}

	c.JSON(http.StatusOK, response)
}
