// Package metrics exposes Prometheus counters for the scan and feedback
// paths, served on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ScansTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "phishguard_scans_total",
		Help: "Scan requests by kind (url, email) and outcome (band or error kind).",
	}, []string{"kind", "outcome"})

	ThreatsRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "phishguard_threats_recorded_total",
		Help: "Threat feed records written.",
	})

	ThreatWriteFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "phishguard_threat_write_failures_total",
		Help: "Swallowed threat feed write failures.",
	})

	FeedbackTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "phishguard_feedback_total",
		Help: "Feedback submissions by type.",
	}, []string{"type"})
)

func Handler() http.Handler {
	return promhttp.Handler()
}
