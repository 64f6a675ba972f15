// Package metrics holds the Prometheus collectors shared by the service and
// the HTTP layer.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Comparisons counts compare runs by outcome: "ok", "drift" or "inputs_missing".
	Comparisons = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "keydrift",
		Name:      "comparisons_total",
		Help:      "Comparison runs by outcome.",
	}, []string{"outcome"})

	// CompareDuration observes how long the engine takes per run.
	CompareDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "keydrift",
		Name:      "compare_duration_seconds",
		Help:      "Time spent computing one discrepancy report.",
		Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
	})

	// Uploads counts parsed uploads by source ("keys", "table") and result.
	Uploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "keydrift",
		Name:      "uploads_total",
		Help:      "Uploaded source files by kind and result.",
	}, []string{"source", "result"})

	// PrefsFallbacks counts preference reads that fell back to an empty default.
	PrefsFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "keydrift",
		Name:      "preference_fallbacks_total",
		Help:      "Preference values replaced by an empty default, by reason.",
	}, []string{"reason"})

	// PrefsWriteErrors counts failed preference writes.
	PrefsWriteErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "keydrift",
		Name:      "preference_write_errors_total",
		Help:      "Preference store writes that returned an error.",
	})

	// ActiveSessions tracks live comparison sessions.
	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "keydrift",
		Name:      "active_sessions",
		Help:      "Comparison sessions currently held in memory.",
	})
)

// HTTPRequests counts served requests by method, chi route pattern and status.
var HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "keydrift",
	Name:      "http_requests_total",
	Help:      "HTTP requests by method, route and status code.",
}, []string{"method", "route", "status"})

// RateLimited counts requests rejected by the per-IP limiter.
var RateLimited = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "keydrift",
	Name:      "rate_limited_total",
	Help:      "Requests rejected by the per-IP rate limiter.",
})
