package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// GenerationRequestsTotal counts gateway calls.
	// Labels: operation (roadmap/phase_summary/chat/...), status (success/error)
	GenerationRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pathfinder_generation_requests_total",
			Help: "Total number of generation gateway calls by operation and status",
		},
		[]string{"operation", "status"},
	)

	// GenerationDuration is the latency of gateway calls in seconds.
	GenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pathfinder_generation_duration_seconds",
			Help:    "Generation gateway call duration in seconds by operation",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 60},
		},
		[]string{"operation"},
	)

	// AdaptationsTotal counts roadmap adaptations.
	// Labels: strategy, outcome (applied/failed/stale/busy)
	AdaptationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pathfinder_adaptations_total",
			Help: "Total number of roadmap adaptations by strategy and outcome",
		},
		[]string{"strategy", "outcome"},
	)

	// ItemTogglesTotal counts progress toggles by the event they raised.
	ItemTogglesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pathfinder_item_toggles_total",
			Help: "Total number of roadmap item toggles by resulting event",
		},
		[]string{"event"},
	)

	// HTTPRequestsTotal counts API requests by route pattern and status code.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pathfinder_http_requests_total",
			Help: "Total number of HTTP requests by route and status",
		},
		[]string{"route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pathfinder_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds by route",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	// XPAwardedTotal counts experience points granted by source.
	XPAwardedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pathfinder_xp_awarded_total",
			Help: "Total experience points awarded by source",
		},
		[]string{"source"},
	)
)

func RecordGeneration(operation string, started time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	GenerationRequestsTotal.WithLabelValues(operation, status).Inc()
	GenerationDuration.WithLabelValues(operation).Observe(time.Since(started).Seconds())
}

func RecordAdaptation(strategy, outcome string) {
	AdaptationsTotal.WithLabelValues(strategy, outcome).Inc()
}

func RecordToggle(event string) {
	if event == "" {
		event = "none"
	}
	ItemTogglesTotal.WithLabelValues(event).Inc()
}

func RecordXP(source string, amount int) {
	if amount <= 0 {
		return
	}
	XPAwardedTotal.WithLabelValues(source).Add(float64(amount))
}

func RecordHTTP(route, status string, d time.Duration) {
	HTTPRequestsTotal.WithLabelValues(route, status).Inc()
	HTTPRequestDuration.WithLabelValues(route).Observe(d.Seconds())
}
