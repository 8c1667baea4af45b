// Package metrics holds the Prometheus collectors for gateway calls and
// server actions. Collectors live on a private registry served by Handler.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Gateway operation labels.
const (
	OpRecommend   = "recommend"
	OpFindSimilar = "find_similar"
	OpReviewTrend = "review_trend"
)

// Outcome labels.
const (
	OutcomeOK      = "ok"
	OutcomeError   = "error"
	OutcomeTimeout = "timeout"
	OutcomeInvalid = "invalid_input"
)

var (
	registry = prometheus.NewRegistry()

	gatewayRequests = promauto.With(registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "gamescout_gateway_requests_total",
			Help: "Total number of recommendation gateway calls by operation and outcome.",
		},
		[]string{"operation", "outcome"},
	)

	gatewayDuration = promauto.With(registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gamescout_gateway_request_duration_seconds",
			Help:    "Latency of recommendation gateway calls.",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
		},
		[]string{"operation"},
	)

	actionResults = promauto.With(registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "gamescout_action_results_total",
			Help: "Total number of server action results by action and outcome.",
		},
		[]string{"action", "outcome"},
	)
)

func init() {
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// ObserveGateway records one gateway call that started at started.
func ObserveGateway(operation, outcome string, started time.Time) {
	gatewayRequests.WithLabelValues(operation, outcome).Inc()
	gatewayDuration.WithLabelValues(operation).Observe(time.Since(started).Seconds())
}

// CountAction records the outcome of one server action.
func CountAction(action, outcome string) {
	actionResults.WithLabelValues(action, outcome).Inc()
}

// Registry exposes the registry for tests and custom exporters.
func Registry() *prometheus.Registry {
	return registry
}

// Handler serves the registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})
}
