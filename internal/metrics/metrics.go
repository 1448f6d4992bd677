package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the console's client-side collectors
type Metrics struct {
	// Traffic: calls to the remote API by endpoint and outcome
	APIRequests *prometheus.CounterVec

	// Latency of remote API calls
	APIRequestDuration *prometheus.HistogramVec

	// Substitute datasets served instead of live analytics
	FallbacksServed *prometheus.CounterVec

	// Poll cycles by feed and result
	PollCycles *prometheus.CounterVec

	// Circuit breaker state (0=closed, 1=half-open, 2=open)
	BreakerState *prometheus.GaugeVec
}

// New registers the collectors on reg. A nil reg gets a private registry
// so callers and tests never collide on the default one.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	return &Metrics{
		APIRequests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "sui_faucet_api_requests_total",
			Help: "Total number of calls to the faucet API.",
		}, []string{"endpoint", "outcome"}),

		APIRequestDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sui_faucet_api_request_duration_seconds",
			Help:    "Histogram of faucet API call latencies.",
			Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}, []string{"endpoint"}),

		FallbacksServed: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "sui_faucet_fallbacks_total",
			Help: "Total number of demo datasets served in place of live analytics.",
		}, []string{"resource", "reason"}),

		PollCycles: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "sui_faucet_poll_cycles_total",
			Help: "Total number of dashboard poll cycles.",
		}, []string{"feed", "result"}),

		BreakerState: promauto.With(reg).NewGaugeVec(prometheus.GaugeOpts{
			Name: "sui_faucet_circuit_breaker_state",
			Help: "Current state of the analytics circuit breaker (0=closed, 1=half-open, 2=open).",
		}, []string{"name"}),
	}
}
