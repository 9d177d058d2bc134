package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collectors for the outer layers. The lifecycle engine itself stays
// telemetry-free; only the HTTP boundary and the sweeper report here.
var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pantrylog_http_requests_total",
		Help: "HTTP requests by method, route and status code.",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pantrylog_http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	SweepRunsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pantrylog_sweep_runs_total",
		Help: "Completed expiry sweep runs.",
	})

	SweepLotsExpiredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pantrylog_sweep_lots_expired_total",
		Help: "Lots transitioned to Expired by the sweep.",
	})

	SweepErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pantrylog_sweep_errors_total",
		Help: "Expiry sweep runs that returned an error.",
	})
)
