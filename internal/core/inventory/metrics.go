package inventory

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// actionsTotal counts dispatched actions.
	// Labels: action (start, stop, fetch), result (success, failure, not_found, invalid)
	actionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "composedeck",
		Subsystem: "actions",
		Name:      "total",
		Help:      "Total service actions by outcome",
	}, []string{"action", "result"})

	// reconcileDuration is observed once per ReconcileClient and once per ListClients.
	reconcileDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "composedeck",
		Subsystem: "reconcile",
		Name:      "duration_seconds",
		Help:      "Time to resolve runtime status for one client, or for a whole client listing",
		Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	})

	// runtimeQueryErrors counts failed image/container listings during status resolution.
	runtimeQueryErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "composedeck",
		Name:      "runtime_query_errors_total",
		Help:      "Runtime queries that failed and degraded status to missing",
	})
)
