// Package metrics exposes Prometheus instrumentation for the poll engine and
// notification delivery. Label sets are kept small and bounded: the only
// labeled dimensions are the upstream operation and the delivery outcome.
// All collectors are safe for concurrent use.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// PollCycles counts completed poll cycles.
	PollCycles = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "leetboard_poll_cycles_total",
		Help: "Total number of completed poll cycles.",
	})

	// CycleDuration records full-cycle wall time in seconds.
	CycleDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "leetboard_poll_cycle_duration_seconds",
		Help:    "Duration of poll cycles in seconds.",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
	})

	// IdentitiesPolled counts per-identity poll attempts, by outcome.
	IdentitiesPolled = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "leetboard_identities_polled_total",
		Help: "Per-identity poll attempts by outcome.",
	}, []string{"outcome"}) // ok | error

	// Completions counts newly credited first-time solves.
	Completions = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "leetboard_completions_recorded_total",
		Help: "First-time solves written to the ledger.",
	})

	// Duplicates counts feed events rejected by the ledger's uniqueness gate.
	Duplicates = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "leetboard_duplicates_skipped_total",
		Help: "Feed events skipped because the (user, problem) pair was already credited.",
	})

	// UpstreamErrors counts feed failures by operation.
	UpstreamErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "leetboard_upstream_errors_total",
		Help: "Upstream feed failures by operation.",
	}, []string{"op"})

	// Notifications counts solve announcements by delivery outcome.
	Notifications = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "leetboard_notifications_total",
		Help: "Solve announcements by delivery outcome.",
	}, []string{"outcome"}) // sent | failed
)

func init() {
	prometheus.MustRegister(
		PollCycles,
		CycleDuration,
		IdentitiesPolled,
		Completions,
		Duplicates,
		UpstreamErrors,
		Notifications,
	)
}
