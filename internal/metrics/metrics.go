package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "reconciliation"

// Recorder holds the reconciliation counters. A nil *Recorder records nothing.
type Recorder struct {
	accepted    *prometheus.CounterVec
	failures    *prometheus.CounterVec
	suggestions prometheus.Histogram
	bulkRuns    prometheus.Counter
}

func NewRecorder(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		accepted: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "matches_accepted_total",
			Help:      "Matches committed to the ledger, by action.",
		}, []string{"action"}),
		failures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "accept_failures_total",
			Help:      "Accept attempts that failed, by error kind.",
		}, []string{"kind"}),
		suggestions: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "suggested_matches",
			Help:      "Candidates produced per generation pass.",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000},
		}),
		bulkRuns: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bulk_accept_runs_total",
			Help:      "Bulk accept sweeps started.",
		}),
	}
}

func (r *Recorder) MatchAccepted(action string) {
	if r == nil {
		return
	}
	r.accepted.WithLabelValues(action).Inc()
}

func (r *Recorder) AcceptFailed(kind string) {
	if r == nil {
		return
	}
	r.failures.WithLabelValues(kind).Inc()
}

func (r *Recorder) SuggestionsGenerated(n int) {
	if r == nil {
		return
	}
	r.suggestions.Observe(float64(n))
}

func (r *Recorder) BulkAcceptStarted() {
	if r == nil {
		return
	}
	r.bulkRuns.Inc()
}
