package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorder(t *testing.T) {
	r := NewRecorder(prometheus.NewRegistry())

	r.MatchAccepted("accepted")
	r.MatchAccepted("accepted")
	r.MatchAccepted("manual_match")
	r.AcceptFailed("already_reconciled")
	r.BulkAcceptStarted()
	r.SuggestionsGenerated(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.accepted.WithLabelValues("accepted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.accepted.WithLabelValues("manual_match")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.failures.WithLabelValues("already_reconciled")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.bulkRuns))
}

func TestRecorder_Nil(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.MatchAccepted("accepted")
		r.AcceptFailed("validation")
		r.SuggestionsGenerated(1)
		r.BulkAcceptStarted()
	})
}
