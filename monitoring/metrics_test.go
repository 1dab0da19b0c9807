package monitoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scorecast/ml"
)

func TestRecordRequest(t *testing.T) {
	pm := NewPredictionMetrics()
	pm.RecordRequest(OutcomeOK, 10*time.Millisecond)
	pm.RecordRequest(OutcomeOK, 30*time.Millisecond)
	pm.RecordRequest(OutcomeCacheHit, time.Hour)
	pm.RecordRequest(OutcomeRejected, 0)

	s := pm.Snapshot()
	assert.Equal(t, int64(2), s.Requests[OutcomeOK])
	assert.Equal(t, int64(1), s.Requests[OutcomeCacheHit])
	assert.Equal(t, int64(1), s.Requests[OutcomeRejected])
	assert.Equal(t, int64(3), s.Latency.Count)
	assert.InDelta(t, 40.0/3, s.Latency.AvgMs, 1e-9)
	assert.InDelta(t, 30.0, s.Latency.MaxMs, 1e-9)
	assert.Contains(t, s.System, "goroutines")
}

func TestRecordResultKeepsDisplayOrder(t *testing.T) {
	pm := NewPredictionMetrics()
	res := &ml.Result{
		Order:       ml.ModelNames(),
		Predictions: map[string]float64{ml.ModelLinear: 70, ml.ModelRidge: 71, ml.ModelPolynomial: 69, ml.ModelPolyRidge: 70},
		Failures:    map[string]string{ml.ModelLasso: "model Lasso: model unavailable"},
	}
	pm.RecordResult(res)
	pm.RecordResult(res)

	s := pm.Snapshot()
	require.Len(t, s.Models, 5)
	for i, name := range ml.ModelNames() {
		assert.Equal(t, name, s.Models[i].Name)
	}
	lasso := s.Models[2]
	assert.Equal(t, int64(2), lasso.Failures)
	assert.Zero(t, lasso.Predictions)
	assert.Equal(t, "model Lasso: model unavailable", lasso.LastError)
	assert.Equal(t, int64(2), s.Models[0].Predictions)
}
