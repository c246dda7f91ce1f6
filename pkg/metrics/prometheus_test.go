package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	r := New()

	r.RecordAnalysis("AAPL", "BUY", 80)
	r.RecordAnalysis("MSFT", "BUY", 71.2)
	r.RecordUpstreamError("finnhub")
	r.ObserveStage("collect", 150*time.Millisecond)

	assert.Equal(t, float64(2), testutil.ToFloat64(r.analyses.WithLabelValues("BUY")))
	assert.Equal(t, float64(1), testutil.ToFloat64(r.upstreamErrors.WithLabelValues("finnhub")))
	assert.Equal(t, float64(80), testutil.ToFloat64(r.composite.WithLabelValues("AAPL")))
}

func TestRecorder_IndependentRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		_ = New()
		_ = New()
	})
}

func TestRecorder_NilSafe(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.RecordAnalysis("AAPL", "SELL", 10)
		r.RecordUpstreamError("yahoo")
		r.ObserveStage("value", time.Second)
	})
}

func TestHandler(t *testing.T) {
	r := New()
	r.RecordUpstreamError("reddit")

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `investo_upstream_errors_total{source="reddit"} 1`)
}
