package metrics

import (
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_IndependentRegistries(t *testing.T) {
	a := New()
	b := New()

	a.RecordStart(false, "started")

	assert.Equal(t, float64(1), testutil.ToFloat64(a.TimerStartsTotal.WithLabelValues("card", "started")))
	assert.Equal(t, float64(0), testutil.ToFloat64(b.TimerStartsTotal.WithLabelValues("card", "started")))
}

func TestRecorders(t *testing.T) {
	m := New()

	m.RecordStart(true, "PREREQUISITE_NOT_MET")
	m.RecordStop(false)
	m.RecordStop(true)
	m.RecordStop(true)
	m.RecordCascade(2)
	m.RecordCascade(0)
	m.RecordMovedToReview()
	m.RecordHTTP(http.MethodPost, "/api/timers", http.StatusCreated, 3*time.Millisecond)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.TimerStartsTotal.WithLabelValues("subtask", "PREREQUISITE_NOT_MET")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.TimerStopsTotal.WithLabelValues("card")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.TimerStopsTotal.WithLabelValues("subtask")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.CascadeClosedTotal))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.CardsMovedToReviewTotal))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("POST", "/api/timers", "201")))

	families, err := m.Registry().Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.RecordStart(false, "started")
		m.RecordStop(true)
		m.RecordCascade(3)
		m.RecordMovedToReview()
		m.RecordHTTP("GET", "/healthz", 200, time.Millisecond)
	})
}
