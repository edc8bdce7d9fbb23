// Package metrics holds the Prometheus instruments for the timer engine and
// its HTTP surface.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "pmtime"

// Metrics holds all Prometheus metrics for the time tracking engine.
//
// Thread Safety: Safe for concurrent use. A nil *Metrics is a no-op recorder.
type Metrics struct {
	// TimerStartsTotal counts start requests by timer class and outcome.
	TimerStartsTotal *prometheus.CounterVec

	// TimerStopsTotal counts closed entries by timer class.
	TimerStopsTotal *prometheus.CounterVec

	// CascadeClosedTotal counts subtask entries closed by a card stop.
	CascadeClosedTotal prometheus.Counter

	// CardsMovedToReviewTotal counts cards promoted to review by subtask completion.
	CardsMovedToReviewTotal prometheus.Counter

	// HTTPRequestsTotal counts handled requests by method, route and status.
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDurationSeconds measures handler latency.
	HTTPRequestDurationSeconds *prometheus.HistogramVec

	registry *prometheus.Registry
}

// New creates the metrics on a fresh registry, so several instances can
// coexist in one process (tests, multiple servers).
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		TimerStartsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "timer",
				Name:      "starts_total",
				Help:      "Timer start requests by class and outcome",
			},
			[]string{"class", "outcome"},
		),

		TimerStopsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "timer",
				Name:      "stops_total",
				Help:      "Time entries closed by class",
			},
			[]string{"class"},
		),

		CascadeClosedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "timer",
				Name:      "cascade_closed_total",
				Help:      "Subtask entries closed because their card timer stopped",
			},
		),

		CardsMovedToReviewTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "watcher",
				Name:      "cards_moved_to_review_total",
				Help:      "Cards moved to review after all subtasks were done",
			},
		),

		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "HTTP requests by method, route and status",
			},
			[]string{"method", "route", "status"},
		),

		HTTPRequestDurationSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP handler latency in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1},
			},
			[]string{"method", "route"},
		),

		registry: reg,
	}
}

// Registry returns the registry the metrics are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func class(subtask bool) string {
	if subtask {
		return "subtask"
	}
	return "card"
}

// RecordStart records the outcome ("started", or an error code) of a start request.
func (m *Metrics) RecordStart(subtask bool, outcome string) {
	if m == nil {
		return
	}
	m.TimerStartsTotal.WithLabelValues(class(subtask), outcome).Inc()
}

// RecordStop records one closed entry.
func (m *Metrics) RecordStop(subtask bool) {
	if m == nil {
		return
	}
	m.TimerStopsTotal.WithLabelValues(class(subtask)).Inc()
}

// RecordCascade records subtask entries closed by a card stop.
func (m *Metrics) RecordCascade(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.CascadeClosedTotal.Add(float64(n))
}

// RecordMovedToReview records a card promotion.
func (m *Metrics) RecordMovedToReview() {
	if m == nil {
		return
	}
	m.CardsMovedToReviewTotal.Inc()
}

// RecordHTTP records a finished request.
func (m *Metrics) RecordHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDurationSeconds.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
