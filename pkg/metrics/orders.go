package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Order submission outcomes.
const (
	OrderOutcomeCreated  = "created"
	OrderOutcomeRejected = "rejected"
	OrderOutcomeFailed   = "failed"
)

// OrderMetrics counts submissions and their line items.
type OrderMetrics struct {
	submitted *prometheus.CounterVec
	lines     prometheus.Counter
	duration  prometheus.Histogram
}

func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	if reg == nil {
		return &OrderMetrics{}
	}
	submitted := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Subsystem: "orders",
		Name:      "submitted_total",
		Help:      "Order submissions by outcome.",
	}, []string{"outcome"})
	lines := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: Namespace,
		Subsystem: "orders",
		Name:      "line_items_total",
		Help:      "Line items persisted with committed orders.",
	})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: Namespace,
		Subsystem: "orders",
		Name:      "persist_duration_seconds",
		Help:      "Time spent in the order write transaction.",
		Buckets:   prometheus.DefBuckets,
	})
	reg.MustRegister(submitted, lines, duration)
	return &OrderMetrics{submitted: submitted, lines: lines, duration: duration}
}

// Observe records one submission. lineCount and elapsed only count for created orders.
func (m *OrderMetrics) Observe(outcome string, lineCount int, elapsed time.Duration) {
	if m == nil || m.submitted == nil {
		return
	}
	m.submitted.WithLabelValues(normalizeLabel(outcome)).Inc()
	if outcome != OrderOutcomeCreated {
		return
	}
	m.lines.Add(float64(lineCount))
	m.duration.Observe(elapsed.Seconds())
}
