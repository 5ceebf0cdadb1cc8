package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the quarantine status engine.
type Metrics struct {
	Recomputations prometheus.Counter
	Transitions    *prometheus.CounterVec
	QuarantineEnds prometheus.Counter
}

// New creates the quarantine metrics and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Recomputations: f.NewCounter(prometheus.CounterOpts{
			Name: "exposure_quarantine_recomputations_total",
			Help: "Number of times the quarantine status was recomputed",
		}),
		Transitions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "exposure_quarantine_status_transitions_total",
			Help: "Emitted quarantine status changes by resulting kind",
		}, []string{"kind"}),
		QuarantineEnds: f.NewCounter(prometheus.CounterOpts{
			Name: "exposure_quarantine_ends_total",
			Help: "Transitions from a quarantine to free",
		}),
	}
}

// IncrementRecomputation records one status evaluation.
func (m *Metrics) IncrementRecomputation() {
	if m == nil {
		return
	}
	m.Recomputations.Inc()
}

// IncrementTransition records an emitted status of the given kind.
func (m *Metrics) IncrementTransition(kind string) {
	if m == nil {
		return
	}
	m.Transitions.WithLabelValues(kind).Inc()
}

// IncrementQuarantineEnd records a quarantine ending.
func (m *Metrics) IncrementQuarantineEnd() {
	if m == nil {
		return
	}
	m.QuarantineEnds.Inc()
}
