package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the registration state machine.
type Metrics struct {
	Transitions      *prometheus.CounterVec
	StaleTransitions prometheus.Counter
	DuplicateMoves   prometheus.Counter
	FrameworkErrors  *prometheus.CounterVec
	CurrentPhase     *prometheus.GaugeVec
}

// New creates the registration metrics and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Transitions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "exposure_registration_transitions_total",
			Help: "Phases entered by the registration state machine",
		}, []string{"phase"}),
		StaleTransitions: f.NewCounter(prometheus.CounterOpts{
			Name: "exposure_registration_stale_transitions_total",
			Help: "Transitions dropped because their phase was no longer current",
		}),
		DuplicateMoves: f.NewCounter(prometheus.CounterOpts{
			Name: "exposure_registration_duplicate_moves_total",
			Help: "Extra transition requests from a phase that already moved on",
		}),
		FrameworkErrors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "exposure_registration_framework_errors_total",
			Help: "Classified start and stop failures",
		}, []string{"reason"}),
		CurrentPhase: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "exposure_registration_phase",
			Help: "1 for the current registration phase, 0 otherwise",
		}, []string{"phase"}),
	}
}

// ObserveTransition records entering phase and moves the current phase gauge.
func (m *Metrics) ObserveTransition(from, to string) {
	if m == nil {
		return
	}
	m.Transitions.WithLabelValues(to).Inc()
	if from != "" {
		m.CurrentPhase.WithLabelValues(from).Set(0)
	}
	m.CurrentPhase.WithLabelValues(to).Set(1)
}

func (m *Metrics) IncrementStaleTransition() {
	if m == nil {
		return
	}
	m.StaleTransitions.Inc()
}

func (m *Metrics) IncrementDuplicateMove() {
	if m == nil {
		return
	}
	m.DuplicateMoves.Inc()
}

func (m *Metrics) IncrementFrameworkError(reason string) {
	if m == nil {
		return
	}
	m.FrameworkErrors.WithLabelValues(reason).Inc()
}
