package metrics

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds process-wide metrics that do not belong to a single module.
type Metrics struct {
	SilentErrors *prometheus.CounterVec
}

// NewRegistry creates a registry with Go runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// New creates and registers the shared metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		SilentErrors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "exposure_silent_errors_total",
			Help: "Non-fatal errors that were logged but did not change control flow",
		}, []string{"source"}),
	}
}

// Handler exposes reg in the Prometheus text format.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}

// SilentError logs err as non-fatal telemetry and counts it under source.
// Safe to call on a nil receiver.
func (m *Metrics) SilentError(ctx context.Context, logger *slog.Logger, source string, err error, attrs ...any) {
	if m != nil {
		m.SilentErrors.WithLabelValues(source).Inc()
	}
	if logger == nil {
		return
	}
	args := append([]any{"source", source, "log_type", "silent_error", "error", err}, attrs...)
	logger.WarnContext(ctx, "silent error", args...)
}
