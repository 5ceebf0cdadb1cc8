package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the diagnosis-key pipeline.
type Metrics struct {
	Fetches          *prometheus.CounterVec
	FetchesRejected  prometheus.Counter
	FetchDuration    prometheus.Histogram
	FilesDownloaded  prometheus.Counter
	PhasesProcessed  *prometheus.CounterVec
	ProcessingRuns   *prometheus.CounterVec
	SessionsFinished prometheus.Counter
	ClaimsLost       prometheus.Counter
	WarningsFound    *prometheus.CounterVec
}

// New creates the pipeline metrics and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Fetches: f.NewCounterVec(prometheus.CounterOpts{
			Name: "exposure_diagnosis_key_fetches_total",
			Help: "Completed diagnosis-key fetches by result and trigger",
		}, []string{"result", "trigger"}),
		FetchesRejected: f.NewCounter(prometheus.CounterOpts{
			Name: "exposure_diagnosis_key_fetches_rejected_total",
			Help: "Fetch requests rejected because one was already in flight",
		}),
		FetchDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "exposure_diagnosis_key_fetch_duration_seconds",
			Help:    "Duration of index download, file download and submission",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
		FilesDownloaded: f.NewCounter(prometheus.CounterOpts{
			Name: "exposure_diagnosis_key_files_downloaded_total",
			Help: "Archive files downloaded",
		}),
		PhasesProcessed: f.NewCounterVec(prometheus.CounterOpts{
			Name: "exposure_diagnosis_key_phases_processed_total",
			Help: "Matching results processed by session phase",
		}, []string{"phase"}),
		ProcessingRuns: f.NewCounterVec(prometheus.CounterOpts{
			Name: "exposure_diagnosis_key_processing_runs_total",
			Help: "Processing requests by what started them (broadcast, timeout, manual)",
		}, []string{"trigger"}),
		SessionsFinished: f.NewCounter(prometheus.CounterOpts{
			Name: "exposure_diagnosis_key_sessions_finished_total",
			Help: "Sessions cleaned up after processing finished",
		}),
		ClaimsLost: f.NewCounter(prometheus.CounterOpts{
			Name: "exposure_diagnosis_key_claims_lost_total",
			Help: "Processing requests that found their token already claimed",
		}),
		WarningsFound: f.NewCounterVec(prometheus.CounterOpts{
			Name: "exposure_diagnosis_key_warnings_total",
			Help: "Warnings recorded from matching results by type",
		}, []string{"warning_type"}),
	}
}

func (m *Metrics) ObserveFetch(result, trigger string, start time.Time) {
	if m == nil {
		return
	}
	m.Fetches.WithLabelValues(result, trigger).Inc()
	m.FetchDuration.Observe(time.Since(start).Seconds())
}

func (m *Metrics) IncrementFetchRejected() {
	if m == nil {
		return
	}
	m.FetchesRejected.Inc()
}

func (m *Metrics) AddFilesDownloaded(n int) {
	if m == nil {
		return
	}
	m.FilesDownloaded.Add(float64(n))
}

func (m *Metrics) IncrementPhase(phase string) {
	if m == nil {
		return
	}
	m.PhasesProcessed.WithLabelValues(phase).Inc()
}

func (m *Metrics) IncrementProcessing(trigger string) {
	if m == nil {
		return
	}
	m.ProcessingRuns.WithLabelValues(trigger).Inc()
}

func (m *Metrics) IncrementSessionFinished() {
	if m == nil {
		return
	}
	m.SessionsFinished.Inc()
}

func (m *Metrics) IncrementClaimLost() {
	if m == nil {
		return
	}
	m.ClaimsLost.Inc()
}

func (m *Metrics) IncrementWarning(warningType string) {
	if m == nil {
		return
	}
	m.WarningsFound.WithLabelValues(warningType).Inc()
}
