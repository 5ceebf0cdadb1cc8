// Package worker owns the recurring background work: diagnosis-key fetches
// while the framework is running, sent key cleanup and configuration refresh.
package worker

import (
	"context"
	"log/slog"
	"time"

	"exposure/internal/registration/models"
	"exposure/internal/scheduler"
	dErrors "exposure/pkg/domain-errors"
	"exposure/pkg/requestcontext"
)

const (
	JobFetch        = "diagnosis-keys-fetch"
	JobFetchNow     = "diagnosis-keys-fetch:now"
	JobTEKCleanup   = "tek-cleanup"
	JobConfigUpdate = "configuration-refresh"
)

// Phases exposes the registration phase.
type Phases interface {
	Phase() models.Phase
	Watch() (<-chan struct{}, func())
}

type Fetcher interface {
	Fetch(ctx context.Context) bool
}

type Cleaner interface {
	Cleanup(ctx context.Context) (int64, error)
}

type Refresher interface {
	Refresh(ctx context.Context) error
}

type Scheduler interface {
	ScheduleOnce(name string, delay time.Duration, job scheduler.Job)
	EnsurePeriodic(name string, interval time.Duration, job scheduler.Job) bool
	Cancel(name string) bool
}

// Intervals configures how often each job runs. A zero interval disables the job.
type Intervals struct {
	Fetch         time.Duration
	TEKCleanup    time.Duration
	ConfigRefresh time.Duration
}

// Worker schedules background jobs and keeps the fetch job in line with the
// registration phase.
type Worker struct {
	phases    Phases
	fetcher   Fetcher
	scheduler Scheduler
	intervals Intervals

	cleaner   Cleaner
	refresher Refresher
	logger    *slog.Logger
}

type Option func(*Worker)

func WithLogger(logger *slog.Logger) Option {
	return func(w *Worker) {
		w.logger = logger
	}
}

func WithCleaner(c Cleaner) Option {
	return func(w *Worker) {
		w.cleaner = c
	}
}

func WithRefresher(r Refresher) Option {
	return func(w *Worker) {
		w.refresher = r
	}
}

func New(phases Phases, fetcher Fetcher, sch Scheduler, intervals Intervals, opts ...Option) (*Worker, error) {
	if phases == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "registration phases are required")
	}
	if fetcher == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "fetcher is required")
	}
	if sch == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "scheduler is required")
	}
	w := &Worker{
		phases:    phases,
		fetcher:   fetcher,
		scheduler: sch,
		intervals: intervals,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Run schedules the maintenance jobs and follows the registration phase until
// ctx is done. Jobs it owns are cancelled on return.
func (w *Worker) Run(ctx context.Context) error {
	changes, stop := w.phases.Watch()
	defer stop()
	defer w.cancelAll()

	if w.cleaner != nil && w.intervals.TEKCleanup > 0 {
		w.scheduler.EnsurePeriodic(JobTEKCleanup, w.intervals.TEKCleanup, w.cleanup)
	}
	if w.refresher != nil && w.intervals.ConfigRefresh > 0 {
		w.scheduler.EnsurePeriodic(JobConfigUpdate, w.intervals.ConfigRefresh, w.refresh)
	}

	w.sync(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-changes:
			w.sync(ctx)
		}
	}
}

// sync enables the fetch job while the framework is running. Entering the
// running phase also triggers one fetch right away.
func (w *Worker) sync(ctx context.Context) {
	if _, running := w.phases.Phase().(models.FrameworkRunning); !running {
		if w.scheduler.Cancel(JobFetch) {
			w.scheduler.Cancel(JobFetchNow)
			w.logger.InfoContext(ctx, "diagnosis key fetching paused")
		}
		return
	}
	if w.intervals.Fetch <= 0 {
		return
	}
	if w.scheduler.EnsurePeriodic(JobFetch, w.intervals.Fetch, w.fetch) {
		w.scheduler.ScheduleOnce(JobFetchNow, 0, w.fetchNow)
		w.logger.InfoContext(ctx, "diagnosis key fetching enabled", "interval", w.intervals.Fetch)
	}
}

func (w *Worker) fetch(ctx context.Context) {
	w.fetcher.Fetch(ctx)
}

// fetchNow is the first run of the periodic fetch.
func (w *Worker) fetchNow(ctx context.Context) {
	w.fetch(requestcontext.WithTrigger(ctx, requestcontext.TriggerPeriodic))
}

func (w *Worker) cleanup(ctx context.Context) {
	if _, err := w.cleaner.Cleanup(ctx); err != nil {
		w.logger.ErrorContext(ctx, "sent key cleanup failed", "error", err)
	}
}

func (w *Worker) refresh(ctx context.Context) {
	if err := w.refresher.Refresh(ctx); err != nil {
		w.logger.WarnContext(ctx, "configuration refresh failed", "error", err)
	}
}

func (w *Worker) cancelAll() {
	for _, name := range []string{JobFetch, JobFetchNow, JobTEKCleanup, JobConfigUpdate} {
		w.scheduler.Cancel(name)
	}
}
