// Package notify turns quarantine status changes into scheduled reminders and
// user notifications.
package notify

import (
	"context"
	"log/slog"
	"time"

	"exposure/internal/quarantine/models"
	"exposure/internal/scheduler"
	dErrors "exposure/pkg/domain-errors"
)

// Job names owned by the dispatcher.
const (
	JobQuarantineEnd          = "quarantine-end"
	JobQuarantineReminder     = "quarantine-reminder"
	JobSelfMonitoringReminder = "self-monitoring-reminder"

	DefaultReminderInterval = 24 * time.Hour
)

// StatusSource publishes quarantine statuses and the quarantine end flag.
type StatusSource interface {
	Latest() models.Status
	Observe() (<-chan struct{}, func())
	ShowQuarantineEnd(ctx context.Context) (bool, error)
	ObserveShowQuarantineEnd() (<-chan struct{}, func())
}

// Scheduler runs the reminder jobs.
type Scheduler interface {
	ScheduleOnce(name string, delay time.Duration, job scheduler.Job)
	EnsurePeriodic(name string, interval time.Duration, job scheduler.Job) bool
	Cancel(name string) bool
}

// Notifier presents notifications to the user.
type Notifier interface {
	QuarantineEnded(ctx context.Context, end time.Time)
	QuarantineReminder(ctx context.Context)
	SelfMonitoringReminder(ctx context.Context)
	ShowQuarantineEnd(ctx context.Context)
}

// Dispatcher keeps the scheduled reminders in line with the current status.
type Dispatcher struct {
	source    StatusSource
	scheduler Scheduler
	notifier  Notifier

	logger           *slog.Logger
	now              func() time.Time
	reminderInterval time.Duration

	showing bool
}

type Option func(*Dispatcher)

func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) {
		d.now = now
	}
}

func WithReminderInterval(interval time.Duration) Option {
	return func(d *Dispatcher) {
		if interval > 0 {
			d.reminderInterval = interval
		}
	}
}

func New(source StatusSource, sch Scheduler, notifier Notifier, opts ...Option) (*Dispatcher, error) {
	if source == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "status source is required")
	}
	if sch == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "scheduler is required")
	}
	if notifier == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "notifier is required")
	}
	d := &Dispatcher{
		source:           source,
		scheduler:        sch,
		notifier:         notifier,
		logger:           slog.Default(),
		now:              time.Now,
		reminderInterval: DefaultReminderInterval,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Run applies the latest status and quarantine end flag, then follows both
// until ctx is done.
func (d *Dispatcher) Run(ctx context.Context) error {
	statuses, stopStatuses := d.source.Observe()
	defer stopStatuses()
	flags, stopFlags := d.source.ObserveShowQuarantineEnd()
	defer stopFlags()

	d.Apply(ctx, d.source.Latest())
	d.checkQuarantineEnd(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-statuses:
			d.Apply(ctx, d.source.Latest())
		case <-flags:
			d.checkQuarantineEnd(ctx)
		}
	}
}

// Apply schedules and cancels jobs for status. A nil status is ignored.
func (d *Dispatcher) Apply(ctx context.Context, status models.Status) {
	switch s := status.(type) {
	case models.JailedLimited:
		end := s.End
		d.scheduler.ScheduleOnce(JobQuarantineEnd, max(end.Sub(d.now()), 0), func(ctx context.Context) {
			d.notifier.QuarantineEnded(ctx, end)
		})
		d.ensureReminder()
		d.scheduler.Cancel(JobSelfMonitoringReminder)
	case models.JailedForever:
		d.scheduler.Cancel(JobQuarantineEnd)
		d.ensureReminder()
		d.scheduler.Cancel(JobSelfMonitoringReminder)
	case models.Free:
		d.scheduler.Cancel(JobQuarantineEnd)
		d.scheduler.Cancel(JobQuarantineReminder)
		if s.SelfMonitoring {
			d.scheduler.EnsurePeriodic(JobSelfMonitoringReminder, d.reminderInterval, d.notifier.SelfMonitoringReminder)
		} else {
			d.scheduler.Cancel(JobSelfMonitoringReminder)
		}
	default:
		return
	}
	d.logger.DebugContext(ctx, "reminders updated", "status", status.Kind())
}

func (d *Dispatcher) ensureReminder() {
	d.scheduler.EnsurePeriodic(JobQuarantineReminder, d.reminderInterval, d.notifier.QuarantineReminder)
}

// checkQuarantineEnd notifies once each time the flag is raised.
func (d *Dispatcher) checkQuarantineEnd(ctx context.Context) {
	show, err := d.source.ShowQuarantineEnd(ctx)
	if err != nil {
		d.logger.WarnContext(ctx, "failed to read quarantine end flag", "error", err)
		return
	}
	if show && !d.showing {
		d.notifier.ShowQuarantineEnd(ctx)
	}
	d.showing = show
}
