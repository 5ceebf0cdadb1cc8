// Package service owns the quarantine status: it records the source timestamps and
// runs the single recomputation loop every consumer observes.
package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"exposure/internal/configuration"
	platformmetrics "exposure/internal/platform/metrics"
	"exposure/internal/prefs"
	"exposure/internal/quarantine/metrics"
	"exposure/internal/quarantine/models"
	dErrors "exposure/pkg/domain-errors"
	"exposure/pkg/platform/signal"
)

// DefaultDebounce coalesces writes that land together into one recomputation.
const DefaultDebounce = 50 * time.Millisecond

// Store is the timestamp and flag store the status is derived from.
type Store interface {
	Time(ctx context.Context, key prefs.Key) (*time.Time, error)
	SetTime(ctx context.Context, key prefs.Key, t *time.Time) error
	Bool(ctx context.Context, key prefs.Key) (bool, error)
	SetBool(ctx context.Context, key prefs.Key, v bool) error
	Watch(keys ...prefs.Key) (<-chan struct{}, func())
}

// ConfigProvider supplies the quarantine durations.
type ConfigProvider interface {
	Current() configuration.Configuration
	Watch() (<-chan struct{}, func())
}

var sourceKeys = []prefs.Key{
	prefs.KeyFirstMedicalConfirmation,
	prefs.KeyLastSelfDiagnose,
	prefs.KeyLastRedContact,
	prefs.KeyLastYellowContact,
	prefs.KeyLastSelfMonitoring,
}

// Repository records quarantine inputs and publishes the derived status.
type Repository struct {
	store    Store
	config   ConfigProvider
	logger   *slog.Logger
	metrics  *metrics.Metrics
	silent   *platformmetrics.Metrics
	debounce time.Duration
	clock    func() time.Time

	// writeMu keeps multi-key updates from interleaving.
	writeMu sync.Mutex

	mu      sync.RWMutex
	latest  models.Status
	changes signal.Broadcaster
}

type Option func(*Repository)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Repository) {
		r.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Repository) {
		r.metrics = m
	}
}

func WithSilentErrors(m *platformmetrics.Metrics) Option {
	return func(r *Repository) {
		r.silent = m
	}
}

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) Option {
	return func(r *Repository) {
		r.debounce = d
	}
}

// WithClock replaces time.Now for the recomputation loop.
func WithClock(clock func() time.Time) Option {
	return func(r *Repository) {
		r.clock = clock
	}
}

// New creates a Repository. Call Run to start publishing statuses.
func New(store Store, config ConfigProvider, opts ...Option) (*Repository, error) {
	if store == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "timestamp store is required")
	}
	if config == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "configuration provider is required")
	}
	r := &Repository{
		store:    store,
		config:   config,
		logger:   slog.Default(),
		debounce: DefaultDebounce,
		clock:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Compute derives the status from the store as of now.
func (r *Repository) Compute(ctx context.Context, now time.Time) (models.Status, error) {
	var in models.Inputs
	targets := []struct {
		key prefs.Key
		dst **time.Time
	}{
		{prefs.KeyFirstMedicalConfirmation, &in.FirstMedicalConfirmation},
		{prefs.KeyLastSelfDiagnose, &in.LastSelfDiagnose},
		{prefs.KeyLastRedContact, &in.LastRedContact},
		{prefs.KeyLastYellowContact, &in.LastYellowContact},
		{prefs.KeyLastSelfMonitoring, &in.LastSelfMonitoring},
	}
	for _, t := range targets {
		v, err := r.store.Time(ctx, t.key)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read "+string(t.key))
		}
		*t.dst = v
	}
	return models.Compute(r.config.Current(), in, now), nil
}

// Current returns the status as of the repository clock, read fresh from the store.
func (r *Repository) Current(ctx context.Context) (models.Status, error) {
	return r.Compute(ctx, r.clock())
}

// CurrentWarningType classifies the current status as RED, YELLOW or GREEN.
func (r *Repository) CurrentWarningType(ctx context.Context) (models.WarningType, error) {
	status, err := r.Current(ctx)
	if err != nil {
		return models.WarningGreen, err
	}
	return models.WarningTypeOf(status), nil
}

// Latest returns the last published status, or nil before the first publication.
func (r *Repository) Latest() models.Status {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.latest
}

// Observe signals every time a new, distinct status is published. Read it with Latest.
func (r *Repository) Observe() (<-chan struct{}, func()) {
	return r.changes.Subscribe()
}

// Run is the single recomputation loop. It publishes the initial status right away,
// then again after coalesced input changes and at every scheduled expiry.
func (r *Repository) Run(ctx context.Context) error {
	prefChanges, stopPrefs := r.store.Watch(sourceKeys...)
	defer stopPrefs()
	configChanges, stopConfig := r.config.Watch()
	defer stopConfig()

	debounce := time.NewTimer(0)
	defer debounce.Stop()
	expiry := time.NewTimer(time.Hour)
	expiry.Stop()
	defer expiry.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-prefChanges:
			debounce.Reset(r.debounce)
		case <-configChanges:
			debounce.Reset(r.debounce)
		case <-debounce.C:
			r.recompute(ctx, expiry)
		case <-expiry.C:
			r.recompute(ctx, expiry)
		}
	}
}

func (r *Repository) recompute(ctx context.Context, expiry *time.Timer) {
	now := r.clock()
	status, err := r.Compute(ctx, now)
	r.metrics.IncrementRecomputation()
	if err != nil {
		r.silent.SilentError(ctx, r.logger, "quarantine.recompute", err)
		return
	}

	expiry.Stop()
	if next := models.NextUpdate(status); next != nil {
		expiry.Reset(next.Sub(now) + time.Millisecond)
	}

	r.mu.Lock()
	prev := r.latest
	if models.Equal(prev, status) {
		r.mu.Unlock()
		return
	}
	r.latest = status
	r.mu.Unlock()

	r.logger.InfoContext(ctx, "quarantine status changed", "from", kindOf(prev), "to", status.Kind())
	r.metrics.IncrementTransition(status.Kind())

	if prev != nil && models.IsJailed(prev) && !models.IsJailed(status) {
		r.metrics.IncrementQuarantineEnd()
		if err := r.store.SetBool(ctx, prefs.KeyShowQuarantineEnd, true); err != nil {
			r.silent.SilentError(ctx, r.logger, "quarantine.show_end", err)
		}
	}
	r.changes.Notify()
}

func kindOf(s models.Status) string {
	if s == nil {
		return "none"
	}
	return s.Kind()
}
