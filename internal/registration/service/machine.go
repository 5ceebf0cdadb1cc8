// Package service runs the exposure framework registration state machine.
//
// The machine is a single actor goroutine. Each phase runs its watchers inside a
// scope that is cancelled and drained before the next phase is entered, so only
// one phase can ever request a transition.
package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"exposure/internal/framework"
	platformmetrics "exposure/internal/platform/metrics"
	"exposure/internal/prefs"
	"exposure/internal/registration/metrics"
	"exposure/internal/registration/models"
	dErrors "exposure/pkg/domain-errors"
	"exposure/pkg/platform/sentinel"
	"exposure/pkg/platform/signal"
)

const (
	// DefaultMinServiceVersion is the oldest platform service that ships the framework.
	DefaultMinServiceVersion = 201813000
	DefaultPollInterval      = 5 * time.Second
)

// ErrAlreadyRunning is returned by Run when the machine is already running.
var ErrAlreadyRunning = errors.New("registration machine already running")

// IntentStore persists whether the user wants exposure notifications.
type IntentStore interface {
	Bool(ctx context.Context, key prefs.Key) (bool, error)
	SetBool(ctx context.Context, key prefs.Key, v bool) error
	Watch(keys ...prefs.Key) (<-chan struct{}, func())
}

// Machine reconciles the user's intent with the platform's registration state.
type Machine struct {
	client    framework.Client
	services  framework.ServiceAvailability
	bluetooth framework.Bluetooth
	intent    IntentStore

	logger       *slog.Logger
	metrics      *metrics.Metrics
	silent       *platformmetrics.Metrics
	minVersion   int
	pollInterval time.Duration

	running     atomic.Bool
	requests    chan request
	transitions chan transition
	stopped     chan struct{}
	calls       calls
	frameworkCh signal.Broadcaster

	// owned by the actor goroutine
	runCtx context.Context
	gen    uint64
	scope  *scope

	mu      sync.RWMutex
	phase   models.Phase
	entered atomic.Uint64
	changes signal.Broadcaster
}

type Option func(*Machine)

func WithLogger(logger *slog.Logger) Option {
	return func(m *Machine) {
		m.logger = logger
	}
}

func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *Machine) {
		m.metrics = mt
	}
}

func WithSilentErrors(mt *platformmetrics.Metrics) Option {
	return func(m *Machine) {
		m.silent = mt
	}
}

func WithMinServiceVersion(v int) Option {
	return func(m *Machine) {
		m.minVersion = v
	}
}

// WithPollInterval sets how often the framework registration state is re-read.
func WithPollInterval(d time.Duration) Option {
	return func(m *Machine) {
		m.pollInterval = d
	}
}

// New creates a Machine in WaitingForWantedState. Call Run to start it.
func New(client framework.Client, services framework.ServiceAvailability, bluetooth framework.Bluetooth, intent IntentStore, opts ...Option) (*Machine, error) {
	if client == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "framework client is required")
	}
	if services == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "service availability is required")
	}
	if bluetooth == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "bluetooth is required")
	}
	if intent == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "intent store is required")
	}
	m := &Machine{
		client:       client,
		services:     services,
		bluetooth:    bluetooth,
		intent:       intent,
		logger:       slog.Default(),
		minVersion:   DefaultMinServiceVersion,
		pollInterval: DefaultPollInterval,
		requests:     make(chan request),
		transitions:  make(chan transition),
		stopped:      make(chan struct{}),
		phase:        models.WaitingForWantedState{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Phase returns the current phase.
func (m *Machine) Phase() models.Phase {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.phase
}

// Watch signals every phase change. Read the new phase with Phase.
func (m *Machine) Watch() (<-chan struct{}, func()) {
	return m.changes.Subscribe()
}

// Transitions returns how many phases have been entered since Run started.
func (m *Machine) Transitions() uint64 {
	return m.entered.Load()
}

// SetWanted records the user's intent. The machine reacts through its watchers.
func (m *Machine) SetWanted(ctx context.Context, wanted bool) error {
	if err := m.intent.SetBool(ctx, prefs.KeyExposureFrameworkWanted, wanted); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to store framework intent")
	}
	return nil
}

// Refresh retries from an error phase.
func (m *Machine) Refresh(ctx context.Context) error {
	return m.send(ctx, request{kind: requestRefresh})
}

// ResolutionResult reports the outcome of the user-facing resolution flow.
func (m *Machine) ResolutionResult(ctx context.Context, ok bool) error {
	return m.send(ctx, request{kind: requestResolution, ok: ok})
}

// SystemSettingsURL points at the platform settings for the framework.
func (m *Machine) SystemSettingsURL() string {
	return m.client.SystemSettingsURL()
}

// Run drives the machine until ctx is cancelled.
func (m *Machine) Run(ctx context.Context) error {
	if !m.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer close(m.stopped)
	m.runCtx = ctx

	var pollers sync.WaitGroup
	pollers.Add(1)
	go func() {
		defer pollers.Done()
		m.pollFramework(ctx)
	}()

	m.enter(ctx, models.WaitingForWantedState{})
	for {
		select {
		case <-ctx.Done():
			m.scope.close()
			m.calls.wait()
			pollers.Wait()
			return nil
		case t := <-m.transitions:
			if t.gen != m.gen {
				m.metrics.IncrementStaleTransition()
				continue
			}
			m.enter(ctx, t.next)
		case req := <-m.requests:
			next, err := m.handle(req)
			if err == nil {
				m.enter(ctx, next)
			}
			req.reply <- err
		}
	}
}

func (m *Machine) enter(ctx context.Context, next models.Phase) {
	if m.scope != nil {
		m.scope.close()
	}
	m.gen++

	m.mu.Lock()
	prev := m.phase
	m.phase = next
	m.mu.Unlock()
	m.entered.Add(1)

	from := ""
	if prev != nil && m.gen > 1 {
		from = prev.Name()
	}
	m.metrics.ObserveTransition(from, next.Name())
	m.logger.InfoContext(ctx, "registration phase changed", "from", from, "to", next.Name())
	m.changes.Notify()

	m.scope = newScope(ctx, m.gen, m.transitions, m.metrics)
	m.onEnter(m.scope, next)
}

func (m *Machine) pollFramework(ctx context.Context) {
	var pushed <-chan struct{}
	if w, ok := m.client.(framework.StateWatcher); ok {
		ch, cancel := w.WatchState()
		defer cancel()
		pushed = ch
	}
	ticker := time.NewTicker(m.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-pushed:
		case <-ticker.C:
		}
		m.frameworkCh.Notify()
	}
}

type requestKind int

const (
	requestRefresh requestKind = iota
	requestResolution
)

type request struct {
	kind  requestKind
	ok    bool
	reply chan error
}

func (m *Machine) send(ctx context.Context, req request) error {
	req.reply = make(chan error, 1)
	select {
	case m.requests <- req:
	case <-m.stopped:
		return dErrors.Wrap(sentinel.ErrUnavailable, dErrors.CodeUnavailable, "registration machine stopped")
	case <-ctx.Done():
		return ctx.Err()
	}
	return <-req.reply
}

func (m *Machine) handle(req request) (models.Phase, error) {
	current := m.Phase()
	switch req.kind {
	case requestRefresh:
		switch p := current.(type) {
		case models.PrerequisitesError:
			return models.CheckPrerequisites{}, nil
		case models.CriticalFrameworkError:
			return models.RegisterToFramework{Register: p.Register}, nil
		case models.ResolutionRequired:
			return models.RegisterToFramework{Register: p.Register}, nil
		case models.ResolutionDeclined:
			return models.RegisterToFramework{Register: p.Register}, nil
		}
	case requestResolution:
		if p, ok := current.(models.ResolutionRequired); ok {
			if req.ok {
				return models.RegisterToFramework{Register: p.Register}, nil
			}
			return models.ResolutionDeclined{Register: p.Register}, nil
		}
	}
	return nil, dErrors.Wrap(sentinel.ErrInvalidState, dErrors.CodeConflict, "request does not apply to phase "+current.Name())
}
