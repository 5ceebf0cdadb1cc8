// Package scheduler runs named background jobs: one-shot jobs after a delay and
// periodic jobs on an interval. Scheduling under an existing name replaces the job.
package scheduler

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"exposure/pkg/requestcontext"
)

// Job is the work a scheduled entry performs.
type Job func(ctx context.Context)

type entry struct {
	id       uint64
	periodic bool
	interval time.Duration
	stop     func() bool
	running  atomic.Bool
}

// Scheduler is an in-process work scheduler. The zero value is not usable; use New.
type Scheduler struct {
	ctx    context.Context
	cancel context.CancelFunc
	logger *slog.Logger
	runs   *prometheus.CounterVec

	mu     sync.Mutex
	nextID uint64
	jobs   map[string]*entry
	wg     sync.WaitGroup
}

type Option func(*Scheduler)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Scheduler) {
		s.logger = logger
	}
}

// WithRegisterer registers a job run counter on reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(s *Scheduler) {
		s.runs = promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "exposure_scheduler_job_runs_total",
			Help: "Scheduled job executions by job kind",
		}, []string{"kind"})
	}
}

func New(opts ...Option) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		ctx:    ctx,
		cancel: cancel,
		logger: slog.Default(),
		jobs:   make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ScheduleOnce runs job once after delay, replacing any job under name.
func (s *Scheduler) ScheduleOnce(name string, delay time.Duration, job Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctx.Err() != nil {
		return
	}
	s.cancelLocked(name)

	e := s.newEntryLocked()
	timer := time.AfterFunc(delay, func() {
		s.mu.Lock()
		current, ok := s.jobs[name]
		if !ok || current.id != e.id {
			s.mu.Unlock()
			return
		}
		delete(s.jobs, name)
		s.wg.Add(1)
		s.mu.Unlock()

		defer s.wg.Done()
		s.run(name, requestcontext.TriggerTimeout, job)
	})
	e.stop = timer.Stop
	s.jobs[name] = e
}

// SchedulePeriodic runs job every interval, replacing any job under name.
func (s *Scheduler) SchedulePeriodic(name string, interval time.Duration, job Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.schedulePeriodicLocked(name, interval, job)
}

// EnsurePeriodic schedules job unless a periodic job with the same name and
// interval already exists. It reports whether a job was scheduled.
func (s *Scheduler) EnsurePeriodic(name string, interval time.Duration, job Job) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.jobs[name]; ok && e.periodic && e.interval == interval {
		return false
	}
	return s.schedulePeriodicLocked(name, interval, job)
}

func (s *Scheduler) schedulePeriodicLocked(name string, interval time.Duration, job Job) bool {
	if s.ctx.Err() != nil || interval <= 0 {
		return false
	}
	s.cancelLocked(name)

	e := s.newEntryLocked()
	e.periodic = true
	e.interval = interval

	ctx, cancel := context.WithCancel(s.ctx)
	e.stop = func() bool {
		cancel()
		return true
	}
	s.jobs[name] = e

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				// a slow run swallows the ticks that fire while it works
				if !e.running.CompareAndSwap(false, true) {
					continue
				}
				s.run(name, requestcontext.TriggerPeriodic, job)
				e.running.Store(false)
			}
		}
	}()
	return true
}

// Cancel removes the job under name. It reports whether one existed.
func (s *Scheduler) Cancel(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelLocked(name)
}

// Pending lists scheduled job names in order.
func (s *Scheduler) Pending() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether a job is scheduled under name.
func (s *Scheduler) Has(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.jobs[name]
	return ok
}

// Stop cancels every job and waits for running ones to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	for name := range s.jobs {
		s.cancelLocked(name)
	}
	s.cancel()
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *Scheduler) newEntryLocked() *entry {
	s.nextID++
	return &entry{id: s.nextID}
}

func (s *Scheduler) cancelLocked(name string) bool {
	e, ok := s.jobs[name]
	if !ok {
		return false
	}
	e.stop()
	delete(s.jobs, name)
	return true
}

func (s *Scheduler) run(name, trigger string, job Job) {
	if s.runs != nil {
		s.runs.WithLabelValues(kind(name)).Inc()
	}
	ctx := requestcontext.WithTrigger(s.ctx, trigger)
	defer func() {
		if r := recover(); r != nil {
			s.logger.ErrorContext(ctx, "scheduled job panicked", "job", name, "panic", r)
		}
	}()
	job(ctx)
}

// kind strips the per-instance suffix after ':' from a job name.
func kind(name string) string {
	if i := strings.IndexByte(name, ':'); i >= 0 {
		return name[:i]
	}
	return name
}
