// Package service downloads published diagnosis keys, submits them to the
// exposure framework and turns the matching results into quarantine warnings.
package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"exposure/internal/archive"
	"exposure/internal/diagnosiskeys/metrics"
	"exposure/internal/diagnosiskeys/models"
	platformmetrics "exposure/internal/platform/metrics"
	quarantine "exposure/internal/quarantine/models"
	dErrors "exposure/pkg/domain-errors"
	"exposure/pkg/requestcontext"
)

const (
	// DefaultScheduledDelay is how long a submission may stay unanswered before
	// its results are processed anyway.
	DefaultScheduledDelay      = 5 * time.Minute
	DefaultDownloadConcurrency = 4

	jobPrefix = "diagnosis-keys-processing:"
)

// ErrFetchInProgress is reported when a fetch is requested while one is running.
var ErrFetchInProgress = errors.New("diagnosis key fetch already in progress")

// FetchState describes the most recent fetch.
type FetchState struct {
	Loading      bool      `json:"loading"`
	LastStarted  time.Time `json:"last_started,omitempty"`
	LastFinished time.Time `json:"last_finished,omitempty"`
	LastToken    string    `json:"last_token,omitempty"`
	LastError    string    `json:"last_error,omitempty"`
}

// Service owns the diagnosis-key pipeline.
type Service struct {
	store      SessionStore
	archive    Archive
	matcher    Matcher
	quarantine Quarantine
	config     ConfigProvider
	scheduler  Scheduler

	logger              *slog.Logger
	metrics             *metrics.Metrics
	silent              *platformmetrics.Metrics
	tracer              trace.Tracer
	now                 func() time.Time
	scheduledDelay      time.Duration
	downloadConcurrency int

	loading    atomic.Bool
	processing sync.Map

	mu    sync.RWMutex
	state FetchState
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithSilentErrors(m *platformmetrics.Metrics) Option {
	return func(s *Service) {
		s.silent = m
	}
}

// WithScheduler enables the timeout continuation for unanswered submissions.
func WithScheduler(sch Scheduler) Option {
	return func(s *Service) {
		s.scheduler = sch
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func WithScheduledDelay(d time.Duration) Option {
	return func(s *Service) {
		s.scheduledDelay = d
	}
}

func WithDownloadConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.downloadConcurrency = n
		}
	}
}

// New creates the diagnosis-key service.
func New(store SessionStore, arch Archive, matcher Matcher, q Quarantine, config ConfigProvider, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "session store is required")
	}
	if arch == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "archive is required")
	}
	if matcher == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "matcher is required")
	}
	if q == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "quarantine repository is required")
	}
	if config == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "configuration provider is required")
	}
	s := &Service{
		store:               store,
		archive:             arch,
		matcher:             matcher,
		quarantine:          q,
		config:              config,
		logger:              slog.Default(),
		tracer:              otel.Tracer("exposure/diagnosiskeys"),
		now:                 time.Now,
		scheduledDelay:      DefaultScheduledDelay,
		downloadConcurrency: DefaultDownloadConcurrency,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// FetchState returns a snapshot of the most recent fetch.
func (s *Service) FetchState() FetchState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Sessions lists the sessions still awaiting results.
func (s *Service) Sessions(ctx context.Context) ([]*models.Session, error) {
	sessions, err := s.store.ListSessions(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list sessions")
	}
	return sessions, nil
}

// Fetch downloads the current archives and submits the full batch for
// matching. It reports false when the fetch failed or another fetch was
// already running.
func (s *Service) Fetch(ctx context.Context) bool {
	if !s.loading.CompareAndSwap(false, true) {
		s.metrics.IncrementFetchRejected()
		s.silent.SilentError(ctx, s.logger, "diagnosis_keys.fetch", ErrFetchInProgress)
		return false
	}
	defer s.loading.Store(false)

	trigger := requestcontext.Trigger(ctx)
	ctx, span := s.tracer.Start(ctx, "diagnosiskeys.Fetch", trace.WithAttributes(attribute.String("trigger", trigger)))
	defer span.End()

	start := s.now()
	s.mu.Lock()
	s.state.Loading = true
	s.state.LastStarted = start
	s.mu.Unlock()

	token, err := s.fetch(ctx)

	s.mu.Lock()
	s.state.Loading = false
	s.state.LastFinished = s.now()
	s.state.LastError = ""
	if err != nil {
		s.state.LastError = err.Error()
	} else {
		s.state.LastToken = token
	}
	s.mu.Unlock()

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		s.metrics.ObserveFetch("error", trigger, start)
		s.logger.ErrorContext(ctx, "diagnosis key fetch failed", "trigger", trigger, "error", err)
		return false
	}
	span.SetAttributes(attribute.String("token", token))
	s.metrics.ObserveFetch("success", trigger, start)
	s.logger.InfoContext(ctx, "diagnosis keys submitted", "token", token, "trigger", trigger)
	return true
}

func (s *Service) fetch(ctx context.Context) (string, error) {
	warning, err := s.quarantine.CurrentWarningType(ctx)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to read warning type")
	}
	index, err := s.archive.Index(ctx)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to download archive index")
	}
	full := index.Full7Days
	if warning != quarantine.WarningGreen {
		full = index.Full14Days
	}

	fullParts, err := s.download(ctx, []archive.Batch{full}, true)
	if err != nil {
		return "", err
	}
	dailyParts, err := s.download(ctx, index.DailyBatches, false)
	if err != nil {
		s.removeFiles(ctx, models.FileNames(fullParts))
		return "", err
	}

	session := &models.Session{
		Token:             uuid.NewString(),
		WarningType:       warning,
		ProcessingPhase:   models.PhaseFullBatch,
		FullBatchParts:    fullParts,
		DailyBatchesParts: dailyParts,
		CreatedAt:         s.now().UTC(),
	}
	if err := s.store.InsertSession(ctx, session); err != nil {
		s.removeFiles(ctx, session.AllFiles())
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to store session")
	}
	if err := s.StartDiagnosisKeyMatching(ctx, session.Token, models.FileNames(fullParts)); err != nil {
		if dErrors.HasCode(err, dErrors.CodeUnavailable) {
			s.discard(ctx, session)
		}
		return "", err
	}
	return session.Token, nil
}

// discard drops a session the framework never accepted, with its files.
func (s *Service) discard(ctx context.Context, session *models.Session) {
	if err := s.store.DeleteSession(ctx, session.Token); err != nil {
		s.silent.SilentError(ctx, s.logger, "diagnosis_keys.discard", err, "token", session.Token)
	}
	s.removeFiles(ctx, session.AllFiles())
}

// download fetches every file of batches concurrently. Full batches share batch
// number 0; daily batches are numbered by their position in the index.
func (s *Service) download(ctx context.Context, batches []archive.Batch, full bool) ([]models.BatchPart, error) {
	var parts []models.BatchPart
	for i, b := range batches {
		number := i
		if full {
			number = 0
		}
		for _, p := range b.FilePaths {
			parts = append(parts, models.BatchPart{BatchNumber: number, IntervalStart: b.Interval, FileName: p})
		}
	}

	local := make([]string, len(parts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.downloadConcurrency)
	for i := range parts {
		g.Go(func() error {
			path, err := s.archive.Download(gctx, parts[i].FileName)
			if err != nil {
				return err
			}
			local[i] = path
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		var done []string
		for _, l := range local {
			if l != "" {
				done = append(done, l)
			}
		}
		s.removeFiles(ctx, done)
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to download diagnosis keys")
	}
	for i := range parts {
		parts[i].FileName = local[i]
	}
	s.metrics.AddFilesDownloaded(len(parts))
	return parts, nil
}

// StartDiagnosisKeyMatching submits files under token. When the framework does
// not finish synchronously and timeout processing is enabled, a marker is stored
// and the results are processed after the scheduled delay.
func (s *Service) StartDiagnosisKeyMatching(ctx context.Context, token string, files []string) error {
	ctx, span := s.tracer.Start(ctx, "diagnosiskeys.StartMatching",
		trace.WithAttributes(attribute.String("token", token), attribute.Int("files", len(files))))
	defer span.End()

	finished, err := s.matcher.SubmitBatch(ctx, files, token)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "submit failed")
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to submit diagnosis keys")
	}
	if finished || s.scheduler == nil || !s.config.Current().ScheduledProcessingIn5Min {
		return nil
	}
	if err := s.store.InsertScheduledSession(ctx, token, s.now().UTC()); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to store scheduled session")
	}
	s.scheduleProcessing(ctx, token)
	return nil
}

// Resume re-arms the timeout continuation for sessions whose marker survived a
// restart. It returns the number of sessions scheduled.
func (s *Service) Resume(ctx context.Context) (int, error) {
	if s.scheduler == nil {
		return 0, nil
	}
	sessions, err := s.store.ListSessions(ctx)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list sessions")
	}
	resumed := 0
	for _, session := range sessions {
		exists, err := s.store.ScheduledSessionExists(ctx, session.Token)
		if err != nil {
			return resumed, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read scheduled session")
		}
		if !exists {
			continue
		}
		s.scheduleProcessing(ctx, session.Token)
		resumed++
	}
	if resumed > 0 {
		s.logger.InfoContext(ctx, "resumed scheduled diagnosis key processing", "sessions", resumed)
	}
	return resumed, nil
}

func (s *Service) scheduleProcessing(ctx context.Context, token string) {
	s.scheduler.ScheduleOnce(jobPrefix+token, s.scheduledDelay, func(ctx context.Context) {
		if err := s.ProcessKeysBasedOnToken(ctx, token); err != nil {
			s.logger.ErrorContext(ctx, "scheduled diagnosis key processing failed", "token", token, "error", err)
		}
	})
	s.logger.DebugContext(ctx, "scheduled diagnosis key processing", "token", token, "delay", s.scheduledDelay)
}

func (s *Service) removeFiles(ctx context.Context, files []string) {
	if len(files) == 0 {
		return
	}
	if err := s.archive.Remove(files); err != nil {
		s.silent.SilentError(ctx, s.logger, "diagnosis_keys.remove_files", err, "files", len(files))
	}
}
