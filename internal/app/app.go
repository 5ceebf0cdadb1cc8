// Package app wires the exposure notification core into one process.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"exposure/internal/archive"
	"exposure/internal/configuration"
	dkmetrics "exposure/internal/diagnosiskeys/metrics"
	dkservice "exposure/internal/diagnosiskeys/service"
	dkstore "exposure/internal/diagnosiskeys/store"
	"exposure/internal/framework/simulated"
	"exposure/internal/notify"
	"exposure/internal/platform/config"
	"exposure/internal/platform/httpserver"
	platformmetrics "exposure/internal/platform/metrics"
	platformredis "exposure/internal/platform/redis"
	"exposure/internal/platform/sqlite"
	"exposure/internal/prefs"
	qmetrics "exposure/internal/quarantine/metrics"
	qservice "exposure/internal/quarantine/service"
	regmetrics "exposure/internal/registration/metrics"
	regservice "exposure/internal/registration/service"
	"exposure/internal/scheduler"
	tekservice "exposure/internal/tek/service"
	tekstore "exposure/internal/tek/store"
	httptransport "exposure/internal/transport/http"
	"exposure/internal/worker"
	"exposure/pkg/requestcontext"
)

const shutdownTimeout = 10 * time.Second

// App holds the long-running components of the core.
type App struct {
	cfg    config.Config
	logger *slog.Logger

	registry  *prometheus.Registry
	db        *sql.DB
	redis     *platformredis.Client
	scheduler *scheduler.Scheduler

	device        *simulated.Device
	configuration *configuration.Provider
	quarantine    *qservice.Repository
	registration  *regservice.Machine
	diagnosisKeys *dkservice.Service
	dispatcher    *notify.Dispatcher
	worker        *worker.Worker
	server        *http.Server
}

// New opens the stores and builds every component. ctx bounds the work
// started on behalf of framework broadcasts.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	a := &App{
		cfg:      cfg,
		logger:   logger,
		registry: platformmetrics.NewRegistry(),
	}
	silent := platformmetrics.New(a.registry)

	db, err := sqlite.Open(ctx, cfg.Store.Path)
	if err != nil {
		return nil, err
	}
	a.db = db

	store, err := a.openPreferences(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	var source configuration.Source
	if cfg.RemoteConfig.URL != "" {
		source = configuration.NewHTTPSource(&http.Client{Timeout: cfg.Archive.Timeout}, cfg.RemoteConfig.URL)
	}
	a.configuration = configuration.NewProvider(source,
		configuration.WithCache(store),
		configuration.WithLogger(logger),
	)
	a.configuration.Restore(ctx)

	a.scheduler = scheduler.New(scheduler.WithLogger(logger), scheduler.WithRegisterer(a.registry))
	a.device = simulated.New()

	a.quarantine, err = qservice.New(store, a.configuration,
		qservice.WithLogger(logger),
		qservice.WithMetrics(qmetrics.New(a.registry)),
		qservice.WithSilentErrors(silent),
		qservice.WithDebounce(cfg.Processing.StatusDebounce),
	)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.registration, err = regservice.New(a.device, a.device, a.device, store,
		regservice.WithLogger(logger),
		regservice.WithMetrics(regmetrics.New(a.registry)),
		regservice.WithSilentErrors(silent),
		regservice.WithMinServiceVersion(cfg.Framework.MinServiceVersion),
		regservice.WithPollInterval(cfg.Framework.PollInterval),
	)
	if err != nil {
		a.Close()
		return nil, err
	}

	arch, err := archive.New(cfg.Archive, cfg.Store.CacheDir, archive.WithLogger(logger))
	if err != nil {
		a.Close()
		return nil, err
	}
	a.diagnosisKeys, err = dkservice.New(dkstore.NewSQLite(db), arch, a.device, a.quarantine, a.configuration,
		dkservice.WithLogger(logger),
		dkservice.WithMetrics(dkmetrics.New(a.registry)),
		dkservice.WithSilentErrors(silent),
		dkservice.WithScheduler(a.scheduler),
		dkservice.WithScheduledDelay(cfg.Processing.ScheduledDelay),
		dkservice.WithDownloadConcurrency(cfg.Processing.DownloadConcurrency),
	)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.device.OnSubmitted(func(token string) {
		go a.processBroadcast(ctx, token)
	})

	sentKeys, err := tekservice.New(tekstore.NewSQLite(db), a.configuration, tekservice.WithLogger(logger))
	if err != nil {
		a.Close()
		return nil, err
	}

	a.dispatcher, err = notify.New(a.quarantine, a.scheduler, notify.LogNotifier{Logger: logger},
		notify.WithLogger(logger),
		notify.WithReminderInterval(cfg.Processing.ReminderInterval),
	)
	if err != nil {
		a.Close()
		return nil, err
	}

	workerOpts := []worker.Option{worker.WithLogger(logger), worker.WithCleaner(sentKeys)}
	if source != nil {
		workerOpts = append(workerOpts, worker.WithRefresher(a.configuration))
	}
	a.worker, err = worker.New(a.registration, a.diagnosisKeys, a.scheduler, worker.Intervals{
		Fetch:         cfg.Processing.FetchInterval,
		TEKCleanup:    cfg.Processing.TEKCleanupInterval,
		ConfigRefresh: cfg.RemoteConfig.RefreshInterval,
	}, workerOpts...)
	if err != nil {
		a.Close()
		return nil, err
	}

	handler := httptransport.New(a.registration, a.quarantine, a.diagnosisKeys, sentKeys, logger)
	a.server = httpserver.New(cfg.Server.Addr, httptransport.NewRouter(handler, platformmetrics.Handler(a.registry)),
		httpserver.WithBaseContext(ctx))
	return a, nil
}

// openPreferences picks Redis when configured and the local database otherwise.
func (a *App) openPreferences(ctx context.Context) (*prefs.Preferences, error) {
	client, err := platformredis.New(ctx, a.cfg.Redis)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return prefs.NewSQLite(a.db), nil
	}
	a.redis = client
	a.logger.InfoContext(ctx, "using redis preferences", "device", client.Device)
	return prefs.NewRedis(client.Client, client.Device), nil
}

// Device exposes the simulated framework for local control.
func (a *App) Device() *simulated.Device {
	return a.device
}

// Run starts every component and blocks until ctx is cancelled or one of them
// fails. The HTTP server is shut down gracefully.
func (a *App) Run(ctx context.Context) error {
	if a.cfg.RemoteConfig.URL != "" {
		if err := a.configuration.Refresh(ctx); err != nil {
			a.logger.WarnContext(ctx, "initial configuration refresh failed", "error", err)
		}
	}
	if _, err := a.diagnosisKeys.Resume(ctx); err != nil {
		a.logger.WarnContext(ctx, "failed to resume scheduled processing", "error", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return a.quarantine.Run(gctx) })
	g.Go(func() error { return a.registration.Run(gctx) })
	g.Go(func() error { return a.dispatcher.Run(gctx) })
	g.Go(func() error { return a.worker.Run(gctx) })
	g.Go(func() error {
		a.logger.InfoContext(gctx, "status server listening", "addr", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("status server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), shutdownTimeout)
		defer cancel()
		return a.server.Shutdown(shutdownCtx)
	})

	err := g.Wait()
	a.scheduler.Stop()
	return err
}

// Close releases the stores.
func (a *App) Close() error {
	var errs []error
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	if a.db != nil {
		errs = append(errs, a.db.Close())
	}
	return errors.Join(errs...)
}

func (a *App) processBroadcast(ctx context.Context, token string) {
	ctx = requestcontext.WithTrigger(ctx, requestcontext.TriggerBroadcast)
	if err := a.diagnosisKeys.ProcessKeysBasedOnToken(ctx, token); err != nil {
		a.logger.ErrorContext(ctx, "diagnosis key processing failed", "token", token, "error", err)
	}
}
