package configuration

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"exposure/internal/prefs"
	"exposure/pkg/platform/signal"
)

// Source fetches the remote configuration document.
type Source interface {
	Fetch(ctx context.Context) (Configuration, error)
}

// Cache persists the last good configuration across restarts.
type Cache interface {
	String(ctx context.Context, key prefs.Key) (string, bool, error)
	SetString(ctx context.Context, key prefs.Key, v string) error
}

// Provider serves the current configuration and refreshes it from a Source.
type Provider struct {
	source Source
	cache  Cache
	logger *slog.Logger

	mu      sync.RWMutex
	current Configuration
	changes signal.Broadcaster
}

// Option configures a Provider.
type Option func(*Provider)

// WithCache restores and persists the configuration through c.
func WithCache(c Cache) Option {
	return func(p *Provider) {
		p.cache = c
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Provider) {
		p.logger = logger
	}
}

// NewProvider creates a Provider serving defaults until the first refresh.
// A nil source makes the provider static.
func NewProvider(source Source, opts ...Option) *Provider {
	p := &Provider{
		source:  source,
		logger:  slog.Default(),
		current: Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Restore loads the cached configuration, if any. A corrupt cache is logged and ignored.
func (p *Provider) Restore(ctx context.Context) {
	if p.cache == nil {
		return
	}
	raw, ok, err := p.cache.String(ctx, prefs.KeyConfiguration)
	if err != nil || !ok {
		if err != nil {
			p.logger.WarnContext(ctx, "failed to read cached configuration", "error", err)
		}
		return
	}
	cfg, err := Decode([]byte(raw))
	if err != nil {
		p.logger.WarnContext(ctx, "ignoring corrupt cached configuration", "error", err)
		return
	}
	p.apply(cfg)
}

// Current returns the configuration in effect. It never fails.
func (p *Provider) Current() Configuration {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current
}

// Watch signals every time the configuration in effect changes.
func (p *Provider) Watch() (<-chan struct{}, func()) {
	return p.changes.Subscribe()
}

// Set replaces the configuration in effect, as if fetched remotely.
func (p *Provider) Set(ctx context.Context, cfg Configuration) {
	cfg = cfg.WithDefaults()
	if p.apply(cfg) {
		p.persist(ctx, cfg)
	}
}

// Refresh fetches the remote document once. On failure the cached value stays in effect.
func (p *Provider) Refresh(ctx context.Context) error {
	if p.source == nil {
		return nil
	}
	cfg, err := p.source.Fetch(ctx)
	if err != nil {
		return err
	}
	p.Set(ctx, cfg)
	return nil
}

// Run refreshes on every tick until ctx is cancelled.
func (p *Provider) Run(ctx context.Context, interval time.Duration) {
	if p.source == nil || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	p.refreshLogged(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.refreshLogged(ctx)
		}
	}
}

func (p *Provider) refreshLogged(ctx context.Context) {
	if err := p.Refresh(ctx); err != nil && !errors.Is(err, context.Canceled) {
		p.logger.WarnContext(ctx, "configuration refresh failed", "error", err)
	}
}

func (p *Provider) apply(cfg Configuration) bool {
	p.mu.Lock()
	changed := p.current != cfg
	p.current = cfg
	p.mu.Unlock()

	if changed {
		p.changes.Notify()
	}
	return changed
}

func (p *Provider) persist(ctx context.Context, cfg Configuration) {
	if p.cache == nil {
		return
	}
	raw, err := json.Marshal(cfg)
	if err != nil {
		return
	}
	if err := p.cache.SetString(ctx, prefs.KeyConfiguration, string(raw)); err != nil {
		p.logger.WarnContext(ctx, "failed to cache configuration", "error", err)
	}
}
