// Package service records sent key metadata and expires it once the keys can
// no longer be revoked or upgraded.
package service

import (
	"context"
	"log/slog"
	"time"

	"exposure/internal/configuration"
	"exposure/internal/tek/models"
	dErrors "exposure/pkg/domain-errors"
)

// RevokeRetention is how long keys sent with a revoke message are kept.
const RevokeRetention = 24 * time.Hour

// Store persists sent key metadata.
type Store interface {
	Add(ctx context.Context, keys ...models.SentKey) error
	ListByMessageType(ctx context.Context, mt models.MessageType) ([]models.SentKey, error)
	RemoveOlderThan(ctx context.Context, mt models.MessageType, interval int64) (int64, error)
}

// ConfigProvider supplies the quarantine durations the retention depends on.
type ConfigProvider interface {
	Current() configuration.Configuration
}

// Cleaner owns sent key metadata.
type Cleaner struct {
	store  Store
	config ConfigProvider
	logger *slog.Logger
	now    func() time.Time
}

type Option func(*Cleaner)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Cleaner) {
		c.logger = logger
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Cleaner) {
		c.now = now
	}
}

func New(store Store, config ConfigProvider, opts ...Option) (*Cleaner, error) {
	if store == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "sent key store is required")
	}
	if config == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "configuration provider is required")
	}
	c := &Cleaner{
		store:  store,
		config: config,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Record stores keys sent with mt.
func (c *Cleaner) Record(ctx context.Context, mt models.MessageType, keys []models.SentKey) error {
	now := c.now().UTC()
	for i := range keys {
		keys[i].MessageType = mt
		if keys[i].CreatedAt.IsZero() {
			keys[i].CreatedAt = now
		}
	}
	if err := c.store.Add(ctx, keys...); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to store sent keys")
	}
	return nil
}

// List returns the keys sent with mt.
func (c *Cleaner) List(ctx context.Context, mt models.MessageType) ([]models.SentKey, error) {
	keys, err := c.store.ListByMessageType(ctx, mt)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list sent keys")
	}
	return keys, nil
}

// Retention returns how long keys of mt are kept under cfg.
func Retention(cfg configuration.Configuration, mt models.MessageType) time.Duration {
	upload := cfg.UploadKeysWindow()
	switch mt {
	case models.MessageInfection:
		return upload + cfg.RedWarningQuarantine()
	case models.MessageSuspicion:
		return upload + max(cfg.YellowWarningQuarantine(), cfg.SelfDiagnosedQuarantine())
	default:
		return RevokeRetention
	}
}

// Cleanup removes every key whose interval started before its retention window.
func (c *Cleaner) Cleanup(ctx context.Context) (int64, error) {
	cfg := c.config.Current()
	now := c.now()
	var total int64
	for _, mt := range []models.MessageType{models.MessageInfection, models.MessageSuspicion, models.MessageRevoke} {
		cutoff := models.IntervalNumber(now.Add(-Retention(cfg, mt)))
		n, err := c.store.RemoveOlderThan(ctx, mt, cutoff)
		if err != nil {
			return total, dErrors.Wrap(err, dErrors.CodeInternal, "failed to remove expired sent keys")
		}
		total += n
	}
	if total > 0 {
		c.logger.InfoContext(ctx, "removed expired sent keys", "count", total)
	}
	return total, nil
}
