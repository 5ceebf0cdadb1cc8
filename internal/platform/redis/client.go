// Package redis connects the optional shared preference backend.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"exposure/internal/platform/config"
	dErrors "exposure/pkg/domain-errors"
)

// Client is a connected go-redis client bound to one device namespace.
type Client struct {
	*redis.Client
	Device string
}

// New connects to cfg.URL and verifies the connection. It returns nil without
// error when no URL is configured.
func New(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	if cfg.URL == "" {
		return nil, nil
	}
	if cfg.Device == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "redis device namespace is required")
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns
	opts.DialTimeout = cfg.DialTimeout
	opts.ReadTimeout = cfg.ReadTimeout
	opts.WriteTimeout = cfg.WriteTimeout

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return &Client{Client: client, Device: cfg.Device}, nil
}

// Health reports whether the preference backend is reachable.
func (c *Client) Health(ctx context.Context) error {
	if err := c.Ping(ctx).Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "redis unavailable")
	}
	return nil
}

func (c *Client) Close() error {
	return c.Client.Close()
}
