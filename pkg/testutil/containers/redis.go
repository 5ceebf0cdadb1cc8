//go:build integration

// Package containers starts throwaway backing services for integration tests.
package containers

import (
	"context"
	"testing"
	"time"

	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"

	"exposure/internal/platform/config"
	platformredis "exposure/internal/platform/redis"
)

// RedisContainer is a disposable Redis reachable at URL.
type RedisContainer struct {
	Container *tcredis.RedisContainer
	URL       string
}

// NewRedisContainer starts redis:7-alpine and fails the test if it cannot.
func NewRedisContainer(t *testing.T) *RedisContainer {
	t.Helper()
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	if err != nil {
		t.Fatalf("failed to start redis container: %v", err)
	}
	url, err := container.ConnectionString(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to get redis connection string: %v", err)
	}
	return &RedisContainer{Container: container, URL: url}
}

// Connect opens a platform client scoped to device. The client is closed when
// the test finishes.
func (r *RedisContainer) Connect(t *testing.T, device string) *platformredis.Client {
	t.Helper()
	client, err := platformredis.New(context.Background(), config.RedisConfig{
		URL:          r.URL,
		Device:       device,
		PoolSize:     2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	if err != nil {
		t.Fatalf("failed to connect to redis: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

// Terminate stops the container.
func (r *RedisContainer) Terminate(ctx context.Context) {
	_ = r.Container.Terminate(ctx)
}
