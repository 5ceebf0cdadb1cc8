package prefs

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "prefs:"

type redisBackend struct {
	client *redis.Client
	prefix string
}

// NewRedis returns preferences stored as plain Redis strings under
// "prefs:<device>:<key>". Keys never expire.
func NewRedis(client *redis.Client, device string) *Preferences {
	return newPreferences(&redisBackend{client: client, prefix: redisKeyPrefix + device + ":"})
}

func (b *redisBackend) load(ctx context.Context, key Key) (string, bool, error) {
	v, err := b.client.Get(ctx, b.prefix+string(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (b *redisBackend) save(ctx context.Context, key Key, value string) error {
	return b.client.Set(ctx, b.prefix+string(key), value, 0).Err()
}

func (b *redisBackend) remove(ctx context.Context, key Key) error {
	return b.client.Del(ctx, b.prefix+string(key)).Err()
}
