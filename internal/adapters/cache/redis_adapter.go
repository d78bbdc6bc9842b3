package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/medilink-plus/coordination-api/internal/domain/providers"
	redisclient "github.com/medilink-plus/coordination-api/internal/infrastructure/clients/redis"
	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned on cache misses so callers can tell a miss from
// a transport failure.
var ErrNotFound = fmt.Errorf("cache: key not found")

// RedisAdapter backs the CacheProvider interface with Redis. All keys are
// stored as raw bytes; serialization is the caller's business.
type RedisAdapter struct {
	client *redisclient.Client
}

// NewRedisAdapter creates a new Redis cache adapter
func NewRedisAdapter(client *redisclient.Client) providers.CacheProvider {
	return &RedisAdapter{client: client}
}

func (a *RedisAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := a.client.Client().Get(ctx, key).Bytes()
	switch {
	case err == redis.Nil:
		return nil, ErrNotFound
	case err != nil:
		return nil, fmt.Errorf("cache get %s: %w", key, err)
	}
	return data, nil
}

func (a *RedisAdapter) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	ttl := time.Duration(expirationSeconds) * time.Second
	if err := a.client.Client().Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

func (a *RedisAdapter) Delete(ctx context.Context, key string) error {
	if err := a.client.Client().Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("cache delete %s: %w", key, err)
	}
	return nil
}

func (a *RedisAdapter) Exists(ctx context.Context, key string) (bool, error) {
	n, err := a.client.Client().Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("cache exists %s: %w", key, err)
	}
	return n > 0, nil
}
