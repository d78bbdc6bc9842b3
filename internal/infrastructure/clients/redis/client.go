package redis

import (
	"context"
	"fmt"

	"github.com/medilink-plus/coordination-api/pkg/config"
	"github.com/medilink-plus/coordination-api/pkg/retry"
	"github.com/redis/go-redis/v9"
)

// Client wraps the shared go-redis connection used by the cache adapter,
// the response cache middleware, and the event bus.
type Client struct {
	client *redis.Client
}

// NewClient dials Redis and verifies the connection with a few retries.
// Redis is optional infrastructure, so the retry budget is short.
func NewClient(cfg *config.RedisConfig) (*Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	retryCfg := retry.DefaultConfig()
	retryCfg.MaxAttempts = 5

	ping := func() error {
		return client.Ping(context.Background()).Err()
	}
	if err := retry.Do(context.Background(), retryCfg, ping); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	return &Client{client: client}, nil
}

// Client exposes the raw go-redis handle.
func (c *Client) Client() *redis.Client {
	return c.client
}

func (c *Client) Close() error {
	return c.client.Close()
}

func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
