package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wonny/investo/pkg/config"
)

// Client wraps the Redis client.
// A disabled client is valid: every caller degrades to in-process behaviour.
// ⭐ SSOT: the Redis connection is managed here only
type Client struct {
	rdb     *redis.Client
	enabled bool
}

// New creates a Redis client, pinging the server when enabled
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	if !cfg.Redis.Enabled {
		return Disabled(), nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:        fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
		Password:    cfg.Redis.Password,
		DB:          cfg.Redis.DB,
		DialTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return &Client{rdb: rdb, enabled: true}, nil
}

// Disabled returns a client that never talks to a server
func Disabled() *Client {
	return &Client{}
}

// Close closes the Redis connection
func (c *Client) Close() error {
	if c.rdb != nil {
		return c.rdb.Close()
	}
	return nil
}

// Enabled returns whether Redis is enabled
func (c *Client) Enabled() bool {
	return c != nil && c.enabled
}

// Redis returns the underlying redis client for advanced usage
func (c *Client) Redis() *redis.Client {
	return c.rdb
}
