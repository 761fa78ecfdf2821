// Package redis owns the go-redis client used by the pet read cache. The
// cache is optional: an empty URL means the service runs without it.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"homeward/internal/platform/config"
)

// Client wraps go-redis so callers get a health check alongside the raw
// command interface.
type Client struct {
	*redis.Client
}

// New dials redis from config and verifies the connection with a ping.
// Returns (nil, nil) when no URL is configured.
func New(cfg config.RedisConfig) (*Client, error) {
	if cfg.URL == "" {
		return nil, nil
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
	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &Client{Client: client}, nil
}

// Health reports whether redis is reachable. Wired into /healthz.
func (c *Client) Health(ctx context.Context) error {
	return c.Ping(ctx).Err()
}

func (c *Client) Close() error {
	return c.Client.Close()
}
