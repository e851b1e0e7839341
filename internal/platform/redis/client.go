// Package redis connects the optional recency-marker backend. The rest
// of the application treats a nil *Client as "Redis not configured" and
// runs against the event store alone.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"dynaform/internal/platform/config"
)

// Client embeds the go-redis client so callers use its command surface
// directly; only construction and health checking live here.
type Client struct {
	*redis.Client
}

// New builds a client from cfg and verifies connectivity before handing
// it out. An empty URL returns nil, nil so callers can feature-gate on
// the result.
func New(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
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

	c := &Client{Client: redis.NewClient(opts)}
	if err := c.Health(ctx); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("redis unreachable: %w", err)
	}
	return c, nil
}

// Health reports whether the connection still answers.
func (c *Client) Health(ctx context.Context) error {
	return c.Ping(ctx).Err()
}
