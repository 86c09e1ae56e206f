// Package redis wraps the go-redis client with the connection policy used by
// the collector: TLS transport, bounded timeouts, ping at connect time.
package redis

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/Prajwalb0208/Newsletter-automation/internal/config"
)

// Client is a wrapper around the go-redis client.
type Client struct {
	*redis.Client
}

// NewClient creates and tests a new Redis client. An unreachable store is a
// startup failure, so the ping error is returned to the caller to abort on.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	timeout := time.Duration(cfg.Timeout) * time.Second

	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		TLSConfig:    &tls.Config{MinVersion: tls.VersionTLS12},
		DialTimeout:  timeout,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	})

	// Ping the server to ensure connection is alive.
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to redis at %s: %w", cfg.Addr(), err)
	}

	return &Client{rdb}, nil
}
