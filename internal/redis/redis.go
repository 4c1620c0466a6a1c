// Package redis holds the shared client plus the key scheme and the
// code-request rate limiter built on it. One client serves sessions, the
// read-through cache and the limiter.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config mirrors the REDIS_* environment block. An empty Addr never reaches
// this package; the app falls back to the in-memory store instead.
type Config struct {
	Addr     string
	Password string
	DB       int
}

const pingTimeout = 3 * time.Second

func New(ctx context.Context, cfg Config) (*redis.Client, error) {
	const op = "redis.New"

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return client, nil
}
