package store

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis backs sessions and caches when the front-end runs in more than one
// replica.
type Redis struct {
	rdb *redis.Client
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{rdb: client}
}

func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	s, err := r.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return s, true, nil
}

func (r *Redis) Set(ctx context.Context, key, val string, ttl time.Duration) error {
	return r.rdb.Set(ctx, key, val, ttl).Err()
}

func (r *Redis) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.rdb.Del(ctx, keys...).Err()
}
