package store

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"
)

// Cache is a short-TTL read-through over a Store. Concurrent lookups of the
// same key collapse into one upstream fetch.
type Cache struct {
	store Store
	sf    singleflight.Group
}

func NewCache(store Store) *Cache {
	return &Cache{store: store}
}

// Through returns the cached value for key, or runs fetch once, caches the
// result for ttl and returns it. Cache errors are swallowed: a broken cache
// degrades to fetching upstream every time.
func Through[T any](ctx context.Context, c *Cache, key string, ttl time.Duration, fetch func(context.Context) (T, error)) (T, error) {
	if v, ok, err := GetJSON[T](ctx, c.store, key); err == nil && ok {
		return v, nil
	}

	res, err, _ := c.sf.Do(key, func() (any, error) {
		v, err := fetch(ctx)
		if err != nil {
			return v, err
		}
		_ = SetJSON(ctx, c.store, key, v, ttl)
		return v, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return res.(T), nil
}

// Invalidate drops keys so the next read goes upstream.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) error {
	return c.store.Del(ctx, keys...)
}
