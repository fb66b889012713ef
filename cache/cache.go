// Package cache is a small typed JSON cache over redis. A nil client turns
// every operation into a miss or a no-op, so callers need no branching when
// redis is not configured.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned by Get when the key holds nothing.
var ErrMiss = errors.New("cache miss")

// ICache defines a general caching interface
type ICache[T any] interface {
	Get(context.Context, string) (*T, error)
	Set(context.Context, string, *T) error
	Delete(context.Context, string) error
}

// Cache implements ICache with values stored under "<prefix>:<key>".
type Cache[T any] struct {
	rc     redis.Cmdable
	prefix string
	ttl    time.Duration
}

// NewCache creates a new Cache instance. rc may be nil.
func NewCache[T any](rc *redis.Client, prefix string, ttl time.Duration) *Cache[T] {
	c := &Cache[T]{prefix: prefix, ttl: ttl}
	if rc != nil {
		c.rc = rc
	}
	return c
}

// Enabled reports whether a redis client backs the cache.
func (c *Cache[T]) Enabled() bool { return c.rc != nil }

// Key returns the redis key for field.
func (c *Cache[T]) Key(field string) string {
	if c.prefix == "" {
		return field
	}
	return c.prefix + ":" + field
}

// Get retrieves a single item from cache
func (c *Cache[T]) Get(ctx context.Context, field string) (*T, error) {
	if c.rc == nil {
		return nil, ErrMiss
	}

	result, err := c.rc.Get(ctx, c.Key(field)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrMiss
		}
		return nil, fmt.Errorf("failed to get cache: %w", err)
	}

	var row T
	if err = json.Unmarshal(result, &row); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cache data: %w", err)
	}
	return &row, nil
}

// Set saves a single item into cache
func (c *Cache[T]) Set(ctx context.Context, field string, data *T) error {
	if c.rc == nil {
		return nil
	}

	bytes, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}

	if err := c.rc.Set(ctx, c.Key(field), bytes, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

// Delete removes data from cache
func (c *Cache[T]) Delete(ctx context.Context, field string) error {
	if c.rc == nil {
		return nil
	}

	if err := c.rc.Del(ctx, c.Key(field)).Err(); err != nil {
		return fmt.Errorf("failed to delete cache: %w", err)
	}
	return nil
}
