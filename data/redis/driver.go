// Package redis registers the go-redis cache driver backing the tenant
// lookup cache:
//
//	import _ "github.com/ncobase/cargohold/data/redis"
package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/ncobase/cargohold/data"
	"github.com/ncobase/cargohold/data/config"
	"github.com/redis/go-redis/v9"
)

var errNotClient = errors.New("redis: connection is not a *redis.Client")

type driver struct{}

func (driver) Name() string { return "redis" }

// Connect builds a client from a *config.Redis and checks it answers PING.
func (driver) Connect(ctx context.Context, cfg any) (any, error) {
	c, ok := cfg.(*config.Redis)
	if !ok {
		return nil, fmt.Errorf("redis: want *config.Redis, got %T", cfg)
	}
	if c.Addr == "" {
		return nil, errors.New("redis: data.redis.addr is empty")
	}

	client := redis.NewClient(options(c))
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: ping %s: %w", c.Addr, err)
	}
	return client, nil
}

func options(c *config.Redis) *redis.Options {
	return &redis.Options{
		Addr:         c.Addr,
		Username:     c.Username,
		Password:     c.Password,
		DB:           c.Db,
		DialTimeout:  c.DialTimeout,
		ReadTimeout:  c.ReadTimeout,
		WriteTimeout: c.WriteTimeout,
	}
}

func (driver) Close(conn any) error {
	client, ok := conn.(*redis.Client)
	if !ok {
		return errNotClient
	}
	if err := client.Close(); err != nil && !errors.Is(err, redis.ErrClosed) {
		return fmt.Errorf("redis: close: %w", err)
	}
	return nil
}

func (driver) Ping(ctx context.Context, conn any) error {
	client, ok := conn.(*redis.Client)
	if !ok {
		return errNotClient
	}
	return client.Ping(ctx).Err()
}

func init() {
	data.RegisterCacheDriver(driver{})
}
