package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisOptions configures a Redis backend. URL, when set, takes precedence
// over Addr, Password and DB.
type RedisOptions struct {
	URL      string
	Addr     string
	Password string
	DB       int
	// Prefix is prepended to every key.
	Prefix string
}

// RedisCache stores entries as plain Redis strings with native expiry.
type RedisCache struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisCache connects to Redis and verifies the connection with PING,
// retrying transient dial failures.
func NewRedisCache(ctx context.Context, opts RedisOptions) (*RedisCache, error) {
	ro := &redis.Options{Addr: opts.Addr, Password: opts.Password, DB: opts.DB}
	if opts.URL != "" {
		parsed, err := redis.ParseURL(opts.URL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		ro = parsed
	}
	if ro.Addr == "" {
		ro.Addr = "localhost:6379"
	}

	c := NewRedisCacheFromClient(redis.NewClient(ro), opts.Prefix)
	err := RetryWithBackoff(ctx, func() error {
		return transient(c.client.Ping(ctx).Err())
	})
	if err != nil {
		c.client.Close()
		return nil, fmt.Errorf("%w: redis %s: %v", ErrUnavailable, ro.Addr, err)
	}
	return c, nil
}

// NewRedisCacheFromClient wraps an existing client, e.g. a cluster client.
func NewRedisCacheFromClient(client redis.UniversalClient, prefix string) *RedisCache {
	return &RedisCache{client: client, prefix: prefix}
}

// Get implements Cache.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", transient(err))
	}
	return data, true, nil
}

// Set implements Cache. A ttl of zero keeps the entry until evicted.
func (c *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.prefix+key, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", transient(err))
	}
	return nil
}

// Delete implements Cache.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis del: %w", transient(err))
	}
	return nil
}

// Close implements Cache.
func (c *RedisCache) Close() error { return c.client.Close() }

var _ Cache = (*RedisCache)(nil)
