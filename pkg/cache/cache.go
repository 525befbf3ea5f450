// Package cache is a thin JSON-over-Redis cache. Every call degrades to a
// miss when Redis is not connected, so callers never need a nil check.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/PascalSeth/trendiwear/config"
	"github.com/PascalSeth/trendiwear/pkg/metrics"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "trendiwear:"

var RDB *redis.Client
var Ctx = context.Background()

// Connect initialises the Redis client and verifies it with a ping.
func Connect() error {
	RDB = redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr(),
		Password: config.RedisPassword(),
		DB:       config.Int("REDIS_DB", 0),
	})

	if err := RDB.Ping(Ctx).Err(); err != nil {
		RDB = nil // Get/Set/Del become no-ops
		return fmt.Errorf("cache: redis ping: %w", err)
	}
	return nil
}

// DefaultTTL is CACHE_TTL_SECONDS (default 60s).
func DefaultTTL() time.Duration {
	return time.Duration(config.Int("CACHE_TTL_SECONDS", 60)) * time.Second
}

// Get unmarshals the cached value into dest. Reports a hit.
func Get(key string, dest interface{}) bool {
	if RDB == nil {
		return false
	}

	val, err := RDB.Get(Ctx, keyPrefix+key).Bytes()
	if err != nil {
		metrics.CacheMisses.WithLabelValues("redis").Inc()
		return false
	}

	if err := json.Unmarshal(val, dest); err != nil {
		metrics.CacheMisses.WithLabelValues("redis").Inc()
		return false
	}

	metrics.CacheHits.WithLabelValues("redis").Inc()
	return true
}

// Set stores value under key for ttl.
func Set(key string, value interface{}, ttl time.Duration) error {
	if RDB == nil {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return RDB.Set(Ctx, keyPrefix+key, data, ttl).Err()
}

// Del removes one or more keys.
func Del(keys ...string) error {
	if RDB == nil || len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = keyPrefix + k
	}
	return RDB.Del(Ctx, full...).Err()
}

// Forget is an alias for Del.
func Forget(key string) error {
	return Del(key)
}

// Flush removes every key that starts with prefix. Used to drop all pages
// of a cached listing at once.
func Flush(prefix string) error {
	if RDB == nil {
		return nil
	}

	iter := RDB.Scan(Ctx, 0, keyPrefix+prefix+"*", 100).Iterator()
	var batch []string
	for iter.Next(Ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == 100 {
			if err := RDB.Del(Ctx, batch...).Err(); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(batch) > 0 {
		return RDB.Del(Ctx, batch...).Err()
	}
	return nil
}

// Remember returns the cached value for key, or calls fn and caches its result.
func Remember[T any](key string, ttl time.Duration, fn func() (T, error)) (T, error) {
	var out T
	if Get(key, &out) {
		return out, nil
	}

	out, err := fn()
	if err != nil {
		return out, err
	}

	_ = Set(key, out, ttl)
	return out, nil
}
