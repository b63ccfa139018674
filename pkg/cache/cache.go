// Package cache is the Redis-backed cache for the shop. All helpers are
// nil-safe: when Redis is unavailable Get is a miss and Set/Del are no-ops,
// so the storefront keeps working without it.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Zin-Mg-Nyunt/shopping/config"
	"github.com/redis/go-redis/v9"
)

var RDB *redis.Client
var Ctx = context.Background()

// Connect initialises the Redis client and verifies the connection.
func Connect() error {
	RDB = redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr(),
		Password: config.RedisPassword(),
		DB:       0,
	})

	if err := RDB.Ping(Ctx).Err(); err != nil {
		RDB = nil // mark unavailable so Get/Set/Del no-op safely
		return fmt.Errorf("cache: redis ping: %w", err)
	}
	return nil
}

// Get retrieves a cached value by key and unmarshals into dest.
// Returns true on a cache hit, false on miss or error.
func Get(key string, dest interface{}) bool {
	if RDB == nil {
		return false
	}

	val, err := RDB.Get(Ctx, key).Result()
	if err != nil {
		return false
	}

	return json.Unmarshal([]byte(val), dest) == nil
}

// Set stores value under key for the given TTL.
func Set(key string, value interface{}, ttl time.Duration) error {
	if RDB == nil {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return RDB.Set(Ctx, key, data, ttl).Err()
}

// Forget removes a key.
func Forget(key string) error {
	if RDB == nil {
		return nil
	}
	return RDB.Del(Ctx, key).Err()
}

// Remember returns the cached value for key, computing and storing it via
// fill on a miss. Used for the short-lived related-products memoization.
func Remember(key string, ttl time.Duration, dest interface{}, fill func() (interface{}, error)) error {
	if Get(key, dest) {
		return nil
	}

	fresh, err := fill()
	if err != nil {
		return err
	}

	raw, err := json.Marshal(fresh)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return err
	}

	return Set(key, fresh, ttl)
}
