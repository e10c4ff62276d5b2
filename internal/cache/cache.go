package cache

import (
	"context"       // Context for cache operations
	"encoding/json" // JSON encoding/decoding of cached values
	"time"          // TTL durations

	"github.com/redis/go-redis/v9" // Redis client
)

// Store is the read-cache consumed by the engine. Cached values are never a
// source of truth; every entry is reconstructible from the database, so the
// only correctness requirement on implementations is bounded staleness (TTL
// plus explicit invalidation on writes).
type Store interface {
	// Get unmarshals the cached value for key into dest; false means miss.
	Get(ctx context.Context, key string, dest any) (bool, error)
	// Set stores value under key for at most ttl.
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	// Delete removes the given keys; missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error
	// DeleteByPrefix removes every key starting with prefix.
	DeleteByPrefix(ctx context.Context, prefix string) error
	// Flush removes every entry.
	Flush(ctx context.Context) error
}

// RedisStore backs the read cache with Redis, values marshalled as JSON.
type RedisStore struct {
	rdb *redis.Client // Underlying Redis client
}

// NewRedisStore wraps an existing Redis client.
func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

// Get retrieves a value from Redis and unmarshals it into dest
func (s *RedisStore) Get(ctx context.Context, key string, dest any) (bool, error) {
	val, err := s.rdb.Get(ctx, key).Result() // Get value from Redis
	if err == redis.Nil {
		return false, nil // Key does not exist
	} else if err != nil {
		return false, err // Other Redis error
	}
	return true, json.Unmarshal([]byte(val), dest) // Unmarshal JSON into dest
}

// Set sets a value in Redis with a specified TTL
func (s *RedisStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	b, err := json.Marshal(value) // Marshal value to JSON
	if err != nil {
		return err // Return error if marshaling fails
	}
	return s.rdb.Set(ctx, key, b, ttl).Err() // Set value in Redis with TTL
}

// Delete deletes keys from Redis
func (s *RedisStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.rdb.Del(ctx, keys...).Err() // Delete keys from Redis
}

// DeleteByPrefix scans for keys with the given prefix and deletes them
func (s *RedisStore) DeleteByPrefix(ctx context.Context, prefix string) error {
	iter := s.rdb.Scan(ctx, 0, prefix+"*", 0).Iterator() // Iterate matching keys
	for iter.Next(ctx) {
		if err := s.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

// Flush removes every entry by deleting all keys
func (s *RedisStore) Flush(ctx context.Context) error {
	return s.DeleteByPrefix(ctx, "")
}
