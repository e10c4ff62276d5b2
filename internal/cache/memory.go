package cache

import (
	"context"       // Context for cache operations (unused by the map backend)
	"encoding/json" // JSON round-trip mirrors the Redis backend
	"strings"       // Prefix matching
	"sync"          // Mutex protecting the map
	"time"          // TTL bookkeeping
)

// memoryEntry is a single cached value with its expiry instant.
type memoryEntry struct {
	data      []byte    // JSON-encoded value
	expiresAt time.Time // Entry is dead after this instant
}

// MemoryStore is an in-memory Store used by tests and single-process
// deployments without Redis. Values round-trip through JSON so behavior
// matches the Redis backend.
type MemoryStore struct {
	mu      sync.Mutex             // Protects entries
	entries map[string]memoryEntry // Keyed cached values
}

// NewMemoryStore creates an empty in-memory cache.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry)}
}

// Get returns the cached value for key if present and not expired
func (s *MemoryStore) Get(_ context.Context, key string, dest any) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return false, nil // Miss
	}
	if time.Now().After(e.expiresAt) {
		delete(s.entries, key) // Lazily drop expired entries
		return false, nil
	}
	return true, json.Unmarshal(e.data, dest)
}

// Set stores a value under key for at most ttl
func (s *MemoryStore) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = memoryEntry{data: b, expiresAt: time.Now().Add(ttl)}
	return nil
}

// Delete removes the given keys
func (s *MemoryStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.entries, k)
	}
	return nil
}

// DeleteByPrefix removes every key starting with prefix
func (s *MemoryStore) DeleteByPrefix(_ context.Context, prefix string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.entries {
		if strings.HasPrefix(k, prefix) {
			delete(s.entries, k)
		}
	}
	return nil
}

// Flush removes every entry
func (s *MemoryStore) Flush(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]memoryEntry)
	return nil
}
