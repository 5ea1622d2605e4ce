package cache

import (
	"context"
	"sync"
	"time"
)

// Store is the string-keyed TTL cache the embassy content provider reads
// through. Implementations are last-writer-wins; racing writers are fine
// because every write is an idempotent re-fetch of immutable source text.
type Store interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, ttl time.Duration)
}

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// TimedCache is a small in-process TTL cache, constructed once and passed by
// dependency injection.
type TimedCache[K comparable, V any] struct {
	mu      sync.RWMutex
	entries map[K]entry[V]
	now     func() time.Time
}

func NewTimedCache[K comparable, V any]() *TimedCache[K, V] {
	return &TimedCache[K, V]{
		entries: make(map[K]entry[V]),
		now:     time.Now,
	}
}

func (c *TimedCache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || c.now().After(e.expiresAt) {
		var zero V
		return zero, false
	}
	return e.value, true
}

func (c *TimedCache[K, V]) Set(key K, value V, ttl time.Duration) {
	c.mu.Lock()
	c.entries[key] = entry[V]{value: value, expiresAt: c.now().Add(ttl)}
	c.mu.Unlock()
}

func (c *TimedCache[K, V]) Delete(key K) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Len counts live entries; expired ones are swept lazily here since the cache
// stays small (one entry per country/visa pair).
func (c *TimedCache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for k, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, k)
		}
	}
	return len(c.entries)
}

// MemoryStore adapts TimedCache to the Store interface.
type MemoryStore struct {
	inner *TimedCache[string, string]
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{inner: NewTimedCache[string, string]()}
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, bool) {
	return s.inner.Get(key)
}

func (s *MemoryStore) Set(_ context.Context, key, value string, ttl time.Duration) {
	s.inner.Set(key, value, ttl)
}
