package cache

import (
	"context"
	"testing"
	"time"
)

func TestTimedCacheGetSet(t *testing.T) {
	c := NewTimedCache[string, string]()
	if _, ok := c.Get("missing"); ok {
		t.Fatal("empty cache must miss")
	}
	c.Set("k", "v", time.Minute)
	got, ok := c.Get("k")
	if !ok || got != "v" {
		t.Fatalf("expected hit with v, got %q %v", got, ok)
	}
}

func TestTimedCacheExpiry(t *testing.T) {
	c := NewTimedCache[string, string]()
	now := time.Now()
	c.now = func() time.Time { return now }

	c.Set("k", "v", 5*time.Minute)
	if _, ok := c.Get("k"); !ok {
		t.Fatal("entry must be live before TTL")
	}
	now = now.Add(5*time.Minute + time.Second)
	if _, ok := c.Get("k"); ok {
		t.Fatal("entry must expire after TTL")
	}
}

func TestTimedCacheLastWriterWins(t *testing.T) {
	c := NewTimedCache[string, string]()
	c.Set("k", "first", time.Minute)
	c.Set("k", "second", time.Minute)
	got, _ := c.Get("k")
	if got != "second" {
		t.Fatalf("expected last write, got %q", got)
	}
}

func TestTimedCacheLenSweepsExpired(t *testing.T) {
	c := NewTimedCache[string, string]()
	now := time.Now()
	c.now = func() time.Time { return now }

	c.Set("a", "1", time.Minute)
	c.Set("b", "2", time.Hour)
	if c.Len() != 2 {
		t.Fatalf("expected 2 live entries, got %d", c.Len())
	}
	now = now.Add(2 * time.Minute)
	if c.Len() != 1 {
		t.Fatalf("expected sweep to 1 entry, got %d", c.Len())
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	s.Set(ctx, "k", "v", time.Minute)
	got, ok := s.Get(ctx, "k")
	if !ok || got != "v" {
		t.Fatalf("expected v, got %q %v", got, ok)
	}
}
