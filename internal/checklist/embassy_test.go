package checklist

import (
	"context"
	"testing"

	"github.com/visabuddy/visabuddy-backend/internal/platform/cache"
	"github.com/visabuddy/visabuddy-backend/internal/platform/logger"
)

func TestEmbassyProviderCachesContent(t *testing.T) {
	store := &fakeEmbassyStore{content: "bring originals and copies"}
	provider := NewEmbassyProvider(store, cache.NewMemoryStore(), logger.NewNop())
	ctx := context.Background()

	first := provider.Content(ctx, "US", "tourist")
	second := provider.Content(ctx, "US", "tourist")
	if first != "bring originals and copies" || second != first {
		t.Fatalf("unexpected content: %q %q", first, second)
	}
	if store.calls != 1 {
		t.Fatalf("second read must hit the cache, store called %d times", store.calls)
	}
}

func TestEmbassyProviderDistinctKeys(t *testing.T) {
	store := &fakeEmbassyStore{content: "x"}
	provider := NewEmbassyProvider(store, cache.NewMemoryStore(), logger.NewNop())
	ctx := context.Background()

	provider.Content(ctx, "US", "tourist")
	provider.Content(ctx, "US", "student")
	provider.Content(ctx, "DE", "tourist")
	if store.calls != 3 {
		t.Fatalf("distinct pairs must each fetch once, got %d calls", store.calls)
	}
}

func TestEmbassyProviderDoesNotCacheEmpty(t *testing.T) {
	store := &fakeEmbassyStore{content: ""}
	provider := NewEmbassyProvider(store, cache.NewMemoryStore(), logger.NewNop())
	ctx := context.Background()

	provider.Content(ctx, "US", "tourist")
	provider.Content(ctx, "US", "tourist")
	if store.calls != 2 {
		t.Fatalf("empty results must not be cached, got %d calls", store.calls)
	}
}
