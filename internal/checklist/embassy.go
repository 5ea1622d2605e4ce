package checklist

import (
	"context"
	"time"

	"github.com/visabuddy/visabuddy-backend/internal/observability"
	"github.com/visabuddy/visabuddy-backend/internal/platform/cache"
	"github.com/visabuddy/visabuddy-backend/internal/platform/logger"
)

const embassyContentTTL = 5 * time.Minute

// EmbassyProvider is a read-through cache over stored embassy source text.
// Content changes rarely; a short TTL keeps the pipeline off the database on
// hot (country, visaType) pairs. Concurrent misses may both fetch and both
// write; last writer wins, which is fine for identical source rows.
type EmbassyProvider struct {
	store EmbassyContentStore
	cache cache.Store
	log   *logger.Logger
}

func NewEmbassyProvider(store EmbassyContentStore, c cache.Store, log *logger.Logger) *EmbassyProvider {
	return &EmbassyProvider{store: store, cache: c, log: log}
}

// Content returns "" when nothing is stored; callers treat that as "no
// embassy excerpt for the prompt", never as an error.
func (p *EmbassyProvider) Content(ctx context.Context, countryCode, visaType string) string {
	key := countryCode + ":" + visaType
	if content, ok := p.cache.Get(ctx, key); ok {
		observability.Current().ObserveCache(true)
		return content
	}
	observability.Current().ObserveCache(false)

	content, err := p.store.FindEmbassyContent(ctx, countryCode, visaType)
	if err != nil {
		p.log.Warn("embassy content lookup failed", "country", countryCode, "visa_type", visaType, "error", err)
		return ""
	}
	if content != "" {
		p.cache.Set(ctx, key, content, embassyContentTTL)
	}
	return content
}
