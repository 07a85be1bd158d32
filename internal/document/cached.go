// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package document

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ManuGH/flipbook/internal/cache"
	xglog "github.com/ManuGH/flipbook/internal/log"
	"github.com/ManuGH/flipbook/internal/metrics"
)

// DefaultCacheTTL bounds how long converted pages are kept.
const DefaultCacheTTL = 24 * time.Hour

// CachedProcessor memoises conversions by content fingerprint so opening
// the same file again skips conversion.
type CachedProcessor struct {
	next  Processor
	cache cache.Cache
	ttl   time.Duration
}

// NewCachedProcessor wraps next with c. A nil cache disables caching.
func NewCachedProcessor(next Processor, c cache.Cache, ttl time.Duration) *CachedProcessor {
	if c == nil {
		c = cache.NewNoOpCache()
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedProcessor{next: next, cache: c, ttl: ttl}
}

func cacheKey(src Source) string {
	return "pages:" + src.Fingerprint()
}

// Process implements Processor.
func (p *CachedProcessor) Process(ctx context.Context, src Source) ([]Page, error) {
	key := cacheKey(src)
	if data, ok := p.cache.Get(ctx, key); ok {
		var pages []Page
		if err := json.Unmarshal(data, &pages); err == nil && len(pages) > 0 {
			metrics.IncDocumentCache(true)
			return pages, nil
		}
		p.cache.Delete(ctx, key)
	}
	metrics.IncDocumentCache(false)

	pages, err := p.next.Process(ctx, src)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(pages)
	if err != nil {
		logger := xglog.WithComponentFromContext(ctx, "document")
		logger.Warn().
			Err(err).
			Str(xglog.FieldEvent, "document.cache_encode_failed").
			Msg("could not cache converted pages")
		return pages, nil
	}
	p.cache.Set(ctx, key, data, p.ttl)
	return pages, nil
}
