// Copyright (c) 2026 HWSphere. All rights reserved.
// Author: Bryan Pineda

package search

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/BryanPineda21/HWSphere/internal/core/project"
	"github.com/BryanPineda21/HWSphere/internal/platform/memo"
)

var (
	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hws_search_cache_hits_total",
		Help: "Searches answered from the last-query memo.",
	})
	cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hws_search_cache_misses_total",
		Help: "Searches that ran the sub-queries.",
	})
)

// Cache remembers the page of the last search for a fixed TTL.
//
// It holds a single entry: a search with a different key replaces it, and an
// entry older than the TTL is absent. Project writes never invalidate it.
// Create one per process and hand it to [NewAggregator].
type Cache struct {
	pages *memo.Memo[*project.Page]
}

// NewCache creates an empty single-slot cache whose entry lives for ttl.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		pages: memo.NewSingleSlot[*project.Page](ttl, memo.Counters{Hits: cacheHits, Misses: cacheMisses}),
	}
}

// Get returns the page stored under key while it is fresh.
func (cache *Cache) Get(key string) (*project.Page, bool) {
	return cache.pages.Get(key)
}

// Set stores page under key, dropping the previous entry.
func (cache *Cache) Set(key string, page *project.Page) {
	cache.pages.Set(key, page)
}

// Len reports whether a fresh entry is held (0 or 1).
func (cache *Cache) Len() int {
	return cache.pages.Len()
}
