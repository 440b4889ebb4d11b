// Copyright (c) 2026 HWSphere. All rights reserved.
// Author: Bryan Pineda

/*
Package memo provides the process-local, time-expiring memo used for the last
search result and the last tag list.

A [Memo] wraps hashicorp/golang-lru/v2/expirable. With size 1 it keeps only
the most recent key: storing a new key evicts the previous entry, and an entry
older than the TTL is reported as absent. Writes never invalidate it.
*/
package memo

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
)

// Memo is a size-bounded TTL cache with hit/miss counters.
// It is safe for concurrent use.
type Memo[V any] struct {
	cache  *expirable.LRU[string, V]
	hits   prometheus.Counter
	misses prometheus.Counter
}

// Counters are the optional hit and miss metrics of a [Memo].
type Counters struct {
	Hits   prometheus.Counter
	Misses prometheus.Counter
}

// New creates a Memo holding at most size entries for ttl each.
func New[V any](size int, ttl time.Duration, counters Counters) *Memo[V] {
	if size < 1 {
		size = 1
	}
	return &Memo[V]{
		cache:  expirable.NewLRU[string, V](size, nil, ttl),
		hits:   counters.Hits,
		misses: counters.Misses,
	}
}

// NewSingleSlot creates a Memo that remembers only the last key.
func NewSingleSlot[V any](ttl time.Duration, counters Counters) *Memo[V] {
	return New[V](1, ttl, counters)
}

// Get returns the value stored under key while it is younger than the TTL.
func (memo *Memo[V]) Get(key string) (V, bool) {
	value, ok := memo.cache.Get(key)
	if ok {
		if memo.hits != nil {
			memo.hits.Inc()
		}
		return value, true
	}
	if memo.misses != nil {
		memo.misses.Inc()
	}
	return value, false
}

// Set stores value under key, evicting the oldest entry when full.
func (memo *Memo[V]) Set(key string, value V) {
	memo.cache.Add(key, value)
}

// Purge drops every entry.
func (memo *Memo[V]) Purge() {
	memo.cache.Purge()
}

// Len reports the number of live entries.
func (memo *Memo[V]) Len() int {
	return memo.cache.Len()
}
