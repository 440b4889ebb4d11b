// Copyright (c) 2026 HWSphere. All rights reserved.
// Author: Bryan Pineda

package tag

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/BryanPineda21/HWSphere/internal/platform/apperr"
	"github.com/BryanPineda21/HWSphere/internal/platform/memo"
)

// listKey is the single key of the tag-list memo.
const listKey = "all"

var (
	listCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hws_tag_cache_hits_total",
		Help: "Tag list requests answered from the process-local memo.",
	})
	listCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hws_tag_cache_misses_total",
		Help: "Tag list requests that reached the database.",
	})
)

// Service serves tag reads. The full list is memoized for the configured TTL.
type Service struct {
	repo   Repository
	cache  *memo.Memo[[]*Tag]
	logger *slog.Logger
}

// NewService creates a tag read service whose list memo lives for ttl.
func NewService(repo Repository, ttl time.Duration, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		cache:  memo.NewSingleSlot[[]*Tag](ttl, memo.Counters{Hits: listCacheHits, Misses: listCacheMisses}),
		logger: logger,
	}
}

// ListTags returns all tags, most used first. A list fetched within the TTL
// is returned as is, even if projects changed since.
func (service *Service) ListTags(context context.Context) ([]*Tag, error) {
	if tags, ok := service.cache.Get(listKey); ok {
		return tags, nil
	}

	tags, err := service.repo.List(context)
	if err != nil {
		return nil, err
	}

	service.cache.Set(listKey, tags)
	return tags, nil
}

// GetTag returns one tag. The ID may be given in display form; it is normalized first.
func (service *Service) GetTag(context context.Context, id string) (*Tag, error) {
	key := Normalize(id)
	if key == "" {
		return nil, apperr.NotFound("Tag")
	}
	return service.repo.FindByID(context, key)
}
