// Copyright (c) 2026 HWSphere. All rights reserved.
// Author: Bryan Pineda

package search

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/BryanPineda21/HWSphere/internal/core/project"
	"github.com/BryanPineda21/HWSphere/internal/platform/constants"
	"github.com/BryanPineda21/HWSphere/pkg/pagination"
)

var (
	searchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hws_search_total",
		Help: "Project searches by outcome (list, cached, computed, error).",
	}, []string{"outcome"})

	searchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "hws_search_duration_seconds",
		Help:    "Time spent computing uncached searches.",
		Buckets: prometheus.DefBuckets,
	})
)

var lower = cases.Lower(language.Und)

// Aggregator merges the sub-query results into one ranked page.
type Aggregator struct {
	store  Store
	lister Lister
	cache  *Cache
	logger *slog.Logger
}

// NewAggregator creates an Aggregator that memoizes its last result in cache.
func NewAggregator(store Store, lister Lister, cache *Cache, logger *slog.Logger) *Aggregator {
	return &Aggregator{
		store:  store,
		lister: lister,
		cache:  cache,
		logger: logger.With(slog.String("component", "search")),
	}
}

/*
SearchProjects answers query with at most options.PageSize public projects.

A query without terms is a plain listing. Otherwise a memoized result for the
same (query, tag, filter, page size) is returned as is while it is fresh.

Returns:
  - *project.Page: the ranked page with the cursor of its last item
  - error: the first sub-query failure; no partial result is returned
*/
func (aggregator *Aggregator) SearchProjects(context context.Context, query string, options Options) (*project.Page, error) {
	options.PageSize = pagination.ClampPageSize(options.PageSize)
	if options.FilterType == "" {
		options.FilterType = project.FilterTrending
	}

	terms := Terms(query)
	if len(terms) == 0 {
		searchesTotal.WithLabelValues("list").Inc()
		return aggregator.lister.GetProjects(context, project.ListOptions{
			Tag:        options.Tag,
			FilterType: options.FilterType,
			PageSize:   options.PageSize,
		})
	}

	key := cacheKey(query, options)
	if page, ok := aggregator.cache.Get(key); ok {
		searchesTotal.WithLabelValues("cached").Inc()
		return page, nil
	}

	started := time.Now()
	candidates, err := aggregator.collect(context, terms, options)
	if err != nil {
		searchesTotal.WithLabelValues("error").Inc()
		aggregator.logger.ErrorContext(context, "search_subquery_failed",
			slog.String("query", query),
			slog.Any("error", err),
		)
		return nil, err
	}

	if len(terms) > 1 {
		candidates = slices.DeleteFunc(candidates, func(p *project.Project) bool {
			return !matchesAll(p, terms)
		})
	}

	candidates = rank(candidates, options.FilterType)
	if len(candidates) > options.PageSize {
		candidates = candidates[:options.PageSize]
	}

	page := project.NewPage(candidates)
	aggregator.cache.Set(key, page)

	searchDuration.Observe(time.Since(started).Seconds())
	searchesTotal.WithLabelValues("computed").Inc()
	aggregator.logger.DebugContext(context, "search_completed",
		slog.Int("terms", len(terms)),
		slog.Int("results", len(candidates)),
	)
	return page, nil
}

// collect runs the sub-queries in priority order until pageSize distinct
// projects are gathered. The first occurrence of a project wins.
func (aggregator *Aggregator) collect(context context.Context, terms []string, options Options) ([]*project.Project, error) {
	limit := options.PageSize
	seen := make(map[string]bool)
	var results []*project.Project

	appendUnique := func(projects []*project.Project) {
		for _, p := range projects {
			if !seen[p.ID] {
				seen[p.ID] = true
				results = append(results, p)
			}
		}
	}

	steps := []func() ([]*project.Project, error){
		func() ([]*project.Project, error) {
			return aggregator.store.TitlePrefix(context, terms[0], options.Tag, limit)
		},
		func() ([]*project.Project, error) {
			return aggregator.store.AuthorPrefix(context, terms[0], options.Tag, limit)
		},
		func() ([]*project.Project, error) {
			return aggregator.store.TagsAny(context, terms[:min(len(terms), constants.SearchMaxTagTerms)], options.Tag, limit)
		},
		func() ([]*project.Project, error) {
			recent, err := aggregator.store.Recent(context, options.Tag, constants.SearchRecentBatch)
			if err != nil {
				return nil, err
			}
			return slices.DeleteFunc(recent, func(p *project.Project) bool {
				return !descriptionMatchesAny(p, terms)
			}), nil
		},
	}

	for i, step := range steps {
		if len(results) >= limit {
			break
		}
		projects, err := step()
		if err != nil {
			return nil, fmt.Errorf("search: sub-query %d: %w", i+1, err)
		}
		appendUnique(projects)
	}
	return results, nil
}

// Terms lowercases query and splits it on whitespace.
func Terms(query string) []string {
	return strings.Fields(lower.String(query))
}

func cacheKey(query string, options Options) string {
	return fmt.Sprintf("%s|%s|%s|%d", query, options.Tag, options.FilterType, options.PageSize)
}

func descriptionMatchesAny(p *project.Project, terms []string) bool {
	description := lower.String(p.Description)
	for _, term := range terms {
		if strings.Contains(description, term) {
			return true
		}
	}
	return false
}

// matchesAll reports whether every term occurs in title, description, author or tags.
func matchesAll(p *project.Project, terms []string) bool {
	haystack := lower.String(strings.Join([]string{p.Title, p.Description, p.Author, strings.Join(p.Tags, " ")}, " "))
	for _, term := range terms {
		if !strings.Contains(haystack, term) {
			return false
		}
	}
	return true
}

// rank orders candidates for filter. featured keeps pinned projects only,
// in their merged order.
func rank(candidates []*project.Project, filter project.FilterType) []*project.Project {
	switch filter {
	case project.FilterNewest:
		slices.SortStableFunc(candidates, func(a, b *project.Project) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		})
	case project.FilterFeatured:
		candidates = slices.DeleteFunc(candidates, func(p *project.Project) bool { return !p.IsPinned })
	default:
		slices.SortStableFunc(candidates, func(a, b *project.Project) int {
			if a.LikeCount != b.LikeCount {
				return b.LikeCount - a.LikeCount
			}
			return b.ViewCount - a.ViewCount
		})
	}
	return candidates
}
