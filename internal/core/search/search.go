// Copyright (c) 2026 HWSphere. All rights reserved.
// Author: Bryan Pineda

/*
Package search answers free-text project queries without a full-text index.

A query is split into lowercase terms and answered by up to four targeted
sub-queries (title prefix, author prefix, tag overlap, recent descriptions)
run in priority order until a page is filled. The union is deduplicated,
AND-filtered when several terms were given, sorted, truncated and memoized.

The memo holds one entry: the last query. It is never invalidated by writes,
so a result may be up to the memo TTL old.
*/
package search

import (
	"context"

	"github.com/BryanPineda21/HWSphere/internal/core/project"
)

// Store runs the sub-queries. Every method is scoped to public projects and,
// when tag is non-empty, to projects carrying tag.
type Store interface {
	TitlePrefix(context context.Context, prefix, tag string, limit int) ([]*project.Project, error)
	AuthorPrefix(context context.Context, prefix, tag string, limit int) ([]*project.Project, error)
	TagsAny(context context.Context, terms []string, tag string, limit int) ([]*project.Project, error)
	Recent(context context.Context, tag string, limit int) ([]*project.Project, error)
}

// Lister serves queries without terms.
type Lister interface {
	GetProjects(context context.Context, options project.ListOptions) (*project.Page, error)
}

// Options narrows and shapes a search.
type Options struct {
	Tag        string
	FilterType project.FilterType
	PageSize   int
}
