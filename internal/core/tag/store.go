// Copyright (c) 2026 HWSphere. All rights reserved.
// Author: Bryan Pineda

package tag

import "context"

// Repository persists the tag collection.
type Repository interface {
	// ApplyDelta creates-or-increments every entry of toAdd and decrements
	// every entry of toRemove, deleting rows that would reach zero. All
	// writes commit together or not at all.
	ApplyDelta(context context.Context, toAdd, toRemove []Entry) error

	// List returns every tag ordered by count descending, then name.
	List(context context.Context) ([]*Tag, error)

	// FindByID returns one tag by normalized ID.
	FindByID(context context.Context, id string) (*Tag, error)

	// WriteCounts overwrites the counts of the given tags (inserting missing
	// rows) in transactions of at most batchSize rows.
	WriteCounts(context context.Context, tags []Entry, counts map[string]int, batchSize int) error

	// DeleteExcept removes every tag whose ID is not in keep.
	DeleteExcept(context context.Context, keep []string) (int64, error)
}

// Source streams the tag arrays of every live project in pages of batchSize.
// The project repository implements it.
type Source interface {
	EachProjectTags(context context.Context, batchSize int, fn func(tags [][]string) error) error
}
