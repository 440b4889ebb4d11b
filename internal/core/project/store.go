// Copyright (c) 2026 HWSphere. All rights reserved.
// Author: Bryan Pineda

package project

import (
	"context"
	"io"

	"github.com/BryanPineda21/HWSphere/internal/platform/storage"
)

// # Project Data Access

// Repository defines the data access contract for project rows.
type Repository interface {

	/*
		Create inserts p and fills its server timestamps.

		Parameters:
		  - context: context.Context
		  - p: *Project (ID already assigned)
		  - fields: SearchFields (derived columns written alongside)

		Returns:
		  - error: Conflict on duplicate ID, storage failures otherwise
	*/
	Create(context context.Context, p *Project, fields SearchFields) error

	// FindByID returns the project or a NOT_FOUND error.
	FindByID(context context.Context, id string) (*Project, error)

	/*
		Update writes every mutable column of p and refreshes p.UpdatedAt.

		Returns:
		  - error: NOT_FOUND if the row vanished, storage failures otherwise
	*/
	Update(context context.Context, p *Project, fields SearchFields) error

	// Delete removes the row. A missing row yields NOT_FOUND.
	Delete(context context.Context, id string) error

	// ListByOwner returns every project of ownerID, newest first.
	ListByOwner(context context.Context, ownerID string, publicOnly bool) ([]*Project, error)

	/*
		List returns at most options.PageSize public projects in the order of
		options.FilterType, resuming after options.After when set.
	*/
	List(context context.Context, options ListOptions) ([]*Project, error)

	// IncrementViewCount adds one view atomically.
	IncrementViewCount(context context.Context, id string) error

	// ScanAll streams every project in ID order, batchSize rows at a time.
	ScanAll(context context.Context, batchSize int, fn func([]*Project) error) error

	// UpdateSearchFields rewrites the derived search columns of projects.
	UpdateSearchFields(context context.Context, projects []*Project) error
}

// # Collaborators

// TagLedger receives the tag arrays before and after each project write.
type TagLedger interface {
	UpdateTagCounts(context context.Context, newTags, oldTags []string) error
}

// FileStore keeps uploaded project files.
type FileStore interface {
	Upload(context context.Context, key string, body io.Reader, size int64, contentType string, progress storage.ProgressFunc) (string, error)
	Delete(context context.Context, url string) error
	Download(context context.Context, url string, maxBytes int64) ([]byte, error)
}

// Indexer mirrors public projects into the hosted search index.
type Indexer interface {
	IndexProject(context context.Context, p *Project) error
	RemoveProject(context context.Context, id string) error
}

// NopIndexer is the [Indexer] used when no hosted index is configured.
type NopIndexer struct{}

func (NopIndexer) IndexProject(context.Context, *Project) error { return nil }
func (NopIndexer) RemoveProject(context.Context, string) error  { return nil }

// # Uploads

// Upload is one file attached to a create or patch request.
type Upload struct {
	Slot        FileSlot
	FileName    string
	Size        int64
	ContentType string
	Body        io.Reader
}
