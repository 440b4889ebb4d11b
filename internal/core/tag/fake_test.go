// Copyright (c) 2026 HWSphere. All rights reserved.
// Author: Bryan Pineda

package tag_test

import (
	"context"
	"slices"
	"sort"
	"sync"

	"github.com/BryanPineda21/HWSphere/internal/core/tag"
	"github.com/BryanPineda21/HWSphere/internal/platform/apperr"
)

// memoryRepository mirrors the Postgres semantics of [tag.Repository] in memory.
type memoryRepository struct {
	mu        sync.Mutex
	tags      map[string]*tag.Tag
	applied   int
	listCalls int
	failWith  error
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{tags: make(map[string]*tag.Tag)}
}

func (repo *memoryRepository) ApplyDelta(_ context.Context, toAdd, toRemove []tag.Entry) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if repo.failWith != nil {
		return repo.failWith
	}
	repo.applied++

	for _, entry := range toAdd {
		if existing, ok := repo.tags[entry.ID]; ok {
			existing.Count++
			continue
		}
		repo.tags[entry.ID] = &tag.Tag{ID: entry.ID, Name: entry.Name, Count: 1}
	}
	for _, entry := range toRemove {
		existing, ok := repo.tags[entry.ID]
		if !ok {
			continue
		}
		if existing.Count <= 1 {
			delete(repo.tags, entry.ID)
			continue
		}
		existing.Count--
	}
	return nil
}

func (repo *memoryRepository) List(context.Context) ([]*tag.Tag, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	repo.listCalls++
	out := make([]*tag.Tag, 0, len(repo.tags))
	for _, t := range repo.tags {
		copied := *t
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (repo *memoryRepository) FindByID(_ context.Context, id string) (*tag.Tag, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	t, ok := repo.tags[id]
	if !ok {
		return nil, apperr.NotFound("Tag")
	}
	copied := *t
	return &copied, nil
}

func (repo *memoryRepository) WriteCounts(_ context.Context, tags []tag.Entry, counts map[string]int, _ int) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for _, entry := range tags {
		if existing, ok := repo.tags[entry.ID]; ok {
			existing.Count = counts[entry.ID]
			continue
		}
		repo.tags[entry.ID] = &tag.Tag{ID: entry.ID, Name: entry.Name, Count: counts[entry.ID]}
	}
	return nil
}

func (repo *memoryRepository) DeleteExcept(_ context.Context, keep []string) (int64, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	var deleted int64
	for id := range repo.tags {
		if !slices.Contains(keep, id) {
			delete(repo.tags, id)
			deleted++
		}
	}
	return deleted, nil
}

func (repo *memoryRepository) count(id string) (int, bool) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	t, ok := repo.tags[id]
	if !ok {
		return 0, false
	}
	return t.Count, true
}

// projectSource serves fixed tag arrays to RebuildCounts.
type projectSource struct {
	projects [][]string
}

func (source projectSource) EachProjectTags(_ context.Context, batchSize int, fn func([][]string) error) error {
	for start := 0; start < len(source.projects); start += batchSize {
		end := min(start+batchSize, len(source.projects))
		if err := fn(source.projects[start:end]); err != nil {
			return err
		}
	}
	return nil
}
