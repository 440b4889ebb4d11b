// Copyright (c) 2026 HWSphere. All rights reserved.
// Author: Bryan Pineda

package project_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/BryanPineda21/HWSphere/internal/core/project"
	"github.com/BryanPineda21/HWSphere/internal/platform/apperr"
	"github.com/BryanPineda21/HWSphere/internal/platform/storage"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memoryRepository keeps project rows in memory.
type memoryRepository struct {
	mu        sync.Mutex
	rows      map[string]*project.Project
	fields    map[string]project.SearchFields
	clock     time.Time
	createErr error
	views     int
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		rows:   make(map[string]*project.Project),
		fields: make(map[string]project.SearchFields),
		clock:  time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (repo *memoryRepository) tick() time.Time {
	repo.clock = repo.clock.Add(time.Second)
	return repo.clock
}

func (repo *memoryRepository) Create(_ context.Context, p *project.Project, fields project.SearchFields) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if repo.createErr != nil {
		return repo.createErr
	}
	if _, ok := repo.rows[p.ID]; ok {
		return apperr.Conflict("Project already exists")
	}
	p.CreatedAt = repo.tick()
	p.UpdatedAt = p.CreatedAt
	copied := *p
	repo.rows[p.ID] = &copied
	repo.fields[p.ID] = fields
	return nil
}

func (repo *memoryRepository) FindByID(_ context.Context, id string) (*project.Project, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	p, ok := repo.rows[id]
	if !ok {
		return nil, apperr.NotFound("Project")
	}
	copied := *p
	return &copied, nil
}

func (repo *memoryRepository) Update(_ context.Context, p *project.Project, fields project.SearchFields) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if _, ok := repo.rows[p.ID]; !ok {
		return apperr.NotFound("Project")
	}
	p.UpdatedAt = repo.tick()
	copied := *p
	repo.rows[p.ID] = &copied
	repo.fields[p.ID] = fields
	return nil
}

func (repo *memoryRepository) Delete(_ context.Context, id string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if _, ok := repo.rows[id]; !ok {
		return apperr.NotFound("Project")
	}
	delete(repo.rows, id)
	return nil
}

func (repo *memoryRepository) ListByOwner(_ context.Context, ownerID string, publicOnly bool) ([]*project.Project, error) {
	return repo.filter(func(p *project.Project) bool {
		return p.OwnerID == ownerID && (!publicOnly || p.Visibility == project.VisibilityPublic)
	}), nil
}

func (repo *memoryRepository) List(_ context.Context, options project.ListOptions) ([]*project.Project, error) {
	rows := repo.filter(func(p *project.Project) bool {
		if p.Visibility != project.VisibilityPublic {
			return false
		}
		if options.Tag != "" && !slices.Contains(repo.fields[p.ID].TagKeys, options.Tag) {
			return false
		}
		return options.FilterType != project.FilterFeatured || p.IsPinned
	})

	if options.FilterType == project.FilterTrending {
		sort.SliceStable(rows, func(i, j int) bool {
			if rows[i].LikeCount != rows[j].LikeCount {
				return rows[i].LikeCount > rows[j].LikeCount
			}
			return rows[i].ViewCount > rows[j].ViewCount
		})
	}

	if options.After != nil {
		for i, p := range rows {
			if p.ID == options.After.ID {
				rows = rows[i+1:]
				break
			}
		}
	}
	if len(rows) > options.PageSize {
		rows = rows[:options.PageSize]
	}
	return rows, nil
}

func (repo *memoryRepository) IncrementViewCount(_ context.Context, id string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	repo.views++
	if p, ok := repo.rows[id]; ok {
		p.ViewCount++
	}
	return nil
}

func (repo *memoryRepository) ScanAll(_ context.Context, batchSize int, fn func([]*project.Project) error) error {
	all := repo.filter(func(*project.Project) bool { return true })
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	for start := 0; start < len(all); start += batchSize {
		if err := fn(all[start:min(start+batchSize, len(all))]); err != nil {
			return err
		}
	}
	return nil
}

func (repo *memoryRepository) UpdateSearchFields(_ context.Context, projects []*project.Project) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for _, p := range projects {
		repo.fields[p.ID] = project.DeriveSearchFields(p)
	}
	return nil
}

// filter returns copies of matching rows, newest first.
func (repo *memoryRepository) filter(keep func(*project.Project) bool) []*project.Project {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	out := make([]*project.Project, 0)
	for _, p := range repo.rows {
		if keep(p) {
			copied := *p
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// ledgerCall records one UpdateTagCounts invocation.
type ledgerCall struct {
	newTags []string
	oldTags []string
}

type recordingLedger struct {
	mu      sync.Mutex
	calls   []ledgerCall
	failErr error
}

func (ledger *recordingLedger) UpdateTagCounts(_ context.Context, newTags, oldTags []string) error {
	ledger.mu.Lock()
	defer ledger.mu.Unlock()

	ledger.calls = append(ledger.calls, ledgerCall{newTags: newTags, oldTags: oldTags})
	return ledger.failErr
}

// memoryFiles is a [project.FileStore] keyed by URL.
type memoryFiles struct {
	mu       sync.Mutex
	objects  map[string][]byte
	deleted  []string
	failName string
}

func newMemoryFiles() *memoryFiles {
	return &memoryFiles{objects: make(map[string][]byte)}
}

func (files *memoryFiles) Upload(_ context.Context, key string, body io.Reader, size int64, _ string, progress storage.ProgressFunc) (string, error) {
	if files.failName != "" && strings.HasSuffix(key, files.failName) {
		return "", errors.New("connection reset")
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	if progress != nil {
		progress(int64(len(data)), size)
	}

	files.mu.Lock()
	defer files.mu.Unlock()
	url := "https://cdn.test/" + key
	files.objects[url] = data
	return url, nil
}

func (files *memoryFiles) Delete(_ context.Context, url string) error {
	files.mu.Lock()
	defer files.mu.Unlock()

	files.deleted = append(files.deleted, url)
	delete(files.objects, url)
	return nil
}

func (files *memoryFiles) Download(_ context.Context, url string, maxBytes int64) ([]byte, error) {
	files.mu.Lock()
	defer files.mu.Unlock()

	data, ok := files.objects[url]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	if int64(len(data)) > maxBytes {
		return nil, storage.ErrTooLarge
	}
	return data, nil
}

type recordingIndexer struct {
	mu      sync.Mutex
	indexed []string
	removed []string
	failErr error
}

func (indexer *recordingIndexer) IndexProject(_ context.Context, p *project.Project) error {
	indexer.mu.Lock()
	defer indexer.mu.Unlock()

	indexer.indexed = append(indexer.indexed, p.ID)
	return indexer.failErr
}

func (indexer *recordingIndexer) RemoveProject(_ context.Context, id string) error {
	indexer.mu.Lock()
	defer indexer.mu.Unlock()

	indexer.removed = append(indexer.removed, id)
	return indexer.failErr
}

// fixture bundles a service with its fakes.
type fixture struct {
	service *project.Service
	repo    *memoryRepository
	ledger  *recordingLedger
	files   *memoryFiles
	indexer *recordingIndexer
}

func newFixture() *fixture {
	f := &fixture{
		repo:    newMemoryRepository(),
		ledger:  &recordingLedger{},
		files:   newMemoryFiles(),
		indexer: &recordingIndexer{},
	}
	f.service = project.NewService(f.repo, f.ledger, f.files, f.indexer, discardLogger())
	return f
}

var alice = project.Owner{ID: "user-alice", Username: "Alice"}

func codeUpload(name, content string) project.Upload {
	return project.Upload{
		Slot:     project.SlotCode,
		FileName: name,
		Size:     int64(len(content)),
		Body:     strings.NewReader(content),
	}
}

func (f *fixture) add(title string, tags ...string) *project.Project {
	p, err := f.service.AddProject(context.Background(),
		&project.Project{Title: title, Tags: tags},
		[]project.Upload{codeUpload("main.go", "package main")},
		alice,
	)
	if err != nil {
		panic(err)
	}
	return p
}
