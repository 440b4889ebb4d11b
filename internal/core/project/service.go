// Copyright (c) 2026 HWSphere. All rights reserved.
// Author: Bryan Pineda

package project

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/BryanPineda21/HWSphere/internal/core/tag"
	"github.com/BryanPineda21/HWSphere/internal/platform/apperr"
	"github.com/BryanPineda21/HWSphere/internal/platform/constants"
	"github.com/BryanPineda21/HWSphere/internal/platform/validate"
	"github.com/BryanPineda21/HWSphere/pkg/pagination"
	"github.com/BryanPineda21/HWSphere/pkg/slice"
	"github.com/BryanPineda21/HWSphere/pkg/uuid"
)

const (
	maxTitleLength       = 200
	maxDescriptionLength = 10_000
	maxTagLength         = 50
)

// Service implements the project record lifecycle.
type Service struct {
	repo    Repository
	ledger  TagLedger
	files   FileStore
	indexer Indexer
	logger  *slog.Logger
	now     func() time.Time
}

// NewService wires the project service. A nil indexer disables index sync.
func NewService(repo Repository, ledger TagLedger, files FileStore, indexer Indexer, logger *slog.Logger) *Service {
	if indexer == nil {
		indexer = NopIndexer{}
	}
	return &Service{
		repo:    repo,
		ledger:  ledger,
		files:   files,
		indexer: indexer,
		logger:  logger.With(slog.String("component", "project")),
		now:     time.Now,
	}
}

// # Writes

/*
AddProject validates and stores a new project owned by owner.

Files are uploaded before the row is written; if the write fails the
uploaded objects are deleted again. The tag ledger and the hosted index are
updated afterwards and their failures are logged, never returned.

Parameters:
  - p: *Project (Title, Description, Tags, Visibility, IsPinned are read)
  - uploads: []Upload (at most one per slot)
  - owner: Owner (becomes OwnerID and Author)

Returns:
  - *Project: the stored record
  - error: VALIDATION_ERROR, UPLOAD_FAILED, or storage failures
*/
func (service *Service) AddProject(context context.Context, p *Project, uploads []Upload, owner Owner) (*Project, error) {
	validator := &validate.Validator{}
	validator.Required(FieldTitle, strings.TrimSpace(p.Title)).
		MaxLen(FieldTitle, p.Title, maxTitleLength).
		MaxLen(FieldDescription, p.Description, maxDescriptionLength).
		Tags(FieldTags, p.Tags, constants.MaxProjectTags, maxTagLength).
		Custom(FieldVisibility, p.Visibility != "" && !p.Visibility.IsValid(), "Must be one of: public, unlisted, private").
		Custom(FieldFiles, len(uploads) == 0 && !p.HasFiles(), "At least one file or a thumbnail is required").
		Custom(FieldFiles, hasDuplicateSlots(uploads), "Each file slot may be given once")
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if p.ID == "" {
		p.ID = uuid.New()
	}
	if p.Visibility == "" {
		p.Visibility = VisibilityPublic
	}
	p.Title = strings.TrimSpace(p.Title)
	p.Tags = trimTags(p.Tags)
	p.OwnerID = owner.ID
	p.Author = owner.Username
	p.CommentCount, p.LikeCount, p.ViewCount = 0, 0, 0
	p.CodeContent = nil

	uploaded, err := service.uploadAll(context, p, uploads)
	if err != nil {
		return nil, err
	}

	if err := service.repo.Create(context, p, DeriveSearchFields(p)); err != nil {
		service.deleteObjects(context, uploaded)
		return nil, err
	}

	service.updateTagCounts(context, p.ID, p.Tags, nil)
	service.syncIndex(context, p)

	service.logger.InfoContext(context, "project_created",
		slog.String("project_id", p.ID),
		slog.String("owner_id", p.OwnerID),
		slog.Int("files", len(uploaded)),
	)
	return p, nil
}

/*
UpdateProject shallow-merges patch into the project and writes it back.

Only the owner may update. New uploads replace the slot's previous object and
Remove clears a slot; replaced and removed objects are deleted once the row
is written.

The ledger receives patch.Tags against the previous tags. A patch without
Tags therefore decrements every previous tag although the row keeps them;
HTTP clients always send tags on edit.

Returns:
  - *Project: the merged record
  - error: NOT_FOUND, FORBIDDEN, VALIDATION_ERROR, UPLOAD_FAILED, or storage failures
*/
func (service *Service) UpdateProject(context context.Context, id string, patch Patch, actorID string) (*Project, error) {
	existing, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}
	if existing.OwnerID != actorID {
		return nil, apperr.Forbidden("Only the owner can edit this project")
	}

	validator := &validate.Validator{}
	if patch.Title != nil {
		validator.Required(FieldTitle, strings.TrimSpace(*patch.Title)).MaxLen(FieldTitle, *patch.Title, maxTitleLength)
	}
	if patch.Description != nil {
		validator.MaxLen(FieldDescription, *patch.Description, maxDescriptionLength)
	}
	if patch.Visibility != nil {
		validator.Custom(FieldVisibility, !patch.Visibility.IsValid(), "Must be one of: public, unlisted, private")
	}
	validator.Tags(FieldTags, patch.Tags, constants.MaxProjectTags, maxTagLength).
		Custom(FieldFiles, hasDuplicateSlots(patch.Uploads), "Each file slot may be given once").
		Custom(FieldFiles, !keepsFiles(existing, patch), "At least one file or a thumbnail is required")
	if err := validator.Err(); err != nil {
		return nil, err
	}

	oldTags := slices.Clone(existing.Tags)
	merged := *existing

	if patch.Title != nil {
		merged.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		merged.Description = *patch.Description
	}
	if patch.Tags != nil {
		merged.Tags = trimTags(patch.Tags)
	}
	if patch.Visibility != nil {
		merged.Visibility = *patch.Visibility
	}
	if patch.IsPinned != nil {
		merged.IsPinned = *patch.IsPinned
	}

	var stale []string
	for _, slot := range patch.Remove {
		ref := merged.FileURL(slot)
		if ref == nil || *ref == nil {
			continue
		}
		stale = append(stale, **ref)
		*ref = nil
	}
	for _, upload := range patch.Uploads {
		if ref := merged.FileURL(upload.Slot); ref != nil && *ref != nil {
			stale = append(stale, **ref)
		}
	}

	uploaded, err := service.uploadAll(context, &merged, patch.Uploads)
	if err != nil {
		return nil, err
	}

	if err := service.repo.Update(context, &merged, DeriveSearchFields(&merged)); err != nil {
		service.deleteObjects(context, uploaded)
		return nil, err
	}

	// A same-second re-upload of the same file name to this project lands on the old key.
	stale = slices.DeleteFunc(stale, func(url string) bool { return slices.Contains(uploaded, url) })

	service.deleteObjects(context, stale)
	service.updateTagCounts(context, merged.ID, patch.Tags, oldTags)
	service.syncIndex(context, &merged)

	service.logger.InfoContext(context, "project_updated",
		slog.String("project_id", merged.ID),
		slog.Int("files_replaced", len(uploaded)),
		slog.Int("files_deleted", len(stale)),
	)
	return &merged, nil
}

/*
DeleteProject removes the project row, its stored files and its tag counts.

Only the owner may delete. File deletion, the ledger and the index are best
effort once the row is gone.
*/
func (service *Service) DeleteProject(context context.Context, id string, actorID string) error {
	existing, err := service.repo.FindByID(context, id)
	if err != nil {
		return err
	}
	if existing.OwnerID != actorID {
		return apperr.Forbidden("Only the owner can delete this project")
	}

	if err := service.repo.Delete(context, id); err != nil {
		return err
	}

	service.deleteObjects(context, existing.FileURLs())
	service.updateTagCounts(context, id, nil, existing.Tags)
	if err := service.indexer.RemoveProject(context, id); err != nil {
		service.logger.WarnContext(context, "search_index_remove_failed",
			slog.String("project_id", id),
			slog.Any("error", err),
		)
	}

	service.logger.InfoContext(context, "project_deleted", slog.String("project_id", id))
	return nil
}

// # Reads

/*
GetProject returns one project as seen by viewerID (empty for anonymous).

Private projects of other users are reported as NOT_FOUND. With withCode set
the code object is downloaded and inlined; a failed download is logged and
the project is returned without it. Public reads by non-owners count a view.
*/
func (service *Service) GetProject(context context.Context, id string, withCode bool, viewerID string) (*Project, error) {
	p, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	isOwner := viewerID != "" && viewerID == p.OwnerID
	if p.Visibility == VisibilityPrivate && !isOwner {
		return nil, apperr.NotFound("Project")
	}

	if withCode && p.CodeURL != nil {
		data, err := service.files.Download(context, *p.CodeURL, constants.MaxInlineCodeBytes)
		if err != nil {
			service.logger.WarnContext(context, "project_code_download_failed",
				slog.String("project_id", p.ID),
				slog.Any("error", err),
			)
		} else {
			content := strings.ToValidUTF8(string(data), "\uFFFD")
			p.CodeContent = &content
		}
	}

	if p.Visibility == VisibilityPublic && !isOwner {
		if err := service.repo.IncrementViewCount(context, p.ID); err != nil {
			service.logger.WarnContext(context, "project_view_count_failed",
				slog.String("project_id", p.ID),
				slog.Any("error", err),
			)
		} else {
			p.ViewCount++
		}
	}

	return p, nil
}

// ListByOwner returns the projects of ownerID. Other viewers see public ones
// only. An empty result is NOT_FOUND.
func (service *Service) ListByOwner(context context.Context, ownerID, viewerID string) ([]*Project, error) {
	projects, err := service.repo.ListByOwner(context, ownerID, ownerID != viewerID)
	if err != nil {
		return nil, err
	}
	if len(projects) == 0 {
		return nil, apperr.NotFound("Project")
	}
	return projects, nil
}

/*
GetProjects returns one page of public projects.

Returns:
  - *Page: at most options.PageSize items (default 6) and the cursor of the last one
*/
func (service *Service) GetProjects(context context.Context, options ListOptions) (*Page, error) {
	options.PageSize = pagination.ClampPageSize(options.PageSize)
	if options.FilterType == "" {
		options.FilterType = FilterTrending
	}
	options.Tag = tag.Normalize(options.Tag)

	projects, err := service.repo.List(context, options)
	if err != nil {
		return nil, err
	}
	if len(projects) > options.PageSize {
		projects = projects[:options.PageSize]
	}
	return NewPage(projects), nil
}

// # Side Effects

func (service *Service) updateTagCounts(context context.Context, projectID string, newTags, oldTags []string) {
	if err := service.ledger.UpdateTagCounts(context, newTags, oldTags); err != nil {
		service.logger.ErrorContext(context, "tag_ledger_update_failed",
			slog.String("project_id", projectID),
			slog.Any("error", err),
		)
	}
}

func (service *Service) syncIndex(context context.Context, p *Project) {
	var err error
	if p.Visibility == VisibilityPublic {
		err = service.indexer.IndexProject(context, p)
	} else {
		err = service.indexer.RemoveProject(context, p.ID)
	}
	if err != nil {
		service.logger.WarnContext(context, "search_index_sync_failed",
			slog.String("project_id", p.ID),
			slog.Any("error", err),
		)
	}
}

// # Helpers

func trimTags(tags []string) []string {
	return slice.Map(tags, strings.TrimSpace)
}

func hasDuplicateSlots(uploads []Upload) bool {
	seen := make(map[FileSlot]bool, len(uploads))
	for _, upload := range uploads {
		if seen[upload.Slot] {
			return true
		}
		seen[upload.Slot] = true
	}
	return false
}

// keepsFiles reports whether the project still references a file after patch.
func keepsFiles(existing *Project, patch Patch) bool {
	if len(patch.Uploads) > 0 {
		return true
	}
	for _, slot := range FileSlots {
		if *existing.FileURL(slot) != nil && !slices.Contains(patch.Remove, slot) {
			return true
		}
	}
	return false
}
