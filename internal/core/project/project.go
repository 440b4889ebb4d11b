// Copyright (c) 2026 HWSphere. All rights reserved.
// Author: Bryan Pineda

/*
Package project manages portfolio project records and their stored files.

Core Responsibility:

  - Lifecycle: create, patch and delete project rows owned by one user.
  - Files: upload code, model, PDF, video and thumbnail objects and clean them up.
  - Bookkeeping: hand every tag change to the tag ledger and every write to the
    hosted search index, both on a best-effort basis.
  - Listing: public keyset-paginated listings by newest, featured or trending.
*/
package project

import (
	"time"

	"github.com/BryanPineda21/HWSphere/pkg/pagination"
)

// # Domain Enums

// Visibility controls who can read a project.
type Visibility string

const (
	// VisibilityPublic projects appear in listings and search.
	VisibilityPublic Visibility = "public"

	// VisibilityUnlisted projects are readable by ID but never listed.
	VisibilityUnlisted Visibility = "unlisted"

	// VisibilityPrivate projects are readable by their owner only.
	VisibilityPrivate Visibility = "private"
)

// IsValid reports whether v is a recognised [Visibility] value.
func (v Visibility) IsValid() bool {
	switch v {
	case VisibilityPublic, VisibilityUnlisted, VisibilityPrivate:
		return true
	}
	return false
}

// FilterType selects the ordering of a listing.
type FilterType string

const (
	FilterNewest   FilterType = "newest"
	FilterFeatured FilterType = "featured"
	FilterTrending FilterType = "trending"
)

// ParseFilterType maps a query value to a [FilterType]; unknown values mean trending.
func ParseFilterType(raw string) FilterType {
	switch FilterType(raw) {
	case FilterNewest, FilterFeatured:
		return FilterType(raw)
	}
	return FilterTrending
}

// FileSlot names one of the file references a project can carry.
type FileSlot string

const (
	SlotCode      FileSlot = "code"
	SlotModel     FileSlot = "model"
	SlotPDF       FileSlot = "pdf"
	SlotVideo     FileSlot = "video"
	SlotThumbnail FileSlot = "thumbnail"
)

// FileSlots lists every slot in storage order.
var FileSlots = []FileSlot{SlotCode, SlotModel, SlotPDF, SlotVideo, SlotThumbnail}

// # Field Identifiers

const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldTags        = "tags"
	FieldVisibility  = "visibility"
	FieldIsPinned    = "isPinned"
	FieldFiles       = "files"
)

// # Entities

// Project is one portfolio entry.
type Project struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Tags         []string   `json:"tags"`
	Visibility   Visibility `json:"visibility"`
	OwnerID      string     `json:"userId"`
	Author       string     `json:"author"`
	IsPinned     bool       `json:"isPinned"`
	CommentCount int        `json:"commentCount"`
	LikeCount    int        `json:"likeCount"`
	ViewCount    int        `json:"viewCount"`
	CodeURL      *string    `json:"codeUrl,omitempty"`
	ModelURL     *string    `json:"modelUrl,omitempty"`
	PDFURL       *string    `json:"pdfUrl,omitempty"`
	VideoURL     *string    `json:"videoUrl,omitempty"`
	ThumbnailURL *string    `json:"thumbnailUrl,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`

	// CodeContent is the inlined code object, filled on detail reads only.
	CodeContent *string `json:"codeContent,omitempty"`
}

// FileURL returns the address of the slot's field.
func (p *Project) FileURL(slot FileSlot) **string {
	switch slot {
	case SlotCode:
		return &p.CodeURL
	case SlotModel:
		return &p.ModelURL
	case SlotPDF:
		return &p.PDFURL
	case SlotVideo:
		return &p.VideoURL
	case SlotThumbnail:
		return &p.ThumbnailURL
	}
	return nil
}

// FileURLs returns every non-empty file reference.
func (p *Project) FileURLs() []string {
	var urls []string
	for _, slot := range FileSlots {
		if ref := *p.FileURL(slot); ref != nil && *ref != "" {
			urls = append(urls, *ref)
		}
	}
	return urls
}

// HasFiles reports whether the project references at least one file or a thumbnail.
func (p *Project) HasFiles() bool {
	return len(p.FileURLs()) > 0
}

// Cursor returns the continuation token for a page ending at p.
func (p *Project) Cursor() *pagination.Cursor {
	return &pagination.Cursor{ID: p.ID, CreatedAt: p.CreatedAt, LikeCount: p.LikeCount}
}

// # Inputs

// Owner identifies the user creating or editing a project.
type Owner struct {
	ID       string
	Username string
}

// Patch is a shallow update. Nil fields are left untouched.
//
// Tags follows the ledger contract: a nil Tags is passed to the ledger as an
// empty list, so every old tag is decremented while the row keeps its tags.
type Patch struct {
	Title       *string
	Description *string
	Tags        []string
	Visibility  *Visibility
	IsPinned    *bool
	Uploads     []Upload
	Remove      []FileSlot
}

// ListOptions selects a public listing page.
type ListOptions struct {
	Tag        string
	FilterType FilterType
	PageSize   int
	After      *pagination.Cursor
}

// Page is one page of projects with the cursor of its last row.
type Page struct {
	Items       []*Project         `json:"items"`
	LastVisible *pagination.Cursor `json:"lastVisible,omitempty"`
}

// NewPage builds a page whose cursor points at the last item.
func NewPage(items []*Project) *Page {
	page := &Page{Items: items}
	if len(items) > 0 {
		page.LastVisible = items[len(items)-1].Cursor()
	}
	return page
}
