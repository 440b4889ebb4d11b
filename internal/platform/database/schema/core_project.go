// Copyright (c) 2026 HWSphere. All rights reserved.
// Author: Bryan Pineda

package schema

// CoreProjectTable represents the 'core.project' table
type CoreProjectTable struct {
	Table        string
	ID           string
	Title        string
	Description  string
	Tags         string
	Visibility   string
	OwnerID      string
	Author       string
	IsPinned     string
	CommentCount string
	LikeCount    string
	ViewCount    string
	CodeURL      string
	ModelURL     string
	PDFURL       string
	VideoURL     string
	ThumbnailURL string
	TitleLower   string
	AuthorLower  string
	TagKeys      string
	CreatedAt    string
	UpdatedAt    string
}

// CoreProject is the schema definition for core.project
var CoreProject = CoreProjectTable{
	Table:        "core.project",
	ID:           "id",
	Title:        "title",
	Description:  "description",
	Tags:         "tags",
	Visibility:   "visibility",
	OwnerID:      "ownerid",
	Author:       "author",
	IsPinned:     "ispinned",
	CommentCount: "commentcount",
	LikeCount:    "likecount",
	ViewCount:    "viewcount",
	CodeURL:      "codeurl",
	ModelURL:     "modelurl",
	PDFURL:       "pdfurl",
	VideoURL:     "videourl",
	ThumbnailURL: "thumbnailurl",
	TitleLower:   "titlelower",
	AuthorLower:  "authorlower",
	TagKeys:      "tagkeys",
	CreatedAt:    "createdat",
	UpdatedAt:    "updatedat",
}

// Columns returns the columns scanned into a project record, in scan order.
// Derived search columns are write-only and excluded.
func (t CoreProjectTable) Columns() []string {
	return []string{
		t.ID, t.Title, t.Description, t.Tags, t.Visibility, t.OwnerID, t.Author,
		t.IsPinned, t.CommentCount, t.LikeCount, t.ViewCount,
		t.CodeURL, t.ModelURL, t.PDFURL, t.VideoURL, t.ThumbnailURL,
		t.CreatedAt, t.UpdatedAt,
	}
}
