// Copyright (c) 2026 HWSphere. All rights reserved.
// Author: Bryan Pineda

package project

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/BryanPineda21/HWSphere/internal/core/tag"
)

var lower = cases.Lower(language.Und)

// SearchFields are the derived columns the search sub-queries range over.
type SearchFields struct {
	TitleLower  string
	AuthorLower string
	TagKeys     []string
}

// DeriveSearchFields computes the search columns of p.
//
// Tag keys are the tag IDs of the tag collection ([tag.Normalize]), so a
// listing filtered by an ID from /tags matches, and "CAD" and "cad" overlap.
func DeriveSearchFields(p *Project) SearchFields {
	return SearchFields{
		TitleLower:  lower.String(p.Title),
		AuthorLower: lower.String(p.Author),
		TagKeys:     tag.Keys(p.Tags),
	}
}
