// Copyright (c) 2026 HWSphere. All rights reserved.
// Author: Bryan Pineda

/*
Package tag maintains the aggregate tag collection derived from project tags.

Every project write hands its old and new tag arrays to the [Ledger], which
applies the difference as one transaction: new tags are created or
incremented, dropped tags are decremented and deleted once they reach zero.

Tag identity is the normalized name (see [Normalize]). Both sides of a diff are
normalized before comparison, so "Web Assembly" and "web   assembly" are
the same tag.
*/
package tag

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/BryanPineda21/HWSphere/pkg/slice"
)

// Tag is one aggregate label and the number of live projects carrying it.
type Tag struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Count     int       `json:"count"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Entry is a tag reference inside a ledger delta: its normalized ID and the
// display name it was first seen with.
type Entry struct {
	ID   string
	Name string
}

var lower = cases.Lower(language.Und)

// Normalize derives a tag ID: outer whitespace trimmed, lowercased, and each
// run of internal whitespace replaced by a single underscore.
//
// Example:
//
//	tag.Normalize("  Web   Assembly ") // "web_assembly"
func Normalize(name string) string {
	return strings.Join(strings.Fields(lower.String(name)), "_")
}

// Entries normalizes and deduplicates names. The first display form of each
// ID wins. Names that normalize to "" are dropped.
func Entries(names []string) []Entry {
	seen := make(map[string]struct{}, len(names))
	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		id := Normalize(name)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		entries = append(entries, Entry{ID: id, Name: strings.TrimSpace(name)})
	}
	return entries
}

// Keys returns the normalized IDs of names, deduplicated in first-seen order.
func Keys(names []string) []string {
	entries := Entries(names)
	keys := make([]string, len(entries))
	for i, entry := range entries {
		keys[i] = entry.ID
	}
	return keys
}

// Diff computes the ledger delta between the tag arrays after and before a
// project write. Comparison is on normalized IDs.
func Diff(newTags, oldTags []string) (toAdd, toRemove []Entry) {
	next := Entries(newTags)
	prev := Entries(oldTags)

	nextIDs := make(map[string]struct{}, len(next))
	for _, entry := range next {
		nextIDs[entry.ID] = struct{}{}
	}
	prevIDs := make(map[string]struct{}, len(prev))
	for _, entry := range prev {
		prevIDs[entry.ID] = struct{}{}
	}

	toAdd = slice.Filter(next, func(entry Entry) bool {
		_, ok := prevIDs[entry.ID]
		return !ok
	})
	toRemove = slice.Filter(prev, func(entry Entry) bool {
		_, ok := nextIDs[entry.ID]
		return !ok
	})
	return toAdd, toRemove
}
