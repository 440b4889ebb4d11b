// Copyright (c) 2026 HWSphere. All rights reserved.
// Author: Bryan Pineda

// Package pagination provides the cursor and page-size helpers used by the
// project listing and search endpoints.
//
// # Cursor
//
// A [Cursor] records the (id, createdAt, likeCount) of the last row of a page.
// It is an approximate continuation token: rows inserted or re-ranked between
// two page requests can be skipped or repeated.
package pagination

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"
)

const (
	// DefaultPageSize is the number of items per page if not specified.
	DefaultPageSize = 6
	// MaxPageSize bounds caller-supplied page sizes.
	MaxPageSize = 50
)

// ErrInvalidCursor is returned by [Decode] for malformed tokens.
var ErrInvalidCursor = errors.New("pagination: invalid cursor")

// Cursor identifies the last row returned by a page.
type Cursor struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	LikeCount int       `json:"likeCount"`
}

// Encode renders the cursor as an opaque URL-safe token.
func (c Cursor) Encode() string {
	raw, _ := json.Marshal(c)
	return base64.RawURLEncoding.EncodeToString(raw)
}

// Decode parses a token produced by [Cursor.Encode]. An empty token yields nil.
func Decode(token string) (*Cursor, error) {
	if token == "" {
		return nil, nil
	}

	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, ErrInvalidCursor
	}

	var cursor Cursor
	if err := json.Unmarshal(raw, &cursor); err != nil || cursor.ID == "" {
		return nil, ErrInvalidCursor
	}
	return &cursor, nil
}

// Meta is the pagination metadata included in API list responses.
type Meta struct {
	PageSize    int     `json:"pageSize"`
	Count       int     `json:"count"`
	LastVisible *Cursor `json:"lastVisible,omitempty"`
	NextCursor  string  `json:"nextCursor,omitempty"`
}

// NewMeta builds response metadata from the page size, row count and last cursor.
func NewMeta(pageSize, count int, last *Cursor) Meta {
	meta := Meta{PageSize: pageSize, Count: count, LastVisible: last}
	if last != nil {
		meta.NextCursor = last.Encode()
	}
	return meta
}

// ClampPageSize maps non-positive sizes to [DefaultPageSize] and caps at [MaxPageSize].
func ClampPageSize(size int) int {
	if size <= 0 {
		return DefaultPageSize
	}
	if size > MaxPageSize {
		return MaxPageSize
	}
	return size
}

// PageSizeFromRequest parses the "pageSize" query parameter with clamping.
func PageSizeFromRequest(r *http.Request) int {
	raw := r.URL.Query().Get("pageSize")
	if raw == "" {
		return DefaultPageSize
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return DefaultPageSize
	}

	return ClampPageSize(n)
}
