// Copyright (c) 2026 HWSphere. All rights reserved.
// Author: Bryan Pineda

// Package slug generates ASCII-safe names from arbitrary Unicode strings.
//
// # Usage
//
// Uploaded file names are slugged before they become part of an object key,
// so keys stay URL-safe regardless of what the client sent.
package slug

import (
	"path"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// nonAlphanumeric matches any sequence of characters outside [a-z0-9-].
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9-]+`)
	// multiHyphen collapses multiple consecutive hyphens into one.
	multiHyphen = regexp.MustCompile(`-{2,}`)
)

// From converts an arbitrary Unicode string into a URL-safe ASCII slug.
//
// # Transformation Pipeline
//
// 1. Normalizes to NFD and drops combining marks (é → e).
// 2. Lowercases.
// 3. Replaces every non-alphanumeric run with a single hyphen.
// 4. Trims leading/trailing hyphens.
func From(s string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn))
	result, _, _ := transform.String(t, s)

	result = strings.ToLower(result)

	result = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return '-'
	}, result)

	result = nonAlphanumeric.ReplaceAllString(result, "-")
	result = multiHyphen.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")

	return result
}

// FileName slugs the stem of a file name and keeps its (lowercased) extension.
// Directory components are discarded. An empty stem becomes "file".
//
// Example:
//
//	slug.FileName("../Drone Frame v2.STL") // "drone-frame-v2.stl"
func FileName(name string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	ext := path.Ext(base)
	stem := From(strings.TrimSuffix(base, ext))
	if stem == "" {
		stem = "file"
	}

	ext = From(strings.TrimPrefix(ext, "."))
	if ext == "" {
		return stem
	}
	return stem + "." + ext
}

// isMn reports whether r is a Unicode non-spacing mark (e.g., accents).
func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
