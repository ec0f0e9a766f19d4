// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slug generates ASCII URL slugs from arbitrary Unicode strings.
//
// # Usage
//
// Categories and genres derive their slug from the display name when none is
// given, so "Science Fiction" is stored as "science-fiction".
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// hyphenRuns matches any run of characters that cannot appear in a slug.
var hyphenRuns = regexp.MustCompile(`[^a-z0-9]+`)

// stripMarks decomposes accented letters and drops the combining marks.
var stripMarks = transform.Chain(norm.NFD, transform.RemoveFunc(func(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}))

// From converts an arbitrary Unicode string into a URL-safe ASCII slug.
//
// # Transformation Pipeline
//
//  1. Decompose to NFD and remove accents (é → e).
//  2. Lowercase.
//  3. Collapse every run of other characters into a single hyphen.
//  4. Trim hyphens at both ends.
//
// Letters without an ASCII decomposition (e.g. Cyrillic) are dropped.
func From(s string) string {
	result, _, err := transform.String(stripMarks, s)
	if err != nil {
		result = s
	}

	result = hyphenRuns.ReplaceAllString(strings.ToLower(result), "-")
	return strings.Trim(result, "-")
}

// Truncate cuts a slug to at most limit bytes without leaving a trailing hyphen.
func Truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return strings.TrimRight(s[:limit], "-")
}
