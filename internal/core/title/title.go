// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package title manages the reviewable works of the catalog.

# Relations

A title has at most one category and any number of genres, both referenced by
slug at the API boundary. Deleting its category clears the reference.
Deleting the title itself removes its reviews and, through them, their
comments.

# Rating

The rating is never stored. Every read recomputes it as the mean of the
title's review scores, and it is null while the title has no reviews.
*/
package title

import (
	"github.com/avpech/yamdb-final/internal/core/taxonomy"
)

// Field limits.
const (
	NameMaxLen        = 200
	DescriptionMaxLen = 255
)

// Field names used in validation details.
const (
	FieldName        = "name"
	FieldYear        = "year"
	FieldDescription = "description"
	FieldCategory    = "category"
	FieldGenre       = "genre"
)

// Title is a reviewable work as returned by the API.
type Title struct {
	ID          int64               `json:"id"`
	Name        string              `json:"name"`
	Year        int                 `json:"year"`
	Description *string             `json:"description"`
	Category    *taxonomy.Taxonomy  `json:"category"`
	Genres      []taxonomy.Taxonomy `json:"genre"`
	Rating      *float64            `json:"rating"`
}

// Filter narrows a title listing. Zero values disable a criterion.
type Filter struct {
	// CategorySlug matches the title's category exactly.
	CategorySlug string
	// GenreSlug matches titles carrying this genre.
	GenreSlug string
	// Name is a case-insensitive substring of the title name.
	Name string
	Year *int
}

// Record is the persisted shape of a title, with relations resolved to IDs.
type Record struct {
	Name        string
	Year        int
	Description *string
	CategoryID  *int64

	// GenreIDs replaces the genre set when ReplaceGenres is true.
	GenreIDs      []int64
	ReplaceGenres bool
}

// CreateInput carries a new title. Category and Genres are slugs.
type CreateInput struct {
	Name        string
	Year        int
	Description *string
	Category    string
	Genres      []string
}

// Patch is a partial update. Nil fields are left unchanged; an empty
// Category slug clears the category.
type Patch struct {
	Name        *string
	Year        *int
	Description *string
	Category    *string
	Genres      *[]string
}
