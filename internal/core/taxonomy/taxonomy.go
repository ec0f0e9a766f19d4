// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package taxonomy manages the flat, slug-keyed classifications of the catalog:
categories and genres.

Both share one shape and one set of rules, so a single [Service] serves
either table. The [Kind] passed to every call selects which one.

Deleting a category leaves its titles in place with no category. Deleting a
genre drops it from every title's genre set.
*/
package taxonomy

import (
	"github.com/avpech/yamdb-final/internal/platform/access"
	"github.com/avpech/yamdb-final/internal/platform/database/schema"
)

// Kind selects the classification table an operation targets.
type Kind string

const (
	Category Kind = "category"
	Genre    Kind = "genre"
)

// Field limits.
const (
	NameMaxLen = 200
	SlugMaxLen = 50
)

// Field names used in validation details.
const (
	FieldName = "name"
	FieldSlug = "slug"
)

// Taxonomy is a single category or genre.
type Taxonomy struct {
	ID   int64  `json:"-"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Resource returns the permission-table resource of the kind.
func (kind Kind) Resource() access.Resource {
	if kind == Genre {
		return access.Genre
	}
	return access.Category
}

// Label is the human-readable resource name used in error messages.
func (kind Kind) Label() string {
	if kind == Genre {
		return "Genre"
	}
	return "Category"
}

// Valid reports whether kind is a known classification.
func (kind Kind) Valid() bool {
	return kind == Category || kind == Genre
}

func (kind Kind) table() schema.TaxonomyTable {
	if kind == Genre {
		return schema.CatalogGenre
	}
	return schema.CatalogCategory
}
