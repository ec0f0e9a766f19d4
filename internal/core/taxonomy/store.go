// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package taxonomy

import "context"

// Repository defines the persistence operations for categories and genres.
type Repository interface {
	/*
		List returns one page of entries ordered by name.

		Parameters:
		  - context: context.Context
		  - kind: Kind
		  - search: string (case-insensitive name substring, empty for all)
		  - limit, offset: int

		Returns:
		  - []*Taxonomy: The page
		  - int: Total matching entries
		  - error: Database failures
	*/
	List(context context.Context, kind Kind, search string, limit, offset int) ([]*Taxonomy, int, error)

	// FindBySlugs returns the entries matching slugs. Unknown slugs are skipped.
	FindBySlugs(context context.Context, kind Kind, slugs []string) ([]*Taxonomy, error)

	// Create inserts entry and fills in its ID. A taken slug is a CONFLICT.
	Create(context context.Context, kind Kind, entry *Taxonomy) error

	// DeleteBySlug removes an entry. NOT_FOUND when the slug is unknown.
	DeleteBySlug(context context.Context, kind Kind, slug string) error
}
