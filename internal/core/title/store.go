// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package title

import "context"

// Repository defines persistence operations for titles.
type Repository interface {
	/*
		List returns a filtered page of titles ordered by name, each with its
		category, genres and current rating.

		Returns:
		  - []*Title: The page
		  - int: Total matching titles
		  - error: Database failures
	*/
	List(context context.Context, filter Filter, limit, offset int) ([]*Title, int, error)

	// FindByID returns one title with its relations and rating.
	FindByID(context context.Context, id int64) (*Title, error)

	// Create inserts the title and its genre links atomically.
	Create(context context.Context, record *Record) (int64, error)

	// Update rewrites the title, and its genre set when requested, atomically.
	Update(context context.Context, id int64, record *Record) error

	// Delete removes the title. Reviews and comments follow by cascade.
	Delete(context context.Context, id int64) error
}
