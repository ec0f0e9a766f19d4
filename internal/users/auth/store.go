// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import "context"

// # User Data Access

// UserFilter narrows [UserRepository.List].
type UserFilter struct {
	// Search is a case-insensitive substring of the username.
	Search string
}

// UserRepository defines the data access contract for user accounts.
//
// Lookups return a NOT_FOUND [apperr.AppError] when no row matches, and
// writes that collide with a unique username or email return CONFLICT.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: int64

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or database failures
	*/
	FindByID(context context.Context, id int64) (*User, error)

	// FindByUsername returns the account with the given username.
	FindByUsername(context context.Context, username string) (*User, error)

	// FindByEmail returns the account with the given email.
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		Create persists a brand-new account and fills in its ID and join date.

		Returns:
		  - error: apperr.Conflict when the username or email is taken
	*/
	Create(context context.Context, user *User) error

	// Update persists every mutable field of the account, role included.
	Update(context context.Context, user *User) error

	// Delete removes the account. Its reviews and comments go with it.
	Delete(context context.Context, id int64) error

	// List returns one page of accounts ordered by join date and the total count.
	List(context context.Context, filter UserFilter, limit, offset int) ([]*User, int, error)
}
