// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account handles user management and the caller's own profile.

It provides two surfaces over the same accounts:

  - /users and /users/{username}: admin-only management, including roles.
  - /users/me: any signed-in user reads and edits their own profile; the
    role is read-only there.

# Architecture

  - Domain: This package depends on the auth package for the User entity
    and its repository.
  - Identity: [Service.ResolveIdentity] feeds the authentication middleware
    with the account's current role, cached in Redis (see [IdentityCache]).
*/
package account

import (
	"context"

	"github.com/avpech/yamdb-final/internal/platform/middleware"
)

// # Inputs

// CreateInput holds the fields an admin may set on a new account.
type CreateInput struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Bio       string
	Role      string
}

// ProfilePatch is a partial update. Nil fields are left unchanged.
type ProfilePatch struct {
	Username  *string
	Email     *string
	FirstName *string
	LastName  *string
	Bio       *string
	Role      *string
}

// # Identity Cache

// IdentityCache holds recently resolved identities.
//
// Implementations are best-effort: a failed read is a miss and a failed
// write is ignored by the caller after logging.
type IdentityCache interface {
	Get(context context.Context, userID int64) (*middleware.Identity, bool, error)
	Set(context context.Context, identity *middleware.Identity) error
	Invalidate(context context.Context, userID int64) error
}

// NoopCache disables identity caching.
type NoopCache struct{}

func (NoopCache) Get(context.Context, int64) (*middleware.Identity, bool, error) {
	return nil, false, nil
}

func (NoopCache) Set(context.Context, *middleware.Identity) error { return nil }

func (NoopCache) Invalidate(context.Context, int64) error { return nil }
