// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"log/slog"
	"strings"

	"github.com/avpech/yamdb-final/internal/platform/access"
	"github.com/avpech/yamdb-final/internal/platform/middleware"
	"github.com/avpech/yamdb-final/internal/platform/sec"
	"github.com/avpech/yamdb-final/internal/platform/validate"
	"github.com/avpech/yamdb-final/internal/users/auth"
	"github.com/avpech/yamdb-final/pkg/pagination"
)

// # Service Layer

// Service orchestrates user management and the caller's own profile.
type Service struct {
	userRepository auth.UserRepository
	identityCache  IdentityCache
	logger         *slog.Logger
}

// NewService constructs a new [Service] with its repository dependencies.
func NewService(userRepo auth.UserRepository, cache IdentityCache, logger *slog.Logger) *Service {
	if cache == nil {
		cache = NoopCache{}
	}
	return &Service{
		userRepository: userRepo,
		identityCache:  cache,
		logger:         logger,
	}
}

// # Admin Management

/*
List returns one page of accounts, optionally filtered by username.

Parameters:
  - context: context.Context
  - actor: access.Actor
  - search: string (case-insensitive username substring)
  - page: pagination.Params

Returns:
  - []*auth.User: The page
  - int: Total matching accounts
  - error: FORBIDDEN for non-admins
*/
func (service *Service) List(context context.Context, actor access.Actor, search string, page pagination.Params) ([]*auth.User, int, error) {
	if err := access.Check(actor, access.List, access.User, 0); err != nil {
		return nil, 0, err
	}
	return service.userRepository.List(context, auth.UserFilter{Search: search}, page.Limit, page.Offset())
}

/*
Create provisions an account directly, bypassing the signup flow.

Description: The role defaults to "user". The new account can obtain a
token through /auth/signup with the same username and email.
*/
func (service *Service) Create(context context.Context, actor access.Actor, input CreateInput) (*auth.User, error) {
	if err := access.Check(actor, access.Create, access.User, 0); err != nil {
		return nil, err
	}

	role := sec.RoleUser
	if strings.TrimSpace(input.Role) != "" {
		role = sec.Role(input.Role)
	}

	user := &auth.User{
		Username:  input.Username,
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Bio:       input.Bio,
		Role:      role,
	}

	if err := auth.ValidateProfile(user); err != nil {
		return nil, err
	}

	if err := service.userRepository.Create(context, user); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "user_created",
		slog.Int64("user_id", user.ID),
		slog.Int64("by_user_id", actor.UserID),
		slog.String("role", user.Role.String()),
	)
	return user, nil
}

// Get returns the account addressed by username. Admin only.
func (service *Service) Get(context context.Context, actor access.Actor, username string) (*auth.User, error) {
	if err := access.Check(actor, access.Retrieve, access.User, 0); err != nil {
		return nil, err
	}
	return service.userRepository.FindByUsername(context, username)
}

/*
Update applies a partial change to the account addressed by username.

Description: Unlike [Service.UpdateMe], the role is writable here. The
cached identity is dropped so a role change applies to the very next request
carrying the user's existing token.
*/
func (service *Service) Update(context context.Context, actor access.Actor, username string, patch ProfilePatch) (*auth.User, error) {
	if err := access.Check(actor, access.PartialUpdate, access.User, 0); err != nil {
		return nil, err
	}

	user, err := service.userRepository.FindByUsername(context, username)
	if err != nil {
		return nil, err
	}

	previousRole := user.Role
	if err := service.save(context, user, patch, true); err != nil {
		return nil, err
	}

	if user.Role != previousRole {
		service.logger.InfoContext(context, "user_role_changed",
			slog.Int64("user_id", user.ID),
			slog.Int64("by_user_id", actor.UserID),
			slog.String("from", previousRole.String()),
			slog.String("to", user.Role.String()),
		)
	}
	return user, nil
}

// Delete removes the account addressed by username, with its reviews and comments.
func (service *Service) Delete(context context.Context, actor access.Actor, username string) error {
	if err := access.Check(actor, access.Destroy, access.User, 0); err != nil {
		return err
	}

	user, err := service.userRepository.FindByUsername(context, username)
	if err != nil {
		return err
	}

	if err := service.userRepository.Delete(context, user.ID); err != nil {
		return err
	}
	service.forget(context, user.ID)

	service.logger.InfoContext(context, "user_deleted",
		slog.Int64("user_id", user.ID),
		slog.Int64("by_user_id", actor.UserID),
	)
	return nil
}

// # Own Profile

// Me returns the caller's own account.
func (service *Service) Me(context context.Context, actor access.Actor) (*auth.User, error) {
	if err := access.Check(actor, access.Retrieve, access.User, actor.UserID); err != nil {
		return nil, err
	}
	return service.userRepository.FindByID(context, actor.UserID)
}

/*
UpdateMe applies a partial change to the caller's own account.

Description: A role in the patch is ignored, never rejected.
*/
func (service *Service) UpdateMe(context context.Context, actor access.Actor, patch ProfilePatch) (*auth.User, error) {
	if err := access.Check(actor, access.PartialUpdate, access.User, actor.UserID); err != nil {
		return nil, err
	}

	user, err := service.userRepository.FindByID(context, actor.UserID)
	if err != nil {
		return nil, err
	}

	if err := service.save(context, user, patch, false); err != nil {
		return nil, err
	}
	return user, nil
}

// # Identity Resolution

/*
ResolveIdentity returns the current username and role of an account.

Description: Implements [middleware.IdentityResolver]. Cache failures are
logged and fall through to PostgreSQL.

Returns:
  - *middleware.Identity: Current identity
  - error: NOT_FOUND when the account no longer exists
*/
func (service *Service) ResolveIdentity(context context.Context, userID int64) (*middleware.Identity, error) {
	identity, found, err := service.identityCache.Get(context, userID)
	if err != nil {
		service.logger.WarnContext(context, "identity_cache_read_failed", slog.Int64("user_id", userID), slog.Any("error", err))
	}
	if found {
		return identity, nil
	}

	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return nil, err
	}

	identity = &middleware.Identity{UserID: user.ID, Username: user.Username, Role: user.Role}
	if err := service.identityCache.Set(context, identity); err != nil {
		service.logger.WarnContext(context, "identity_cache_write_failed", slog.Int64("user_id", userID), slog.Any("error", err))
	}
	return identity, nil
}

// # Helpers

// save applies patch to user, validates the result and persists it.
func (service *Service) save(context context.Context, user *auth.User, patch ProfilePatch, roleWritable bool) error {
	apply(user, patch, roleWritable)

	if err := auth.ValidateProfile(user); err != nil {
		return err
	}

	if err := service.userRepository.Update(context, user); err != nil {
		return err
	}
	service.forget(context, user.ID)
	return nil
}

// forget drops the cached identity after a write.
func (service *Service) forget(context context.Context, userID int64) {
	if err := service.identityCache.Invalidate(context, userID); err != nil {
		service.logger.WarnContext(context, "identity_cache_invalidate_failed", slog.Int64("user_id", userID), slog.Any("error", err))
	}
}

func apply(user *auth.User, patch ProfilePatch, roleWritable bool) {
	if patch.Username != nil {
		user.Username = *patch.Username
	}
	if patch.Email != nil {
		user.Email = *patch.Email
	}
	if patch.FirstName != nil {
		user.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		user.LastName = *patch.LastName
	}
	if patch.Bio != nil {
		user.Bio = *patch.Bio
	}
	if roleWritable && patch.Role != nil {
		user.Role = sec.Role(*patch.Role)
	}
}

// usernameParam rejects path values that can never address an account.
func usernameParam(username string) bool {
	return username != "" && validate.IsUsername(username)
}
