// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package access_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/avpech/yamdb-final/internal/platform/access"
	"github.com/avpech/yamdb-final/internal/platform/apperr"
	"github.com/avpech/yamdb-final/internal/platform/sec"
)

const (
	ownerID    int64 = 7
	strangerID int64 = 8
)

var (
	anon      = access.Anonymous()
	owner     = access.Authenticated(ownerID, sec.RoleUser)
	stranger  = access.Authenticated(strangerID, sec.RoleUser)
	moderator = access.Authenticated(100, sec.RoleModerator)
	admin     = access.Authenticated(200, sec.RoleAdmin)
)

/*
TestAllowed_Matrix walks the permission matrix row by row.
*/
func TestAllowed_Matrix(t *testing.T) {
	tests := []struct {
		name     string
		actor    access.Actor
		action   access.Action
		resource access.Resource
		owner    int64
		allowed  bool
	}{
		// Anonymous: catalog reads only.
		{"anon_list_titles", anon, access.List, access.Title, 0, true},
		{"anon_retrieve_category", anon, access.Retrieve, access.Category, 0, true},
		{"anon_list_genres", anon, access.List, access.Genre, 0, true},
		{"anon_create_title", anon, access.Create, access.Title, 0, false},
		{"anon_list_reviews", anon, access.List, access.Review, 0, false},
		{"anon_create_review", anon, access.Create, access.Review, 0, false},
		{"anon_retrieve_user", anon, access.Retrieve, access.User, 0, false},

		// Plain users.
		{"user_create_review", owner, access.Create, access.Review, 0, true},
		{"user_create_comment", owner, access.Create, access.Comment, 0, true},
		{"user_list_reviews", owner, access.List, access.Review, 0, true},
		{"user_update_own_review", owner, access.Update, access.Review, ownerID, true},
		{"user_patch_own_comment", owner, access.PartialUpdate, access.Comment, ownerID, true},
		{"user_destroy_own_review", owner, access.Destroy, access.Review, ownerID, true},
		{"user_update_foreign_review", stranger, access.Update, access.Review, ownerID, false},
		{"user_destroy_foreign_comment", stranger, access.Destroy, access.Comment, ownerID, false},
		{"user_owner_grant_needs_owner", owner, access.Update, access.Review, 0, false},
		{"user_create_category", owner, access.Create, access.Category, 0, false},
		{"user_destroy_title", owner, access.Destroy, access.Title, 0, false},
		{"user_list_users", owner, access.List, access.User, 0, false},
		{"user_retrieve_self", owner, access.Retrieve, access.User, ownerID, true},
		{"user_patch_self", owner, access.PartialUpdate, access.User, ownerID, true},
		{"user_patch_other_user", stranger, access.PartialUpdate, access.User, ownerID, false},
		{"user_destroy_self", owner, access.Destroy, access.User, ownerID, false},

		// Moderators.
		{"moderator_update_foreign_review", moderator, access.Update, access.Review, ownerID, true},
		{"moderator_destroy_foreign_comment", moderator, access.Destroy, access.Comment, ownerID, true},
		{"moderator_create_review", moderator, access.Create, access.Review, 0, true},
		{"moderator_create_genre", moderator, access.Create, access.Genre, 0, false},
		{"moderator_update_title", moderator, access.PartialUpdate, access.Title, 0, false},
		{"moderator_list_users", moderator, access.List, access.User, 0, false},
		{"moderator_patch_other_user", moderator, access.PartialUpdate, access.User, ownerID, false},

		// Admins.
		{"admin_create_category", admin, access.Create, access.Category, 0, true},
		{"admin_destroy_title", admin, access.Destroy, access.Title, 0, true},
		{"admin_update_foreign_review", admin, access.Update, access.Review, ownerID, true},
		{"admin_list_users", admin, access.List, access.User, 0, true},
		{"admin_update_user", admin, access.Update, access.User, ownerID, true},
		{"admin_destroy_user", admin, access.Destroy, access.User, ownerID, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, access.Allowed(tt.actor, tt.action, tt.resource, tt.owner))
		})
	}
}

/*
TestCheck_DenialKinds ensures anonymous denials are 401 and authenticated denials are 403.
*/
func TestCheck_DenialKinds(t *testing.T) {
	err := access.Check(anon, access.Create, access.Review, 0)
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized))

	err = access.Check(stranger, access.Destroy, access.Review, ownerID)
	assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))

	assert.NoError(t, access.Check(moderator, access.Destroy, access.Review, ownerID))
}

/*
TestCheckAttempt covers route guards that run before a resource is loaded.
*/
func TestCheckAttempt(t *testing.T) {
	// Owner-gated actions pass the guard; the service decides once the owner is known.
	assert.NoError(t, access.CheckAttempt(stranger, access.Update, access.Review))
	assert.NoError(t, access.CheckAttempt(owner, access.PartialUpdate, access.User))

	assert.Error(t, access.CheckAttempt(owner, access.Create, access.Title))
	assert.Error(t, access.CheckAttempt(anon, access.Update, access.Review))
}

/*
TestLookup_UnknownRole checks that a role outside the closed set grants nothing.
*/
func TestLookup_UnknownRole(t *testing.T) {
	rogue := access.Authenticated(1, sec.Role("superuser"))
	assert.Equal(t, access.Deny, access.Lookup(rogue, access.Title, access.List))
	assert.False(t, access.Allowed(rogue, access.Retrieve, access.Category, 0))
	assert.True(t, apperr.HasCode(access.Check(rogue, access.List, access.Title, 0), apperr.CodeForbidden))
}
