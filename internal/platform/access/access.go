// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package access decides whether an actor may perform an action on a resource.

Every decision is a lookup in a single static table keyed by
(principal, resource, action). A cell holds one of three grants:

  - deny:  never allowed.
  - allow: always allowed.
  - owner: allowed only when the actor owns the concrete resource.

The principal is derived from the actor: anonymous callers, or the closed
[sec.Role] of an authenticated one. Nothing outside this package compares
roles to decide permissions.
*/
package access

import (
	"github.com/avpech/yamdb-final/internal/platform/apperr"
	"github.com/avpech/yamdb-final/internal/platform/sec"
)

// # Vocabulary

// Action is the operation being attempted.
type Action string

const (
	List          Action = "list"
	Retrieve      Action = "retrieve"
	Create        Action = "create"
	Update        Action = "update"
	PartialUpdate Action = "partial_update"
	Destroy       Action = "destroy"
)

// Resource is the kind of entity the action targets.
type Resource string

const (
	User     Resource = "user"
	Category Resource = "category"
	Genre    Resource = "genre"
	Title    Resource = "title"
	Review   Resource = "review"
	Comment  Resource = "comment"
)

// Grant is the outcome stored in a policy cell.
type Grant uint8

const (
	Deny Grant = iota
	Allow
	Owner
)

// principal is the row key of the policy table.
type principal string

const anonymous principal = "anonymous"

// # Actor

// Actor is the caller on whose behalf an action is attempted.
type Actor struct {
	UserID        int64
	Role          sec.Role
	Authenticated bool
}

// Anonymous returns the actor used for requests without credentials.
func Anonymous() Actor {
	return Actor{}
}

// Authenticated returns an actor for a signed-in user.
func Authenticated(userID int64, role sec.Role) Actor {
	return Actor{UserID: userID, Role: role, Authenticated: true}
}

// Owns reports whether the actor is the owner identified by ownerID.
func (actor Actor) Owns(ownerID int64) bool {
	return actor.Authenticated && ownerID != 0 && actor.UserID == ownerID
}

func (actor Actor) principal() principal {
	if !actor.Authenticated {
		return anonymous
	}
	return principal(actor.Role)
}

// # Policy Table

var (
	reads         = []Action{List, Retrieve}
	writes        = []Action{Update, PartialUpdate, Destroy}
	everyAction   = []Action{List, Retrieve, Create, Update, PartialUpdate, Destroy}
	catalog       = []Resource{Category, Genre, Title}
	contributions = []Resource{Review, Comment}
	allResources  = []Resource{User, Category, Genre, Title, Review, Comment}
)

// policy is built once at package initialisation and never mutated.
var policy = buildPolicy()

func buildPolicy() map[principal]map[Resource]map[Action]Grant {
	table := map[principal]map[Resource]map[Action]Grant{}
	set := func(who principal, resources []Resource, actions []Action, grant Grant) {
		if table[who] == nil {
			table[who] = map[Resource]map[Action]Grant{}
		}
		for _, resource := range resources {
			if table[who][resource] == nil {
				table[who][resource] = map[Action]Grant{}
			}
			for _, action := range actions {
				table[who][resource][action] = grant
			}
		}
	}

	// Anonymous callers browse the catalog and nothing else.
	set(anonymous, catalog, reads, Allow)

	// Signed-in users: browse everything public, contribute, manage their own
	// contributions and their own profile.
	member := func(who principal) {
		set(who, catalog, reads, Allow)
		set(who, contributions, reads, Allow)
		set(who, contributions, []Action{Create}, Allow)
		set(who, contributions, writes, Owner)
		set(who, []Resource{User}, []Action{Retrieve, PartialUpdate}, Owner)
	}
	member(principal(sec.RoleUser))
	member(principal(sec.RoleModerator))

	// Moderators override ownership on contributions.
	set(principal(sec.RoleModerator), contributions, writes, Allow)

	// Admins may do everything, including user and role management.
	set(principal(sec.RoleAdmin), allResources, everyAction, Allow)

	return table
}

// Lookup returns the grant stored for (actor, resource, action).
// Unknown roles, resources and actions resolve to [Deny].
func Lookup(actor Actor, resource Resource, action Action) Grant {
	if actor.Authenticated && !actor.Role.Valid() {
		return Deny
	}
	return policy[actor.principal()][resource][action]
}

// # Evaluation

// Allowed reports whether the actor may perform action on resource.
//
// ownerID identifies the owner of the concrete resource; pass 0 when the
// check happens before a resource is loaded (list, create) or when the
// resource has no owner. An [Owner] grant never passes with ownerID 0.
func Allowed(actor Actor, action Action, resource Resource, ownerID int64) bool {
	switch Lookup(actor, resource, action) {
	case Allow:
		return true
	case Owner:
		return actor.Owns(ownerID)
	default:
		return false
	}
}

// MayAttempt reports whether the action could succeed for some resource the
// actor owns. Route guards use it before the concrete resource is loaded.
func MayAttempt(actor Actor, action Action, resource Resource) bool {
	return Lookup(actor, resource, action) != Deny
}

// Check is [Allowed] expressed as an error.
//
// A denied anonymous actor gets UNAUTHORIZED (401) so clients know that
// signing in may help; a denied authenticated actor gets FORBIDDEN (403).
func Check(actor Actor, action Action, resource Resource, ownerID int64) error {
	if Allowed(actor, action, resource, ownerID) {
		return nil
	}
	return denial(actor)
}

// CheckAttempt is [MayAttempt] expressed as an error, with the same
// status split as [Check].
func CheckAttempt(actor Actor, action Action, resource Resource) error {
	if MayAttempt(actor, action, resource) {
		return nil
	}
	return denial(actor)
}

func denial(actor Actor) error {
	if !actor.Authenticated {
		return apperr.Unauthorized("Authentication required")
	}
	return apperr.Forbidden("You do not have permission to perform this action")
}
