// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import "fmt"

// # User Roles

// Role represents the authorization level granted to an account.
//
// The set is closed: a value outside it never grants anything. Roles are
// flat, so there is no ordering between them. What each role may do is
// decided by the permission table in package access.
type Role string

const (
	// RoleUser is the default role for every account created through signup.
	RoleUser Role = "user"

	// RoleModerator may edit and remove any review or comment.
	RoleModerator Role = "moderator"

	// RoleAdmin has unrestricted access, including user and role management.
	RoleAdmin Role = "admin"
)

// Roles lists every valid role in display order.
var Roles = []Role{RoleUser, RoleModerator, RoleAdmin}

// ParseRole converts a raw string into a [Role], rejecting unknown values.
func ParseRole(raw string) (Role, error) {
	role := Role(raw)
	if !role.Valid() {
		return "", fmt.Errorf("sec: unknown role %q", raw)
	}
	return role, nil
}

// Valid reports whether r belongs to the closed role set.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

// IsAdmin reports whether r is the admin role.
func (r Role) IsAdmin() bool { return r == RoleAdmin }

// IsModerator reports whether r is the moderator role.
func (r Role) IsModerator() bool { return r == RoleModerator }

// String implements [fmt.Stringer].
func (r Role) String() string { return string(r) }

// RoleStrings returns the string form of [Roles], for validation messages.
func RoleStrings() []string {
	out := make([]string, len(Roles))
	for i, role := range Roles {
		out[i] = string(role)
	}
	return out
}
