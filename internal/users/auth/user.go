// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements the account identity and the confirmation-code sign-in flow.

# Flow

 1. POST /auth/signup registers (or re-finds) the account for a username and
    email, then mails a confirmation code.
 2. POST /auth/token exchanges username + confirmation code for an access token.

Codes are derived, never stored: see [CodeGenerator].
*/
package auth

import (
	"time"

	"github.com/avpech/yamdb-final/internal/platform/sec"
)

// # Domain Entities

// User represents a registered member of YaMDb.
type User struct {
	ID         int64     `json:"-"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Bio        string    `json:"bio"`
	Role       sec.Role  `json:"role"`
	DateJoined time.Time `json:"-"`
	UpdatedAt  time.Time `json:"-"`
}

// SameIdentity reports whether both accounts are the same row.
func (user *User) SameIdentity(other *User) bool {
	return user != nil && other != nil && user.ID == other.ID
}

// # Field Identifiers

// Global field names for validation and identity mapping in the authentication domain.
const (
	FieldUsername         = "username"
	FieldEmail            = "email"
	FieldFirstName        = "first_name"
	FieldLastName         = "last_name"
	FieldBio              = "bio"
	FieldRole             = "role"
	FieldConfirmationCode = "confirmation_code"
	FieldToken            = "token"
)
