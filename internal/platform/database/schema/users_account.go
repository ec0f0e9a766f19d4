// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package schema names every table and column the stores touch.

Queries are assembled from these definitions instead of string literals, so
a renamed column is a compile-time change. The package also declares the
deletion policy of every foreign key (see [Relations]).
*/
package schema

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table      string
	ID         string
	Username   string
	Email      string
	FirstName  string
	LastName   string
	Bio        string
	Role       string
	DateJoined string
	UpdatedAt  string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:      "users.account",
	ID:         "id",
	Username:   "username",
	Email:      "email",
	FirstName:  "first_name",
	LastName:   "last_name",
	Bio:        "bio",
	Role:       "role",
	DateJoined: "date_joined",
	UpdatedAt:  "updated_at",
}

// Columns returns all standard column names
func (t UserAccountTable) Columns() []string {
	return []string{
		t.ID, t.Username, t.Email, t.FirstName, t.LastName,
		t.Bio, t.Role, t.DateJoined, t.UpdatedAt,
	}
}
