// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// DeletePolicy is what happens to a child row when its parent is deleted.
type DeletePolicy string

const (
	// Cascade deletes the child row together with its parent.
	Cascade DeletePolicy = "CASCADE"

	// SetNull keeps the child row and clears the reference.
	SetNull DeletePolicy = "SET NULL"
)

// Relation is one foreign key between two tables.
type Relation struct {
	Child    string
	Column   string
	Parent   string
	OnDelete DeletePolicy
}

// relations mirrors the REFERENCES clauses of data/migrations.
var relations = []Relation{
	{Child: CatalogTitle.Table, Column: CatalogTitle.CategoryID, Parent: CatalogCategory.Table, OnDelete: SetNull},
	{Child: CatalogTitleGenre.Table, Column: CatalogTitleGenre.TitleID, Parent: CatalogTitle.Table, OnDelete: Cascade},
	{Child: CatalogTitleGenre.Table, Column: CatalogTitleGenre.GenreID, Parent: CatalogGenre.Table, OnDelete: Cascade},
	{Child: SocialReview.Table, Column: SocialReview.TitleID, Parent: CatalogTitle.Table, OnDelete: Cascade},
	{Child: SocialReview.Table, Column: SocialReview.AuthorID, Parent: UserAccount.Table, OnDelete: Cascade},
	{Child: SocialComment.Table, Column: SocialComment.ReviewID, Parent: SocialReview.Table, OnDelete: Cascade},
	{Child: SocialComment.Table, Column: SocialComment.AuthorID, Parent: UserAccount.Table, OnDelete: Cascade},
}

// Relations returns a copy of every declared foreign key.
func Relations() []Relation {
	out := make([]Relation, len(relations))
	copy(out, relations)
	return out
}

// PolicyFor returns the delete policy of child.column, if it is a foreign key.
func PolicyFor(child, column string) (DeletePolicy, bool) {
	for _, relation := range relations {
		if relation.Child == child && relation.Column == column {
			return relation.OnDelete, true
		}
	}
	return "", false
}

// Dependents returns the relations whose parent is the given table.
func Dependents(parent string) []Relation {
	var out []Relation
	for _, relation := range relations {
		if relation.Parent == parent {
			out = append(out, relation)
		}
	}
	return out
}
