// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// TaxonomyTable represents a flat name/slug classification table.
// Categories and genres share this shape.
type TaxonomyTable struct {
	Table string
	ID    string
	Name  string
	Slug  string
}

// CatalogCategory is the schema definition for catalog.category
var CatalogCategory = TaxonomyTable{
	Table: "catalog.category",
	ID:    "id",
	Name:  "name",
	Slug:  "slug",
}

// CatalogGenre is the schema definition for catalog.genre
var CatalogGenre = TaxonomyTable{
	Table: "catalog.genre",
	ID:    "id",
	Name:  "name",
	Slug:  "slug",
}

func (t TaxonomyTable) Columns() []string {
	return []string{t.ID, t.Name, t.Slug}
}
