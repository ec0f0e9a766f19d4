// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema_test

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avpech/yamdb-final/internal/platform/database/schema"
)

/*
TestPolicyFor pins the deletion policy of every foreign key.
*/
func TestPolicyFor(t *testing.T) {
	tests := []struct {
		child  string
		column string
		want   schema.DeletePolicy
	}{
		{schema.CatalogTitle.Table, "category_id", schema.SetNull},
		{schema.CatalogTitleGenre.Table, "title_id", schema.Cascade},
		{schema.CatalogTitleGenre.Table, "genre_id", schema.Cascade},
		{schema.SocialReview.Table, "title_id", schema.Cascade},
		{schema.SocialReview.Table, "author_id", schema.Cascade},
		{schema.SocialComment.Table, "review_id", schema.Cascade},
		{schema.SocialComment.Table, "author_id", schema.Cascade},
	}

	for _, tc := range tests {
		t.Run(tc.child+"."+tc.column, func(t *testing.T) {
			policy, ok := schema.PolicyFor(tc.child, tc.column)
			require.True(t, ok)
			assert.Equal(t, tc.want, policy)
		})
	}

	assert.Len(t, schema.Relations(), len(tests))

	_, ok := schema.PolicyFor(schema.CatalogTitle.Table, "name")
	assert.False(t, ok)
}

/*
TestDependents verifies that a title owns its genre links and reviews.
*/
func TestDependents(t *testing.T) {
	var children []string
	for _, relation := range schema.Dependents(schema.CatalogTitle.Table) {
		children = append(children, relation.Child)
	}
	assert.ElementsMatch(t, []string{schema.CatalogTitleGenre.Table, schema.SocialReview.Table}, children)
	assert.Empty(t, schema.Dependents(schema.SocialComment.Table))
}

/*
TestRelations_MatchMigration checks that every declared policy appears in the
initial migration next to its column.
*/
func TestRelations_MatchMigration(t *testing.T) {
	raw, err := os.ReadFile(filepath.Join("..", "..", "..", "..", "data", "migrations", "000001_init_schema.up.sql"))
	require.NoError(t, err)
	sql := strings.Join(strings.Fields(string(raw)), " ")

	for _, relation := range schema.Relations() {
		pattern := fmt.Sprintf(`%s BIGINT( NOT NULL)? REFERENCES %s \(id\) ON DELETE %s`,
			regexp.QuoteMeta(relation.Column),
			regexp.QuoteMeta(relation.Parent),
			regexp.QuoteMeta(string(relation.OnDelete)),
		)
		assert.Regexp(t, regexp.MustCompile(pattern), sql, relation.Child+"."+relation.Column)
	}
}
