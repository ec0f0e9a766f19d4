// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pagination_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/avpech/yamdb-final/pkg/pagination"
)

func TestFromValues(t *testing.T) {
	tests := []struct {
		query string
		want  pagination.Params
	}{
		{"", pagination.Params{Page: 1, Limit: 20}},
		{"page=3&limit=5", pagination.Params{Page: 3, Limit: 5}},
		{"page=0&limit=-1", pagination.Params{Page: 1, Limit: 20}},
		{"page=two&limit=ten", pagination.Params{Page: 1, Limit: 20}},
		{"limit=1000", pagination.Params{Page: 1, Limit: 100}},
	}

	for _, tc := range tests {
		values, err := url.ParseQuery(tc.query)
		assert.NoError(t, err)
		assert.Equal(t, tc.want, pagination.FromValues(values), tc.query)
	}
}

func TestOffsetAndMeta(t *testing.T) {
	assert.Equal(t, 0, pagination.Params{Page: 1, Limit: 20}.Offset())
	assert.Equal(t, 40, pagination.Params{Page: 3, Limit: 20}.Offset())

	meta := pagination.NewMeta(2, 20, 41)
	assert.Equal(t, 3, meta.TotalPages)
	assert.Zero(t, pagination.NewMeta(1, 20, 0).TotalPages)
}
