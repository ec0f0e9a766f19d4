// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package slug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/avpech/yamdb-final/pkg/slug"
)

func TestFrom(t *testing.T) {
	tests := map[string]string{
		"Science Fiction":     "science-fiction",
		"  Film Noir!  ":      "film-noir",
		"Café Crème":          "cafe-creme",
		"Rock & Roll -- 1950": "rock-roll-1950",
		"???":                 "",
	}

	for input, want := range tests {
		assert.Equal(t, want, slug.From(input), input)
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", slug.Truncate("short", 10))
	assert.Equal(t, "a-very", slug.Truncate("a-very-long-slug", 7))
	assert.Equal(t, "abc", slug.Truncate("abcdef", 3))
}
