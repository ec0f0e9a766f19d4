// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package migration

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

/*
TestConvertToPgx5DSN verifies scheme rewriting for golang-migrate.
*/
func TestConvertToPgx5DSN(t *testing.T) {
	tests := map[string]string{
		"postgres://u:p@db:5432/yamdb":   "pgx5://u:p@db:5432/yamdb",
		"postgresql://u:p@db:5432/yamdb": "pgx5://u:p@db:5432/yamdb",
		"pgx5://u:p@db:5432/yamdb":       "pgx5://u:p@db:5432/yamdb",
		"host=db dbname=yamdb":           "host=db dbname=yamdb",
	}

	for input, want := range tests {
		assert.Equal(t, want, convertToPgx5DSN(input), input)
	}
}
