// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validate_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avpech/yamdb-final/internal/platform/apperr"
	"github.com/avpech/yamdb-final/internal/platform/validate"
)

func fieldsOf(t *testing.T, err error) []string {
	t.Helper()
	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	require.Equal(t, apperr.CodeValidation, appErr.Code)

	fields := make([]string, 0, len(appErr.Details))
	for _, detail := range appErr.Details {
		fields = append(fields, detail.Field)
	}
	return fields
}

func TestValidator_Accumulates(t *testing.T) {
	err := (&validate.Validator{}).
		Required("name", "  ").
		MaxLen("description", strings.Repeat("ж", 11), 10).
		Range("score", 11, 1, 10).
		Email("email", "not-an-email").
		Custom("year", true, "Cannot be in the future").
		Err()

	assert.Equal(t, []string{"name", "description", "score", "email", "year"}, fieldsOf(t, err))
}

func TestValidator_PassingChain(t *testing.T) {
	v := &validate.Validator{}
	err := v.
		Required("name", "Solaris").
		MaxLen("name", strings.Repeat("ж", 10), 10).
		Range("score", 10, 1, 10).
		Email("email", "critic@yamdb.local").
		Slug("slug", "sci-fi").
		Custom("year", false, "unused").
		Err()

	assert.NoError(t, err)
	assert.False(t, v.HasErrors())
}

func TestValidator_Email(t *testing.T) {
	for value, valid := range map[string]bool{
		"test@example.com":       true,
		"invalid-email":          false,
		"test@":                  false,
		"":                       false,
		"Critic <c@example.com>": false,
		" padded@example.com ":   false,
	} {
		v := (&validate.Validator{}).Email("email", value)
		assert.Equal(t, !valid, v.HasErrors(), value)
	}
}

func TestValidator_Username(t *testing.T) {
	tests := []struct {
		username string
		valid    bool
	}{
		{"reader", true},
		{"a.b@c+d-e_f", true},
		{"читатель", true},
		{strings.Repeat("a", 150), true},
		{strings.Repeat("a", 151), false},
		{"two words", false},
		{"a/b", false},
		{"me", false},
		{"me2", true},
	}

	for _, tc := range tests {
		v := (&validate.Validator{}).Username("username", tc.username)
		assert.Equal(t, !tc.valid, v.HasErrors(), tc.username)
		assert.Equal(t, tc.valid, validate.IsUsername(tc.username), tc.username)
	}
}

func TestIsSlug(t *testing.T) {
	assert.True(t, validate.IsSlug("sci-fi"))
	assert.True(t, validate.IsSlug("Arthouse_2"))
	assert.False(t, validate.IsSlug(""))
	assert.False(t, validate.IsSlug("with space"))
	assert.False(t, validate.IsSlug("naïve"))
}

func TestValidator_RangeBounds(t *testing.T) {
	for score, valid := range map[int]bool{0: false, 1: true, 5: true, 10: true, 11: false} {
		v := (&validate.Validator{}).Range("score", score, 1, 10)
		assert.Equal(t, !valid, v.HasErrors(), "score %d", score)
	}
}

type signupPayload struct {
	Username string  `json:"username" validate:"required,username"`
	Email    string  `json:"email" validate:"required,email,max=254"`
	Slug     string  `json:"slug" validate:"omitempty,slugfield"`
	Bio      *string `json:"bio" validate:"omitempty,max=5"`
}

func TestPayload(t *testing.T) {
	assert.NoError(t, validate.Payload(&signupPayload{Username: "reader", Email: "reader@yamdb.local"}))

	bio := "far too long"
	err := validate.Payload(&signupPayload{Username: "me", Email: "nope", Slug: "a b", Bio: &bio})
	assert.ElementsMatch(t, []string{"username", "email", "slug", "bio"}, fieldsOf(t, err))
}
