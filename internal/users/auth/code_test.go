// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avpech/yamdb-final/internal/platform/sec"
	"github.com/avpech/yamdb-final/internal/users/auth"
)

func newGenerator(t *testing.T, c *clock) *auth.CodeGenerator {
	t.Helper()
	generator, err := auth.NewCodeGenerator("unit-test-secret", 72*time.Hour)
	require.NoError(t, err)
	return generator.WithClock(c.Now)
}

func sampleUser() *auth.User {
	return &auth.User{ID: 42, Username: "critic", Email: "critic@example.com", Role: sec.RoleUser}
}

/*
TestCodeGenerator_RoundTrip verifies that a fresh code verifies and can be
used more than once.
*/
func TestCodeGenerator_RoundTrip(t *testing.T) {
	c := &clock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	generator := newGenerator(t, c)
	user := sampleUser()

	code, expiresAt := generator.Generate(user)
	assert.Equal(t, c.Now().Add(72*time.Hour), expiresAt)
	assert.Equal(t, time.UTC, expiresAt.Location(), "mail and logs show a stable zone")
	assert.Contains(t, code, "-")

	assert.True(t, generator.Verify(user, code))
	assert.True(t, generator.Verify(user, code), "codes are reusable inside their window")

	stamp, mac, _ := strings.Cut(code, "-")
	assert.True(t, generator.Verify(user, stamp+"-"+strings.ToUpper(mac)), "hex case does not matter")
	assert.True(t, generator.Verify(user, " "+code+"\n"), "surrounding whitespace is ignored")
}

/*
TestCodeGenerator_Expiry verifies the validity window boundaries.
*/
func TestCodeGenerator_Expiry(t *testing.T) {
	c := &clock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	generator := newGenerator(t, c)
	user := sampleUser()

	code, _ := generator.Generate(user)

	c.Advance(72 * time.Hour)
	assert.True(t, generator.Verify(user, code), "valid at exactly the TTL")

	c.Advance(time.Second)
	assert.False(t, generator.Verify(user, code), "expired after the TTL")
}

/*
TestCodeGenerator_Invalidation verifies that changing any fingerprinted field
invalidates earlier codes.
*/
func TestCodeGenerator_Invalidation(t *testing.T) {
	c := &clock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	generator := newGenerator(t, c)

	mutations := map[string]func(*auth.User){
		"username":   func(u *auth.User) { u.Username = "critic2" },
		"email":      func(u *auth.User) { u.Email = "other@example.com" },
		"role":       func(u *auth.User) { u.Role = sec.RoleModerator },
		"first name": func(u *auth.User) { u.FirstName = "Ann" },
		"last name":  func(u *auth.User) { u.LastName = "Lee" },
		"bio":        func(u *auth.User) { u.Bio = "Film buff" },
		"id":         func(u *auth.User) { u.ID = 43 },
	}

	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			user := sampleUser()
			code, _ := generator.Generate(user)

			mutate(user)
			assert.False(t, generator.Verify(user, code))
		})
	}
}

/*
TestCodeGenerator_RejectsGarbage verifies malformed and foreign codes.
*/
func TestCodeGenerator_RejectsGarbage(t *testing.T) {
	c := &clock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	generator := newGenerator(t, c)
	user := sampleUser()

	other, err := auth.NewCodeGenerator("another-secret", 72*time.Hour)
	require.NoError(t, err)
	foreign, _ := other.WithClock(c.Now).Generate(user)

	future, _ := generator.WithClock(func() time.Time { return c.Now().Add(time.Hour) }).Generate(user)

	for _, code := range []string{"", "nodash", "zz-abc", "!!-0123456789abcdef0123", foreign, future} {
		assert.False(t, generator.Verify(user, code), code)
	}
}

/*
TestNewCodeGenerator_Guards verifies constructor validation.
*/
func TestNewCodeGenerator_Guards(t *testing.T) {
	_, err := auth.NewCodeGenerator("", time.Hour)
	assert.Error(t, err)

	_, err = auth.NewCodeGenerator("secret", 0)
	assert.Error(t, err)
}
