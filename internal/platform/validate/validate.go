// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package validate reports invalid input as one VALIDATION_ERROR
// [apperr.AppError] listing every failing field.
//
// [Payload] checks decoded request bodies against their struct tags.
// [Validator] is the service-layer rule chain for checks that need more
// context than one field, such as the current year or another record.
package validate

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/avpech/yamdb-final/internal/platform/apperr"
)

const (
	UsernameMaxLen = 150
	EmailMaxLen    = 254

	// ReservedUsername addresses the caller's own profile under /users/me.
	ReservedUsername = "me"
)

var (
	slugPattern     = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
	usernamePattern = regexp.MustCompile(`^[\p{L}\p{M}\p{N}_.@+-]+$`)

	ErrInvalidJSON = apperr.ValidationError("Invalid JSON payload")
)

func IsSlug(value string) bool { return slugPattern.MatchString(value) }

// IsUsername reports whether value is an acceptable account name.
func IsUsername(value string) bool { return usernameProblem(value) == "" }

func usernameProblem(value string) string {
	switch {
	case utf8.RuneCountInString(value) > UsernameMaxLen:
		return fmt.Sprintf("Maximum %d characters", UsernameMaxLen)
	case !usernamePattern.MatchString(value):
		return "Letters, digits and @/./+/-/_ only"
	case value == ReservedUsername:
		return fmt.Sprintf("Username %q is reserved", ReservedUsername)
	}
	return ""
}

// Validator accumulates field failures. Use a fresh one per operation.
//
//	err := (&validate.Validator{}).
//		Required("name", input.Name).
//		Custom("year", input.Year > now.Year(), "Cannot be in the future").
//		Err()
type Validator struct {
	failures []apperr.FieldError
}

// Custom records message for field when failed is true.
func (v *Validator) Custom(field string, failed bool, message string) *Validator {
	if failed {
		v.failures = append(v.failures, apperr.FieldError{Field: field, Message: message})
	}
	return v
}

func (v *Validator) Required(field, value string) *Validator {
	return v.Custom(field, strings.TrimSpace(value) == "", "This field is required")
}

// MaxLen counts runes, not bytes.
func (v *Validator) MaxLen(field, value string, max int) *Validator {
	return v.Custom(field, utf8.RuneCountInString(value) > max, fmt.Sprintf("Maximum %d characters", max))
}

// Range is inclusive on both ends.
func (v *Validator) Range(field string, value, min, max int) *Validator {
	return v.Custom(field, value < min || value > max, fmt.Sprintf("Must be between %d and %d", min, max))
}

// Email accepts a bare address only; display-name forms are rejected.
func (v *Validator) Email(field, value string) *Validator {
	parsed, err := mail.ParseAddress(value)
	return v.Custom(field, err != nil || parsed.Address != value, "Must be a valid email address")
}

func (v *Validator) Slug(field, value string) *Validator {
	return v.Custom(field, !IsSlug(value), "Must be a valid slug (letters, digits, underscores, hyphens only)")
}

func (v *Validator) Username(field, value string) *Validator {
	problem := usernameProblem(value)
	return v.Custom(field, problem != "", problem)
}

func (v *Validator) HasErrors() bool { return len(v.failures) > 0 }

// Err returns nil when nothing failed.
func (v *Validator) Err() error {
	if !v.HasErrors() {
		return nil
	}
	return apperr.ValidationError("Validation failed", v.failures...)
}
