// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/avpech/yamdb-final/internal/platform/apperr"
)

var (
	engineOnce sync.Once
	engine     *validator.Validate
)

// payloadEngine lazily builds the shared struct validator.
//
// Field errors are reported under their JSON names, and two project tags are
// registered on top of the built-in set:
//
//	username   see [Validator.Username]
//	slugfield  see [Validator.Slug]
func payloadEngine() *validator.Validate {
	engineOnce.Do(func() {
		engine = validator.New(validator.WithRequiredStructEnabled())

		engine.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return field.Name
			}
			return name
		})

		_ = engine.RegisterValidation("username", func(fl validator.FieldLevel) bool {
			return IsUsername(fl.Field().String())
		})
		_ = engine.RegisterValidation("slugfield", func(fl validator.FieldLevel) bool {
			return IsSlug(fl.Field().String())
		})
	})
	return engine
}

// Payload validates a decoded request body against its `validate` struct tags.
//
// It returns nil when every rule passes, or a VALIDATION_ERROR listing every
// failing field.
func Payload(target any) error {
	err := payloadEngine().Struct(target)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return ErrInvalidJSON
	}

	details := make([]apperr.FieldError, 0, len(fieldErrors))
	for _, fieldError := range fieldErrors {
		details = append(details, apperr.FieldError{
			Field:   fieldError.Field(),
			Message: describe(fieldError),
		})
	}

	return apperr.ValidationError("Validation failed", details...)
}

// describe renders a human-readable message for a single failed tag.
func describe(fieldError validator.FieldError) string {
	switch fieldError.Tag() {
	case "required":
		return "This field is required"
	case "max":
		return fmt.Sprintf("Maximum %s characters", fieldError.Param())
	case "min":
		return fmt.Sprintf("Minimum %s characters", fieldError.Param())
	case "email":
		return "Must be a valid email address"
	case "gte":
		return fmt.Sprintf("Must be at least %s", fieldError.Param())
	case "lte":
		return fmt.Sprintf("Must be at most %s", fieldError.Param())
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", strings.ReplaceAll(fieldError.Param(), " ", ", "))
	case "username":
		return fmt.Sprintf("Letters, digits and @/./+/-/_ only, at most %d characters, not %q", UsernameMaxLen, ReservedUsername)
	case "slugfield":
		return "Must be a valid slug (letters, digits, underscores, hyphens only)"
	default:
		return fmt.Sprintf("Failed the %q rule", fieldError.Tag())
	}
}
