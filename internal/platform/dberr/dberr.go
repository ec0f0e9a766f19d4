// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
//
// # Constraint Violations
//
// Uniqueness, foreign-key and check constraints are enforced by PostgreSQL
// itself. Their SQLSTATE codes are translated here, so a violated
// constraint is the authoritative signal for the corresponding client error
// even when two requests race past any application-level pre-check.
package dberr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/avpech/yamdb-final/internal/platform/apperr"
)

// PostgreSQL SQLSTATE codes handled by [Wrap].
const (
	UniqueViolation     = "23505"
	ForeignKeyViolation = "23503"
	CheckViolation      = "23514"
)

// Messages maps constraint names to client-safe messages. Constraints that are
// not listed fall back to a generic message for their class.
type Messages map[string]string

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
//
// The resource name is used for NOT_FOUND messages ("Title not found").
func Wrap(err error, resource string) error {
	return WrapWith(err, resource, nil)
}

// WrapWith behaves like [Wrap] but resolves constraint names through messages.
func WrapWith(err error, resource string, messages Messages) error {
	if err == nil {
		return nil
	}

	// Already classified further down the stack
	if apperr.IsAppError(err) {
		return err
	}

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(resource)
	}

	// 2. Constraint violations
	if pgErr, ok := constraintError(err); ok {
		message, known := messages[pgErr.ConstraintName]

		switch pgErr.Code {
		case UniqueViolation:
			if !known {
				message = fmt.Sprintf("%s already exists", resource)
			}
			return apperr.Conflict(message).WithCause(err)

		case ForeignKeyViolation:
			if !known {
				message = "Referenced resource not found"
			}
			return apperr.New(apperr.CodeNotFound, message).WithCause(err)

		case CheckViolation:
			if !known {
				message = "Value violates a data constraint"
			}
			return apperr.ValidationError(message).WithCause(err)
		}
	}

	// 3. Unknown query errors become Internal Server Errors
	return apperr.Internal(err)
}

// IsUniqueViolation reports whether err is a PostgreSQL unique violation,
// optionally restricted to a single named constraint.
func IsUniqueViolation(err error, constraint string) bool {
	pgErr, ok := constraintError(err)
	if !ok || pgErr.Code != UniqueViolation {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}

// constraintError extracts the [*pgconn.PgError] from err's chain.
func constraintError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr, true
	}
	return nil, false
}
