// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package apperr is the error vocabulary shared by services, stores and handlers.

A service returns an [*AppError] whenever the failure is meaningful to the
client; [respond.Error] turns it into the JSON error envelope. Anything else
is treated as an internal failure and its text never reaches the client.

Status mapping:

	NOT_FOUND         404
	UNAUTHORIZED      401
	FORBIDDEN         403
	CONFLICT          400
	INVALID_CODE      400
	VALIDATION_ERROR  400
	RATE_LIMITED      429
	INTERNAL_ERROR    500
*/
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// # Error Codes

const (
	CodeNotFound     = "NOT_FOUND"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeConflict     = "CONFLICT"
	CodeInvalidCode  = "INVALID_CODE"
	CodeValidation   = "VALIDATION_ERROR"
	CodeRateLimited  = "RATE_LIMITED"
	CodeInternal     = "INTERNAL_ERROR"
)

// Uniqueness violations are bad input for this API's clients, hence 400.
var statusByCode = map[string]int{
	CodeNotFound:     http.StatusNotFound,
	CodeUnauthorized: http.StatusUnauthorized,
	CodeForbidden:    http.StatusForbidden,
	CodeConflict:     http.StatusBadRequest,
	CodeInvalidCode:  http.StatusBadRequest,
	CodeValidation:   http.StatusBadRequest,
	CodeRateLimited:  http.StatusTooManyRequests,
	CodeInternal:     http.StatusInternalServerError,
}

// AppError is a client-facing failure.
//
// Cause is kept for server logs and [errors.Unwrap]; it is never serialized.
type AppError struct {
	Code       string       `json:"code"`
	Message    string       `json:"error"`
	HTTPStatus int          `json:"-"`
	Cause      error        `json:"-"`
	Details    []FieldError `json:"details,omitempty"`
}

// FieldError names one rejected request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string { return e.Message }

func (e *AppError) Unwrap() error { return e.Cause }

// New builds an [*AppError] whose status follows from code. Unknown codes map
// to 500.
func New(code, message string) *AppError {
	status, known := statusByCode[code]
	if !known {
		status = http.StatusInternalServerError
	}
	return &AppError{Code: code, Message: message, HTTPStatus: status}
}

// WithCause attaches the underlying error and returns e.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails appends field errors and returns e.
func (e *AppError) WithDetails(details ...FieldError) *AppError {
	e.Details = append(e.Details, details...)
	return e
}

// # Constructors

// NotFound reports a missing resource as "<resource> not found".
func NotFound(resource string) *AppError {
	return New(CodeNotFound, resource+" not found")
}

func Unauthorized(msg string) *AppError { return New(CodeUnauthorized, msg) }

func Forbidden(msg string) *AppError { return New(CodeForbidden, msg) }

// Conflict reports a duplicate, e.g. a second review of the same title.
func Conflict(msg string) *AppError { return New(CodeConflict, msg) }

// InvalidCode rejects a confirmation code on the named request field.
func InvalidCode(field string) *AppError {
	return New(CodeInvalidCode, "Invalid confirmation code").
		WithDetails(FieldError{Field: field, Message: "Confirmation code is invalid or expired"})
}

func ValidationError(msg string, details ...FieldError) *AppError {
	return New(CodeValidation, msg).WithDetails(details...)
}

func RateLimited(retryAfterSeconds int) *AppError {
	return New(CodeRateLimited, fmt.Sprintf("Too many requests. Try again in %ds.", retryAfterSeconds))
}

// Internal hides cause behind a generic message.
func Internal(cause error) *AppError {
	return New(CodeInternal, "An unexpected error occurred").WithCause(cause)
}

// # Inspection

// As returns the first [*AppError] in err's chain, or nil.
func As(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

func IsAppError(err error) bool { return As(err) != nil }

// HasCode reports whether err's chain carries an [*AppError] with code.
func HasCode(err error, code string) bool {
	appErr := As(err)
	return appErr != nil && appErr.Code == code
}

func IsNotFound(err error) bool { return HasCode(err, CodeNotFound) }

// StatusOf returns the HTTP status for err; non-[AppError] values are 500.
func StatusOf(err error) int {
	if appErr := As(err); appErr != nil {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}
