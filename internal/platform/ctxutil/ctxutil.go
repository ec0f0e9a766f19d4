// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package ctxutil carries per-request values through [context.Context].

Middleware stores the correlation ID, the request logger and the resolved
identity; handlers and services read them back. Keys are unexported, so only
this package can set or read them.
*/
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/avpech/yamdb-final/internal/platform/access"
	"github.com/avpech/yamdb-final/internal/platform/sec"
)

// key is typed by the value it holds, so a lookup can never return the wrong type.
type key[T any] struct{ name string }

var (
	requestIDKey = key[string]{"request_id"}
	loggerKey    = key[*slog.Logger]{"logger"}
	identityKey  = key[*sec.AuthClaims]{"identity"}
)

func with[T any](ctx context.Context, k key[T], value T) context.Context {
	return context.WithValue(ctx, k, value)
}

func get[T any](ctx context.Context, k key[T]) (T, bool) {
	value, ok := ctx.Value(k).(T)
	return value, ok
}

// # Request Tracing

// WithRequestID attaches the X-Request-ID correlation value.
func WithRequestID(ctx context.Context, id string) context.Context {
	return with(ctx, requestIDKey, id)
}

// GetRequestID returns the correlation value, or "" outside a request.
func GetRequestID(ctx context.Context) string {
	id, _ := get(ctx, requestIDKey)
	return id
}

// # Structured Logging

// WithLogger attaches the request-scoped logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return with(ctx, loggerKey, logger)
}

// GetLogger returns the request logger, falling back to [slog.Default].
func GetLogger(ctx context.Context) *slog.Logger {
	if logger, ok := get(ctx, loggerKey); ok && logger != nil {
		return logger
	}
	return slog.Default()
}

// # Identity & Access

// WithAuthUser attaches the caller's identity, already refreshed with the
// account's current username and role.
func WithAuthUser(ctx context.Context, user *sec.AuthClaims) context.Context {
	return with(ctx, identityKey, user)
}

// GetAuthUser returns the caller's identity, or nil for anonymous requests.
func GetAuthUser(ctx context.Context) *sec.AuthClaims {
	claims, _ := get(ctx, identityKey)
	return claims
}

// GetActor converts the identity into an [access.Actor].
// Requests without an identity yield [access.Anonymous].
func GetActor(ctx context.Context) access.Actor {
	claims := GetAuthUser(ctx)
	if claims == nil {
		return access.Anonymous()
	}
	return access.Authenticated(claims.UserID, claims.Role)
}
