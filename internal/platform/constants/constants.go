// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package constants holds the fixed values shared across layers: HTTP server
// timing, rate limits, header names and cache key prefixes.
//
// Anything an operator may want to tune lives in config instead.
package constants

import "time"

const (
	AppName    = "yamdb-api"
	AppVersion = "0.1.0-dev"
)

// # HTTP Server

const (
	DefaultReadHeaderTimeout = 2 * time.Second
	DefaultReadTimeout       = 5 * time.Second
	DefaultWriteTimeout      = 10 * time.Second
	DefaultIdleTimeout       = 2 * time.Minute

	// GlobalRequestTimeout cancels the request context of slow handlers.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout bounds the drain of in-flight requests on SIGTERM.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	DefaultRateLimitRPS   = 100.0
	DefaultRateLimitBurst = 150

	// An IP idle for RateLimitClientTTL loses its bucket at the next sweep.
	RateLimitCleanupInterval = time.Minute
	RateLimitClientTTL       = 3 * time.Minute
)

// # Identity

const (
	// AuthIssuer is the "iss" claim of every access token.
	AuthIssuer = "yamdb.api"

	// IdentityCacheTTL bounds how long a role change can go unnoticed when
	// cache invalidation fails.
	IdentityCacheTTL = 5 * time.Minute

	RedisPrefixIdentity = "auth:identity:"
)

// # Headers & Health Fields

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"

	FieldStatus  = "status"
	FieldApp     = "app"
	FieldVersion = "version"
	FieldChecks  = "checks"
)

// # Mail

const (
	// MailQueueSize bounds undelivered messages held in memory.
	MailQueueSize = 64

	// MailSendTimeout bounds one SMTP delivery and the final queue drain.
	MailSendTimeout = 15 * time.Second
)
