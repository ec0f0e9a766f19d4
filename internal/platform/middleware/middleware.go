// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package middleware provides the cross-cutting HTTP processing chain.

Order in the API router:

  - RequestID, then StructuredLogger: every log line carries the correlation ID.
  - RateLimit: per client IP token bucket.
  - PanicRecovery and CORS.
  - Authenticate, then per-route Authorize (see authz.go).
*/
package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/avpech/yamdb-final/internal/platform/apperr"
	"github.com/avpech/yamdb-final/internal/platform/constants"
	"github.com/avpech/yamdb-final/internal/platform/ctxutil"
	"github.com/avpech/yamdb-final/internal/platform/respond"
	"github.com/avpech/yamdb-final/internal/platform/sec"
)

// # Request Tracing

// RequestID echoes the client's X-Request-ID or assigns a UUIDv7.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			requestID := request.Header.Get(constants.HeaderXRequestID)
			if requestID == "" {
				requestID = newRequestID()
			}

			writer.Header().Set(constants.HeaderXRequestID, requestID)
			next.ServeHTTP(writer, request.WithContext(ctxutil.WithRequestID(request.Context(), requestID)))
		})
	}
}

func newRequestID() string {
	if id, err := uuid.NewV7(); err == nil {
		return id.String()
	}
	return uuid.NewString()
}

// # Activity Logging

// requestSummary collects what the final log line needs from inner layers.
// Authenticate runs after StructuredLogger and records the caller here.
type requestSummary struct {
	status int
	caller *sec.AuthClaims
}

type summaryKey struct{}

func noteCaller(ctx context.Context, claims *sec.AuthClaims) {
	if summary, ok := ctx.Value(summaryKey{}).(*requestSummary); ok {
		summary.caller = claims
	}
}

type statusRecorder struct {
	http.ResponseWriter
	summary *requestSummary
}

func (recorder *statusRecorder) WriteHeader(code int) {
	recorder.summary.status = code
	recorder.ResponseWriter.WriteHeader(code)
}

/*
StructuredLogger writes one http_request_finished entry per request.

Downstream code gets a request-scoped logger through [ctxutil.GetLogger].
4xx responses log at WARN and 5xx at ERROR.
*/
func StructuredLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			started := time.Now()
			requestLogger := logger.With(
				slog.String("request_id", ctxutil.GetRequestID(request.Context())),
				slog.String("method", request.Method),
				slog.String("path", request.URL.Path),
				slog.String("ip", RealIP(request)),
			)

			summary := &requestSummary{status: http.StatusOK}
			ctx := context.WithValue(ctxutil.WithLogger(request.Context(), requestLogger), summaryKey{}, summary)

			next.ServeHTTP(&statusRecorder{ResponseWriter: writer, summary: summary}, request.WithContext(ctx))

			attrs := []any{
				slog.Int("status", summary.status),
				slog.Int64("latency_ms", time.Since(started).Milliseconds()),
				slog.String("user_agent", request.UserAgent()),
			}
			if summary.caller != nil {
				attrs = append(attrs,
					slog.Int64("user_id", summary.caller.UserID),
					slog.String("role", summary.caller.Role.String()),
				)
			}
			requestLogger.Log(ctx, levelFor(summary.status), "http_request_finished", attrs...)
		})
	}
}

func levelFor(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// # Rate Limiting

// RateLimitOptions tunes the per-IP token bucket.
type RateLimitOptions struct {
	RPS   float64
	Burst int
}

// DefaultRateLimit is the bucket applied to every client IP.
var DefaultRateLimit = RateLimitOptions{
	RPS:   constants.DefaultRateLimitRPS,
	Burst: constants.DefaultRateLimitBurst,
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// visitors is the set of live buckets, keyed by client IP.
type visitors struct {
	mu      sync.Mutex
	options RateLimitOptions
	byIP    map[string]*visitor
}

func (set *visitors) allow(ip string, now time.Time) bool {
	set.mu.Lock()
	defer set.mu.Unlock()

	entry, found := set.byIP[ip]
	if !found {
		entry = &visitor{limiter: rate.NewLimiter(rate.Limit(set.options.RPS), set.options.Burst)}
		set.byIP[ip] = entry
	}
	entry.lastSeen = now
	return entry.limiter.AllowN(now, 1)
}

func (set *visitors) sweep(now time.Time) {
	set.mu.Lock()
	defer set.mu.Unlock()

	for ip, entry := range set.byIP {
		if now.Sub(entry.lastSeen) > constants.RateLimitClientTTL {
			delete(set.byIP, ip)
		}
	}
}

// RateLimit limits requests per IP using the token bucket algorithm.
//
// Idle client entries are swept every [constants.RateLimitCleanupInterval]
// until ctx is cancelled.
func RateLimit(ctx context.Context, options RateLimitOptions) func(http.Handler) http.Handler {
	set := &visitors{options: options, byIP: make(map[string]*visitor)}

	go func() {
		ticker := time.NewTicker(constants.RateLimitCleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case now := <-ticker.C:
				set.sweep(now)
			case <-ctx.Done():
				return
			}
		}
	}()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if !set.allow(RealIP(request), time.Now()) {
				respond.Error(writer, request, apperr.RateLimited(1))
				return
			}
			next.ServeHTTP(writer, request)
		})
	}
}

// # Reliability & Safety

// PanicRecovery turns a panic into a logged INTERNAL_ERROR response.
func PanicRecovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			defer func() {
				recovered := recover()
				if recovered == nil {
					return
				}
				if recovered == http.ErrAbortHandler {
					panic(recovered)
				}

				logger.ErrorContext(request.Context(), "panic_recovered",
					slog.String("request_id", ctxutil.GetRequestID(request.Context())),
					slog.Any("error", recovered),
					slog.String("stack", string(debug.Stack())),
				)
				respond.Error(writer, request, apperr.Internal(fmt.Errorf("panic: %v", recovered)))
			}()

			next.ServeHTTP(writer, request)
		})
	}
}

// # Cross-Origin Resource Sharing

// AppConfig defines the behavior needed by the CORS middleware.
type AppConfig interface {
	IsDevelopment() bool
	AllowedOrigins() []string
}

// CORS handles Cross-Origin Resource Sharing based on application environment.
//
// Development accepts any origin; other environments accept only the
// configured origins.
func CORS(cfg AppConfig) func(http.Handler) http.Handler {
	origins := cfg.AllowedOrigins()
	if cfg.IsDevelopment() {
		origins = []string{"https://*", "http://*"}
	}

	return cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "Authorization", constants.HeaderXRequestID},
		ExposedHeaders: []string{constants.HeaderXRequestID},
		MaxAge:         300,
	})
}

// # Middleware Helpers

// RealIP returns the client address: X-Real-IP, then the first X-Forwarded-For
// hop, then the connection's remote address. Header values that are not IPs
// are ignored.
func RealIP(request *http.Request) string {
	if ip := request.Header.Get(constants.HeaderXRealIP); net.ParseIP(strings.TrimSpace(ip)) != nil {
		return strings.TrimSpace(ip)
	}

	if forwarded := request.Header.Get(constants.HeaderXForwardedFor); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if first = strings.TrimSpace(first); net.ParseIP(first) != nil {
			return first
		}
	}

	host, _, err := net.SplitHostPort(request.RemoteAddr)
	if err != nil {
		return request.RemoteAddr
	}
	return host
}
