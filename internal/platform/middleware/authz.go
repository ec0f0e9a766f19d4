// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/avpech/yamdb-final/internal/platform/access"
	"github.com/avpech/yamdb-final/internal/platform/apperr"
	"github.com/avpech/yamdb-final/internal/platform/ctxutil"
	"github.com/avpech/yamdb-final/internal/platform/respond"
	"github.com/avpech/yamdb-final/internal/platform/sec"
)

// TokenVerifier checks a bearer token and returns its claims.
type TokenVerifier interface {
	VerifyToken(token string) (*sec.AuthClaims, error)
}

// Identity is an account as it stands now, not as its token remembers it.
type Identity struct {
	UserID   int64
	Username string
	Role     sec.Role
}

// IdentityResolver loads the current identity of a token subject, or a
// NOT_FOUND error once the account is gone.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, userID int64) (*Identity, error)
}

/*
Authenticate turns an optional bearer token into the request's caller.

  - No Authorization header: the request continues anonymously.
  - Malformed header, bad signature or expired token: 401.
  - Valid token of a deleted account: 401.

Otherwise the token's username and role are replaced by the account's current
ones, so promotions and demotions apply on the next request.
*/
func Authenticate(verifier TokenVerifier, resolver IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			header := request.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(writer, request)
				return
			}

			caller, err := identify(request.Context(), header, verifier, resolver)
			if err != nil {
				respond.Error(writer, request, err)
				return
			}

			noteCaller(request.Context(), caller)
			next.ServeHTTP(writer, request.WithContext(ctxutil.WithAuthUser(request.Context(), caller)))
		})
	}
}

func identify(ctx context.Context, header string, verifier TokenVerifier, resolver IdentityResolver) (*sec.AuthClaims, error) {
	token, ok := bearerToken(header)
	if !ok {
		return nil, apperr.Unauthorized("Invalid authorization format")
	}

	claims, err := verifier.VerifyToken(token)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid or expired token").WithCause(err)
	}

	identity, err := resolver.ResolveIdentity(ctx, claims.UserID)
	switch {
	case apperr.IsNotFound(err):
		return nil, apperr.Unauthorized("Account no longer exists")
	case err != nil:
		return nil, err
	}

	// The verifier's claims may be shared; refresh a copy.
	caller := *claims
	caller.Username = identity.Username
	caller.Role = identity.Role
	return &caller, nil
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	token = strings.TrimSpace(token)
	return token, found && strings.EqualFold(scheme, "bearer") && token != ""
}

// RequireAuth rejects anonymous callers with 401. It relies on
// [Authenticate] having run first.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if ctxutil.GetAuthUser(request.Context()) == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// Authorize applies the owner-independent part of the permission table.
//
// An action granted to owners passes here; the service repeats the check
// with [access.Check] once the resource, and therefore its owner, is loaded.
// Denials are 401 for anonymous callers and 403 otherwise.
func Authorize(resource access.Resource, action access.Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if err := access.CheckAttempt(ctxutil.GetActor(request.Context()), action, resource); err != nil {
				respond.Error(writer, request, err)
				return
			}
			next.ServeHTTP(writer, request)
		})
	}
}
