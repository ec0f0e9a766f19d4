// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ctxutil_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/avpech/yamdb-final/internal/platform/access"
	"github.com/avpech/yamdb-final/internal/platform/ctxutil"
	"github.com/avpech/yamdb-final/internal/platform/sec"
)

func TestRequestScopedValues(t *testing.T) {
	empty := context.Background()
	assert.Empty(t, ctxutil.GetRequestID(empty))
	assert.Same(t, slog.Default(), ctxutil.GetLogger(empty))

	requestLogger := slog.New(slog.NewTextHandler(io.Discard, nil))
	scoped := ctxutil.WithLogger(ctxutil.WithRequestID(empty, "01J9-review"), requestLogger)

	assert.Equal(t, "01J9-review", ctxutil.GetRequestID(scoped))
	assert.Same(t, requestLogger, ctxutil.GetLogger(scoped))
	assert.Empty(t, ctxutil.GetRequestID(empty), "parent context untouched")
}

func TestGetActor(t *testing.T) {
	anonymous := context.Background()
	assert.Nil(t, ctxutil.GetAuthUser(anonymous))
	assert.Equal(t, access.Anonymous(), ctxutil.GetActor(anonymous))

	moderator := &sec.AuthClaims{UserID: 12, Username: "critic", Role: sec.RoleModerator}
	signedIn := ctxutil.WithAuthUser(anonymous, moderator)

	assert.Same(t, moderator, ctxutil.GetAuthUser(signedIn))
	assert.Equal(t, access.Authenticated(12, sec.RoleModerator), ctxutil.GetActor(signedIn))
}
