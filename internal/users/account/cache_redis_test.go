// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avpech/yamdb-final/internal/platform/middleware"
	redisstore "github.com/avpech/yamdb-final/internal/platform/redis"
	"github.com/avpech/yamdb-final/internal/platform/sec"
	"github.com/avpech/yamdb-final/internal/users/account"
)

// TestRedisIdentityCache runs against the server named by TEST_REDIS_URL.
func TestRedisIdentityCache(t *testing.T) {
	redisURL := os.Getenv("TEST_REDIS_URL")
	if redisURL == "" {
		t.Skip("TEST_REDIS_URL not set")
	}
	ctx := context.Background()

	client, err := redisstore.NewClient(ctx, redisURL, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	cache := account.NewRedisIdentityCache(client, time.Minute)
	const userID = int64(987654321)
	require.NoError(t, cache.Invalidate(ctx, userID))

	_, found, err := cache.Get(ctx, userID)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, cache.Set(ctx, &middleware.Identity{UserID: userID, Username: "alice", Role: sec.RoleModerator}))
	identity, found, err := cache.Get(ctx, userID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "alice", identity.Username)
	assert.Equal(t, sec.RoleModerator, identity.Role)

	require.NoError(t, cache.Invalidate(ctx, userID))
	_, found, err = cache.Get(ctx, userID)
	require.NoError(t, err)
	assert.False(t, found)
}
