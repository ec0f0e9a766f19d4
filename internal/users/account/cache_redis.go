// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/avpech/yamdb-final/internal/platform/constants"
	"github.com/avpech/yamdb-final/internal/platform/middleware"
	redisstore "github.com/avpech/yamdb-final/internal/platform/redis"
	"github.com/avpech/yamdb-final/internal/platform/sec"
)

// cachedIdentity is the JSON shape stored under auth:identity:<id>.
type cachedIdentity struct {
	UserID   int64    `json:"uid"`
	Username string   `json:"unm"`
	Role     sec.Role `json:"rol"`
}

// RedisIdentityCache implements [IdentityCache] on Redis with a fixed TTL.
type RedisIdentityCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewRedisIdentityCache creates a cache whose entries expire after ttl.
func NewRedisIdentityCache(client redis.Cmdable, ttl time.Duration) *RedisIdentityCache {
	return &RedisIdentityCache{client: client, ttl: ttl}
}

func identityKey(userID int64) string {
	return constants.RedisPrefixIdentity + strconv.FormatInt(userID, 10)
}

// Get returns the cached identity, if any.
func (cache *RedisIdentityCache) Get(context context.Context, userID int64) (*middleware.Identity, bool, error) {
	var entry cachedIdentity
	found, err := redisstore.GetJSON(context, cache.client, identityKey(userID), &entry)
	if err != nil || !found {
		return nil, false, err
	}

	if !entry.Role.Valid() || entry.UserID != userID {
		return nil, false, fmt.Errorf("account: corrupt identity cache entry for user %d", userID)
	}

	return &middleware.Identity{UserID: entry.UserID, Username: entry.Username, Role: entry.Role}, true, nil
}

// Set stores identity for the configured TTL.
func (cache *RedisIdentityCache) Set(context context.Context, identity *middleware.Identity) error {
	entry := cachedIdentity{UserID: identity.UserID, Username: identity.Username, Role: identity.Role}
	return redisstore.SetJSON(context, cache.client, identityKey(identity.UserID), entry, cache.ttl)
}

// Invalidate drops the cached identity of userID.
func (cache *RedisIdentityCache) Invalidate(context context.Context, userID int64) error {
	return redisstore.Delete(context, cache.client, identityKey(userID))
}
