// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package redis holds the go-redis client and the JSON value helpers used by
the caches.

Only reconstructible data lives in Redis (today the account identity cache),
so a missing key is reported as found=false rather than as an error.
*/
package redis

import (
	stdctx "context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	dialTimeout = 3 * time.Second
	ioTimeout   = 2 * time.Second
	pingTimeout = 2 * time.Second

	poolSize     = 10
	minIdleConns = 2
	maxIdleConns = 5
)

/*
NewClient connects to redisURL and pings it once.

Parameters:
  - context: Bounds the initial ping
  - redisURL: redis:// or rediss:// URL
  - logger: Receives the redis_client_connected event

Returns:
  - *redis.Client: A client that answered the ping
  - error: Malformed URL or unreachable server
*/
func NewClient(context stdctx.Context, redisURL string, logger *slog.Logger) (*redis.Client, error) {
	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: invalid URL: %w", err)
	}

	options.PoolSize = poolSize
	options.MinIdleConns = minIdleConns
	options.MaxIdleConns = maxIdleConns
	options.DialTimeout = dialTimeout
	options.ReadTimeout = ioTimeout
	options.WriteTimeout = ioTimeout

	client := redis.NewClient(options)
	if err := Ping(context, client); err != nil {
		_ = client.Close()
		return nil, err
	}

	logger.Info("redis_client_connected",
		slog.String("addr", options.Addr),
		slog.Int("db", options.DB),
		slog.Int("pool_size", options.PoolSize),
	)
	return client, nil
}

// Ping is the readiness probe for the cache.
func Ping(context stdctx.Context, client redis.UniversalClient) error {
	pingCtx, cancel := stdctx.WithTimeout(context, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("redis: ping failed: %w", err)
	}
	return nil
}

// # JSON Values

// GetJSON decodes the value at key into target. A missing key yields
// (false, nil).
func GetJSON(context stdctx.Context, client redis.Cmdable, key string, target any) (bool, error) {
	raw, err := client.Get(context, key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("redis: get %s: %w", key, err)
	}

	if err := json.Unmarshal(raw, target); err != nil {
		return false, fmt.Errorf("redis: decode %s: %w", key, err)
	}
	return true, nil
}

// SetJSON stores value as JSON under key. A zero ttl keeps the key forever.
func SetJSON(context stdctx.Context, client redis.Cmdable, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("redis: encode %s: %w", key, err)
	}
	return client.Set(context, key, raw, ttl).Err()
}

// Delete removes keys; keys that do not exist are ignored.
func Delete(context stdctx.Context, client redis.Cmdable, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := client.Del(context, keys...).Err(); err != nil {
		return fmt.Errorf("redis: delete %v: %w", keys, err)
	}
	return nil
}
