// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package postgres provides the managed PostgreSQL connection pool and the
// transaction helper shared by every YaMDb store.
//
// The domain stores receive the pool through their constructors and never
// open connections themselves.
package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	maxConnLifetime   = time.Hour
	maxConnIdleTime   = 10 * time.Minute
	healthCheckPeriod = time.Minute
	connectTimeout    = 5 * time.Second
	pingTimeout       = 2 * time.Second
)

// Options sizes the pool. Zero values keep pgxpool's defaults.
type Options struct {
	MaxConns int32
	MinConns int32

	// StatementTimeout is applied to every new session; zero disables it.
	StatementTimeout time.Duration
}

/*
NewPool creates a pool and verifies that the database answers.

Parameters:
  - ctx: Bounds the initial connection attempt
  - dsn: A postgres:// URL or libpq keyword string
  - options: Pool sizing and session settings
  - logger: Structured logger for pool-level events

Returns:
  - *pgxpool.Pool: A pool that has answered one ping
  - error: Invalid DSN or unreachable database
*/
func NewPool(ctx context.Context, dsn string, options Options, logger *slog.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: invalid DSN: %w", err)
	}

	if options.MaxConns > 0 {
		poolConfig.MaxConns = options.MaxConns
	}
	if options.MinConns > 0 {
		poolConfig.MinConns = options.MinConns
	}
	poolConfig.MaxConnLifetime = maxConnLifetime
	poolConfig.MaxConnIdleTime = maxConnIdleTime
	poolConfig.HealthCheckPeriod = healthCheckPeriod
	poolConfig.ConnConfig.ConnectTimeout = connectTimeout

	if options.StatementTimeout > 0 {
		// Session parameter, so it also covers queries run inside Transact.
		poolConfig.ConnConfig.RuntimeParams["statement_timeout"] = fmt.Sprint(options.StatementTimeout.Milliseconds())
	}

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to create pool: %w", err)
	}

	if err := Ping(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("postgres_pool_connected",
		slog.Int("max_conns", int(poolConfig.MaxConns)),
		slog.Int("min_conns", int(poolConfig.MinConns)),
		slog.Duration("statement_timeout", options.StatementTimeout),
	)
	return pool, nil
}

// Ping verifies that the pool can reach the database.
func Ping(ctx context.Context, pool *pgxpool.Pool) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		return fmt.Errorf("postgres: ping failed: %w", err)
	}
	return nil
}

// Transact runs fn inside a single transaction.
//
// The transaction commits when fn returns nil and rolls back otherwise; a
// rollback after a successful commit is a no-op.
func Transact(ctx context.Context, pool *pgxpool.Pool, fn func(transaction pgx.Tx) error) error {
	transaction, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres: begin failed: %w", err)
	}
	defer func() { _ = transaction.Rollback(ctx) }()

	if err := fn(transaction); err != nil {
		return err
	}

	if err := transaction.Commit(ctx); err != nil {
		return fmt.Errorf("postgres: commit failed: %w", err)
	}
	return nil
}
