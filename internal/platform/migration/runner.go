// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package migration applies the SQL files under data/migrations with
// golang-migrate.
//
// The API server calls [RunUp] before serving traffic; integration tests call
// [Reset] to start from an empty schema.
package migration

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	// pgx5 driver registers "pgx5" scheme for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	// file source reads .sql files from disk.
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

/*
RunUp applies all pending UP migrations.

The server refuses to start on a dirty database: a half-applied migration
would leave the deletion policies between catalog and social tables
undefined.

Parameters:
  - dsn: A postgres:// URL or a pgx5:// URL
  - migrationsPath: Filesystem path to the migrations directory
  - logger: Structured logger for migration events

Returns:
  - error: Dirty database, unreadable source or a failed statement
*/
func RunUp(dsn string, migrationsPath string, logger *slog.Logger) error {
	return withMigrator(dsn, migrationsPath, logger, func(migrator *migrate.Migrate, from uint) error {
		logger.Info("migration_started", slog.Uint64("current_version", uint64(from)))
		return up(migrator, logger, from)
	})
}

// Reset rolls every migration back and applies them again. Test helper; it
// destroys all data.
func Reset(dsn string, migrationsPath string, logger *slog.Logger) error {
	return withMigrator(dsn, migrationsPath, logger, func(migrator *migrate.Migrate, from uint) error {
		if err := migrator.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("migration: down failed: %w", err)
		}
		logger.Info("migration_reset", slog.Uint64("from_version", uint64(from)))
		return up(migrator, logger, 0)
	})
}

func withMigrator(dsn, migrationsPath string, logger *slog.Logger, run func(*migrate.Migrate, uint) error) error {
	migrator, err := migrate.New("file://"+migrationsPath, convertToPgx5DSN(dsn))
	if err != nil {
		return fmt.Errorf("migration: failed to initialize: %w", err)
	}
	defer func() {
		if sourceErr, dbErr := migrator.Close(); sourceErr != nil || dbErr != nil {
			logger.Error("migration_close_failed",
				slog.Any("source_error", sourceErr),
				slog.Any("db_error", dbErr),
			)
		}
	}()
	migrator.Log = &migrateLogger{logger: logger}

	version, dirty, err := migrator.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("migration: failed to get current version: %w", err)
	}
	if dirty {
		return fmt.Errorf("migration: database is dirty at version %d, fix it by hand", version)
	}

	return run(migrator, version)
}

func up(migrator *migrate.Migrate, logger *slog.Logger, from uint) error {
	err := migrator.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		logger.Info("migration_already_up_to_date")
		return nil
	case err != nil:
		return fmt.Errorf("migration: up failed: %w", err)
	}

	to, _, _ := migrator.Version()
	logger.Info("migration_successful",
		slog.Uint64("from_version", uint64(from)),
		slog.Uint64("to_version", uint64(to)),
	)
	return nil
}

// convertToPgx5DSN rewrites postgres:// URLs to the pgx5:// scheme the driver registers.
func convertToPgx5DSN(dsn string) string {
	for _, prefix := range []string{"postgresql://", "postgres://"} {
		if rest, ok := strings.CutPrefix(dsn, prefix); ok {
			return "pgx5://" + rest
		}
	}
	return dsn
}

// migrateLogger sends golang-migrate's chatter to slog at debug level.
type migrateLogger struct {
	logger *slog.Logger
}

func (l *migrateLogger) Printf(format string, args ...any) {
	l.logger.Debug("migration_progress", slog.String("detail", strings.TrimSpace(fmt.Sprintf(format, args...))))
}

func (l *migrateLogger) Verbose() bool {
	return false
}
