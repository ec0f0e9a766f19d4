// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the YaMDb HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Start the mail dispatcher.
//  7. Wire repositories, services and HTTP handlers.
//  8. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/avpech/yamdb-final/internal/api"
	"github.com/avpech/yamdb-final/internal/core/review"
	"github.com/avpech/yamdb-final/internal/core/taxonomy"
	"github.com/avpech/yamdb-final/internal/core/title"
	"github.com/avpech/yamdb-final/internal/platform/config"
	"github.com/avpech/yamdb-final/internal/platform/constants"
	"github.com/avpech/yamdb-final/internal/platform/mailer"
	"github.com/avpech/yamdb-final/internal/platform/migration"
	pgstore "github.com/avpech/yamdb-final/internal/platform/postgres"
	redisstore "github.com/avpech/yamdb-final/internal/platform/redis"
	"github.com/avpech/yamdb-final/internal/platform/sec"
	"github.com/avpech/yamdb-final/internal/users/account"
	"github.com/avpech/yamdb-final/internal/users/auth"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	log := newLogger(slog.LevelInfo)
	slog.SetDefault(log)

	log.Info("service_initializing", slog.String("version", constants.AppVersion))

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.Bool("mail_enabled", cfg.MailEnabled()),
	)

	// Startup deadline: misconfiguration fails fast instead of hanging.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, pgstore.Options{
		MaxConns:         cfg.DatabaseMaxConns,
		MinConns:         cfg.DatabaseMinConns,
		StatementTimeout: cfg.StatementTimeout,
	}, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing_postgres_pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing_redis_client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis_close_failed", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Mail ───────────────────────────────────────────────────────────
	var sender mailer.Sender = mailer.NewLogSender(log)
	if cfg.MailEnabled() {
		sender = mailer.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.MailFrom)
	}
	dispatcher := mailer.NewDispatcher(sender, log, constants.MailQueueSize, constants.MailSendTimeout)

	// ── 7. Security ───────────────────────────────────────────────────────
	tokenService, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
	must(log, err, "initialize jwt service")

	codes, err := auth.NewCodeGenerator(cfg.ConfirmationSecret, cfg.ConfirmationCodeTTL)
	must(log, err, "initialize confirmation codes")

	// ── 8. Domain Wiring ──────────────────────────────────────────────────
	userRepository := auth.NewUserRepository(pool)
	taxonomyRepository := taxonomy.NewPostgresRepository(pool)

	authService := auth.NewService(userRepository, codes, tokenService, dispatcher, cfg.AccessTokenTTL, log)
	accountService := account.NewService(userRepository, account.NewRedisIdentityCache(rdb, constants.IdentityCacheTTL), log)
	taxonomyService := taxonomy.NewService(taxonomyRepository, log)
	titleService := title.NewService(title.NewPostgresRepository(pool), taxonomyRepository, log)
	reviewService := review.NewService(review.NewReviewRepository(pool), review.NewCommentRepository(pool), log)

	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func(ctx context.Context) error { return pgstore.Ping(ctx, pool) },
		CheckCache:    func(ctx context.Context) error { return redisstore.Ping(ctx, rdb) },
	}, log)

	handlers := api.Handlers{
		Liveness:   liveness,
		Readiness:  readiness,
		Auth:       auth.NewHandler(authService),
		Account:    account.NewHandler(accountService),
		Categories: taxonomy.NewHandler(taxonomyService, taxonomy.Category),
		Genres:     taxonomy.NewHandler(taxonomyService, taxonomy.Genre),
		Title:      title.NewHandler(titleService),
		Review:     review.NewHandler(reviewService),
	}

	// ── 9. HTTP Server ────────────────────────────────────────────────────
	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	server := api.NewServer(serverCtx, log, api.Dependencies{
		Config:   cfg,
		Port:     cfg.ServerPort,
		Verifier: tokenService,
		Resolver: accountService,
	}, handlers)

	// ── 10. Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_startup_failed", slog.Any("error", err))
	}

	log.Info("shutting_down_server", slog.Duration("timeout", constants.ShutdownTimeout))

	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		log.Error("shutdown_failed", slog.Any("error", err))
	}

	// Pending confirmation mail is flushed after the last request finished.
	mailCtx, mailCancel := context.WithTimeout(context.Background(), constants.MailSendTimeout)
	defer mailCancel()
	if err := dispatcher.Close(mailCtx); err != nil {
		log.Warn("mail_queue_not_drained", slog.Any("error", err))
	}

	log.Info("server_stopped_cleanly")
}

func newLogger(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(slog.String("app", constants.AppName))
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, errors are returned and
// handled explicitly.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
