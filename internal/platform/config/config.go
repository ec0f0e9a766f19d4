// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package config reads the server settings from the environment.
//
// Values come from real environment variables first and from a .env file in
// the working directory second (joho/godotenv never overrides an existing
// variable). caarlos0/env maps them onto [Config] and applies defaults;
// [Load] then rejects combinations that would only fail later at runtime.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// Config is the full runtime configuration of the API server.
type Config struct {
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// PostgreSQL
	DatabaseURL      string        `env:"DATABASE_URL,required,notEmpty"`
	DatabaseMaxConns int32         `env:"DATABASE_MAX_CONNS"         envDefault:"25"`
	DatabaseMinConns int32         `env:"DATABASE_MIN_CONNS"         envDefault:"5"`
	StatementTimeout time.Duration `env:"DATABASE_STATEMENT_TIMEOUT" envDefault:"30s"`
	MigrationPath    string        `env:"MIGRATION_PATH"             envDefault:"./data/migrations"`

	// Redis holds the identity cache only.
	RedisURL string `env:"REDIS_URL,required,notEmpty"`

	JWTPrivKeyPath string        `env:"JWT_PRIVATE_KEY_PATH,required,notEmpty"`
	JWTPubKeyPath  string        `env:"JWT_PUBLIC_KEY_PATH,required,notEmpty"`
	AccessTokenTTL time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"24h"`

	// ConfirmationSecret keys the HMAC behind every confirmation code.
	ConfirmationSecret  string        `env:"CONFIRMATION_SECRET,required,notEmpty"`
	ConfirmationCodeTTL time.Duration `env:"CONFIRMATION_CODE_TTL" envDefault:"72h"`

	// An empty SMTPHost logs outgoing mail instead of sending it.
	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT"     envDefault:"587"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	MailFrom     string `env:"MAIL_FROM"     envDefault:"noreply@yamdb.local"`

	// ExtraOrigins is a comma separated CORS allow-list, ignored in development.
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// Load builds a [Config] from the environment and validates it.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: read .env: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	problems := []struct {
		failed bool
		detail string
	}{
		{!slices.Contains([]string{EnvDevelopment, EnvStaging, EnvProduction}, c.Environment),
			fmt.Sprintf("ENVIRONMENT must be development, staging or production, got %q", c.Environment)},
		{c.AccessTokenTTL <= 0, fmt.Sprintf("ACCESS_TOKEN_TTL must be positive, got %s", c.AccessTokenTTL)},
		{c.ConfirmationCodeTTL <= 0, fmt.Sprintf("CONFIRMATION_CODE_TTL must be positive, got %s", c.ConfirmationCodeTTL)},
		{c.DatabaseMinConns > c.DatabaseMaxConns,
			fmt.Sprintf("DATABASE_MIN_CONNS (%d) exceeds DATABASE_MAX_CONNS (%d)", c.DatabaseMinConns, c.DatabaseMaxConns)},
		{c.SMTPPort <= 0 || c.SMTPPort > 65535, fmt.Sprintf("SMTP_PORT out of range: %d", c.SMTPPort)},
	}

	var errs []error
	for _, problem := range problems {
		if problem.failed {
			errs = append(errs, errors.New("config: "+problem.detail))
		}
	}
	return errors.Join(errs...)
}

func (c *Config) IsDevelopment() bool { return c.Environment == EnvDevelopment }

// AllowedOrigins splits ExtraOrigins, dropping blanks.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(c.ExtraOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

func (c *Config) MailEnabled() bool { return c.SMTPHost != "" }
