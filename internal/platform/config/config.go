// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values. In development a local
'.env' file is preloaded with 'joho/godotenv' before parsing.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, edit window) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// # Configuration Schema

// Config holds all runtime configuration for the Timekeep API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis), used for entry drafts
	RedisURL string `env:"REDIS_URL,required,notEmpty"`

	// Identity provider keys. Only the public key is needed to serve traffic;
	// the private key is read by the dev token minting command.
	JWTPubKeyPath  string `env:"JWT_PUBLIC_KEY_PATH,required,notEmpty"`
	JWTPrivKeyPath string `env:"JWT_PRIVATE_KEY_PATH"`
	JWTIssuer      string `env:"JWT_ISSUER" envDefault:"timekeep.app"`

	// Timezone is the IANA location used to decide what "today" means for entries.
	Timezone string `env:"TIMEZONE" envDefault:"UTC"`

	// EditWindowDays is the number of additional days after the entry date
	// during which an entry stays editable.
	EditWindowDays int `env:"EDIT_WINDOW_DAYS" envDefault:"7"`

	// DraftTTL is how long an auto-saved entry draft survives without a save.
	DraftTTL time.Duration `env:"DRAFT_TTL" envDefault:"24h"`

	// TeamPollInterval is the refresh cadence for watched team compliance views.
	TeamPollInterval time.Duration `env:"TEAM_POLL_INTERVAL" envDefault:"60s"`

	// RoleLookupTimeout bounds a single profile role query.
	RoleLookupTimeout time.Duration `env:"ROLE_LOOKUP_TIMEOUT" envDefault:"3s"`

	// Cross-Origin Resource Sharing. Origins on the timekeep.app domain are always allowed.
	ExtraOrigins []string `env:"EXTRA_ORIGINS" envSeparator:","`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
//
// A missing '.env' file is not an error; any other read failure is.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: failed to read .env file: %w", err)
	}

	cfg := &Config{}

	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate rejects values that parse but cannot drive the application.
func (c *Config) validate() error {
	if c.EditWindowDays < 0 {
		return fmt.Errorf("config: EDIT_WINDOW_DAYS must not be negative, got %d", c.EditWindowDays)
	}
	if c.TeamPollInterval <= 0 {
		return fmt.Errorf("config: TEAM_POLL_INTERVAL must be positive, got %s", c.TeamPollInterval)
	}
	if c.DraftTTL <= 0 {
		return fmt.Errorf("config: DRAFT_TTL must be positive, got %s", c.DraftTTL)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("config: invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return nil
}

// Location returns the configured timezone. [Load] has already validated it.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// AllowedOrigins returns the extra CORS origins configured for this deployment.
func (c *Config) AllowedOrigins() []string {
	return c.ExtraOrigins
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
