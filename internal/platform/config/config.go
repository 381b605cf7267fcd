// Copyright (c) 2026 Maestro Platform. All rights reserved.

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, Token Codec, cookies)
    via constructors.
  - Zero Hidden State: No global variables are used to store config.

This ensures the application is Twelve-Factor compliant by storing config in the env.
*/
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the Maestro API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis)
	RedisURL string `env:"REDIS_URL,required"`

	// Token signing. Access and refresh secrets are distinct on purpose:
	// a token signed with one must never validate against the other.
	JWTAccessSecret  string        `env:"JWT_ACCESS_SECRET,required"`
	JWTAccessTTL     time.Duration `env:"JWT_ACCESS_EXPIRES_IN"  envDefault:"24h"`
	JWTRefreshSecret string        `env:"JWT_REFRESH_SECRET,required"`
	JWTRefreshTTL    time.Duration `env:"JWT_REFRESH_EXPIRES_IN" envDefault:"720h"`

	// BcryptCost is the bcrypt work factor used for password hashing.
	BcryptCost int `env:"BCRYPT_SALT_ROUND" envDefault:"10"`

	// Bootstrap credentials for the seeded SUPERADMIN account.
	SuperAdminEmail    string `env:"SUPER_ADMIN_EMAIL,required"`
	SuperAdminPassword string `env:"SUPER_ADMIN_PASSWORD,required"`

	// Cookie names carrying the token pair.
	AccessCookieName  string `env:"ACCESS_COOKIE_NAME"  envDefault:"maestro_access"`
	RefreshCookieName string `env:"REFRESH_COOKIE_NAME" envDefault:"maestro_refresh"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	return cfg, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
