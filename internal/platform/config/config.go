// Copyright (c) 2026 Vereinskasse. All rights reserved.
// Author: Vereinskasse Kiosk Team

/*
Package config handles kiosk-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (client, session storage) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// # Session Backends

// Supported values of SESSION_BACKEND.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// # Configuration Schema

// Config holds all runtime configuration for the kiosk gateway.
type Config struct {

	// Local gateway settings
	ServerPort     string   `env:"SERVER_PORT"      envDefault:"8081"`
	Environment    string   `env:"ENVIRONMENT"      envDefault:"development"`
	Debug          bool     `env:"DEBUG"            envDefault:"false"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS"  envSeparator:","`

	// TerminalID names this kiosk in logs and in the persisted session key.
	TerminalID string `env:"TERMINAL_ID" envDefault:"kiosk-1"`

	// Club backend (REST)
	APIURL        string        `env:"API_URL"        envDefault:"http://localhost:8000"`
	APIPrefix     string        `env:"API_PREFIX"     envDefault:"/api/v1"`
	APITimeout    time.Duration `env:"API_TIMEOUT"    envDefault:"30s"`
	OutboundRPS   float64       `env:"OUTBOUND_RPS"   envDefault:"20"`
	OutboundBurst int           `env:"OUTBOUND_BURST" envDefault:"40"`

	// Session persistence
	SessionBackend string `env:"SESSION_BACKEND" envDefault:"file"`
	SessionDir     string `env:"SESSION_DIR"     envDefault:"./data/state"`

	// Key-Value Cache (Redis), required for SESSION_BACKEND=redis
	RedisURL string `env:"REDIS_URL"`

	// Relational Database (PostgreSQL), required for SESSION_BACKEND=postgres
	DatabaseURL   string `env:"DATABASE_URL"`
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Locale drives currency formatting of display amounts.
	Locale string `env:"LOCALE" envDefault:"de"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate checks the settings that depend on each other.
func (c *Config) validate() error {
	switch c.SessionBackend {
	case BackendMemory, BackendFile:
	case BackendRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("config: REDIS_URL is required for session backend %q", c.SessionBackend)
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("config: DATABASE_URL is required for session backend %q", c.SessionBackend)
		}
	default:
		return fmt.Errorf("config: unknown session backend %q", c.SessionBackend)
	}

	if !strings.HasPrefix(c.APIURL, "http://") && !strings.HasPrefix(c.APIURL, "https://") {
		return fmt.Errorf("config: API_URL must be an http(s) URL, got %q", c.APIURL)
	}

	return nil
}

// BackendBaseURL joins the backend URL and the API prefix.
func (c *Config) BackendBaseURL() string {
	return strings.TrimRight(c.APIURL, "/") + "/" + strings.Trim(c.APIPrefix, "/")
}

// SessionKey is the persistence key of this terminal's session.
func (c *Config) SessionKey() string {
	return "auth-storage:" + c.TerminalID
}

// IsDevelopment reports whether the gateway is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the gateway is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Origins returns the kiosk UI origins allowed by CORS.
func (c *Config) Origins() []string {
	return c.AllowedOrigins
}
