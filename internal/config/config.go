// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads the application configuration from environment
// variables once at process start. Components receive the resolved
// Config through their constructors; nothing reads the environment at
// request time.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath        string `env:"VANLOC_DB_PATH" envDefault:"./data/vanloc.db"`
	SessionSecret string `env:"VANLOC_SESSION_SECRET,required"`
	ServerHost    string `env:"VANLOC_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"VANLOC_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"VANLOC_ENV" envDefault:"development"`
	LogLevel      string `env:"VANLOC_LOG_LEVEL" envDefault:"info"`
	UploadsDir    string `env:"VANLOC_UPLOADS_DIR" envDefault:"./uploads"`

	// ReportFont is an optional TTF file with Vietnamese glyph coverage
	// for PDF reports; the built-in core font is used when unset.
	ReportFont string `env:"VANLOC_REPORT_FONT"`

	// Cache configuration
	RedisURL    string `env:"VANLOC_REDIS_URL"`                      // Optional Redis URL for distributed caching
	CachePrefix string `env:"VANLOC_CACHE_PREFIX" envDefault:"vanloc:"`
	CacheTTL    int    `env:"VANLOC_CACHE_TTL" envDefault:"300"`     // Public list cache TTL in seconds

	// Visit statistics
	StatsRetentionDays int `env:"VANLOC_STATS_RETENTION_DAYS" envDefault:"730"` // Daily buckets kept this long

	// Seeding configuration
	DoSeed bool `env:"VANLOC_DO_SEED" envDefault:"true"` // Seed default admin and stats on startup
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// MinSessionSecretLength is the minimum required length for the session secret.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("VANLOC_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	if cfg.StatsRetentionDays < 1 {
		return nil, fmt.Errorf("VANLOC_STATS_RETENTION_DAYS must be positive, got %d", cfg.StatsRetentionDays)
	}

	return cfg, nil
}
