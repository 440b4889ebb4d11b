// Copyright (c) 2026 HWSphere. All rights reserved.
// Author: Bryan Pineda

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
  - Injection: Passed to the pool, object storage and index clients via constructors.
  - Grouping: Optional collaborators (search index) are disabled by leaving their host empty.
*/
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the HWSphere API server and maintenance jobs.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Store (Redis) for refresh sessions and login throttling
	RedisURL string `env:"REDIS_URL,required"`

	// Key pair for access-token signing
	JWTPrivKeyPath string `env:"JWT_PRIVATE_KEY_PATH,required"`
	JWTPubKeyPath  string `env:"JWT_PUBLIC_KEY_PATH,required"`

	// Object Storage (S3-compatible)
	S3Bucket        string `env:"S3_BUCKET"`
	S3Region        string `env:"S3_REGION"          envDefault:"auto"`
	S3Endpoint      string `env:"S3_ENDPOINT"`
	S3PublicBaseURL string `env:"S3_PUBLIC_BASE_URL"`

	// MaxUploadBytes caps the multipart body accepted for project writes.
	MaxUploadBytes int64 `env:"MAX_UPLOAD_BYTES" envDefault:"104857600"`

	// Hosted search index (Discover). Empty host disables it.
	SearchIndex SearchIndexConfig `envPrefix:"SEARCH_INDEX_"`

	// SearchCacheTTL is the validity window of the last search and tag-list memo.
	SearchCacheTTL time.Duration `env:"SEARCH_CACHE_TTL" envDefault:"5m"`

	// Cross-Origin Resource Sharing
	ExtraOrigins []string `env:"EXTRA_ORIGINS" envSeparator:","`
}

// SearchIndexConfig describes the Typesense-compatible index used by Discover.
type SearchIndexConfig struct {
	Host       string `env:"HOST"`
	Port       int    `env:"PORT"       envDefault:"443"`
	Protocol   string `env:"PROTOCOL"   envDefault:"https"`
	APIKey     string `env:"API_KEY"`
	Collection string `env:"COLLECTION" envDefault:"projects"`
}

// Enabled reports whether a search index host has been configured.
func (c SearchIndexConfig) Enabled() bool {
	return c.Host != ""
}

// BaseURL renders the protocol/host/port triple as a URL prefix.
func (c SearchIndexConfig) BaseURL() string {
	return fmt.Sprintf("%s://%s:%d", c.Protocol, c.Host, c.Port)
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	cfg := &Config{}

	// Fails if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if cfg.SearchCacheTTL <= 0 {
		return nil, fmt.Errorf("config: SEARCH_CACHE_TTL must be positive, got %s", cfg.SearchCacheTTL)
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
