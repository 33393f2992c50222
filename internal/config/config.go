// Package config loads runtime configuration from environment variables.
package config

import (
	"fmt"
	"net/url"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"

	"github.com/briangreenhill/apicache/cache"
)

// Config holds all application configuration
type Config struct {
	Cache    CacheConfig  `envPrefix:"APICACHE_"`
	GitHub   GitHubConfig `envPrefix:"GITHUB_"`
	LogLevel string       `env:"APICACHE_LOG_LEVEL" envDefault:"info"`
}

// CacheConfig selects where responses are cached
type CacheConfig struct {
	Mode string `env:"MODE" envDefault:"home"`
	Dir  string `env:"DIR"`
}

type GitHubConfig struct {
	BaseURL string `env:"API_URL" envDefault:"https://api.github.com"`
}

// Parse reads configuration from environment variables without validating
// it, so callers can apply overrides first.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

// Load reads and validates configuration from environment variables
func Load() (*Config, error) {
	cfg, err := Parse()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the cache mode, log level and URLs are usable
func (c *Config) Validate() error {
	mode, err := cache.ParseMode(c.Cache.Mode)
	if err != nil {
		return fmt.Errorf("APICACHE_MODE: %w", err)
	}
	if mode == cache.ModeDir && c.Cache.Dir == "" {
		return fmt.Errorf("APICACHE_DIR is required when APICACHE_MODE=dir")
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("APICACHE_LOG_LEVEL: %w", err)
	}
	u, err := url.Parse(c.GitHub.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("GITHUB_API_URL must be an absolute URL, got %q", c.GitHub.BaseURL)
	}
	return nil
}

// Level returns the configured log level, defaulting to info
func (c *Config) Level() zerolog.Level {
	l, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return l
}

// Backend builds the cache backend selected by the configuration
func (c *Config) Backend(logger zerolog.Logger) (cache.Backend, error) {
	mode, err := cache.ParseMode(c.Cache.Mode)
	if err != nil {
		return nil, err
	}
	return cache.New(mode, c.Cache.Dir, cache.WithLogger(logger))
}
