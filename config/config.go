// Package config loads application configuration from environment
// variables.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all application configuration.
type Config struct {
	AppEnv     string `env:"APP_ENV" envDefault:"development"`
	ListenAddr string `env:"LISTEN_ADDR" envDefault:":8080"`

	// SQLite DSN. foreign_keys stays on so the storage-level cascade
	// backstop is enforced.
	DatabaseDSN string `env:"DATABASE_DSN" envDefault:"file:local.db?cache=shared&_foreign_keys=on"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	ReadTimeout  time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`

	// Synthetic data generation knobs used by cmd/seed.
	SeedUsers         int `env:"SEED_USERS" envDefault:"50"`
	SeedMaxActivities int `env:"SEED_MAX_ACTIVITIES" envDefault:"100"`
}

// Load parses configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// IsDevelopment reports whether the app runs in development mode.
func (c *Config) IsDevelopment() bool { return c.AppEnv == "development" }
