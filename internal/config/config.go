// Package config provides configuration for leadhub.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds the service configuration.
type Config struct {
	// Server settings
	HTTPPort    int `env:"HTTP_PORT" envDefault:"8080"`
	WebhookPort int `env:"WEBHOOK_PORT" envDefault:"8081"`

	// Database
	DatabaseURL string `env:"DATABASE_URL" envDefault:"file:leadhub.db?cache=shared&mode=rwc"`

	// Auth
	JWTSecret     string `env:"JWT_SECRET" envDefault:"dev-secret"`
	WebhookSecret string `env:"WEBHOOK_SECRET" envDefault:""`

	// Logging
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}
