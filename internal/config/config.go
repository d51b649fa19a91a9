// Package config loads engine settings from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds the engine settings.
type Config struct {
	// Debug logs every synthesized conversion chain.
	Debug bool `env:"TYPECONV_DEBUG" envDefault:"false"`
	// MaxClosurePasses bounds the conversion closure; 0 means unbounded.
	MaxClosurePasses int `env:"TYPECONV_MAX_CLOSURE_PASSES" envDefault:"64"`

	OTelEnabled  bool   `env:"TYPECONV_OTEL_ENABLED" envDefault:"true"`
	OTelEndpoint string `env:"TYPECONV_OTEL_ENDPOINT"`
}

// Default returns the settings used when the environment is empty.
func Default() Config {
	return Config{MaxClosurePasses: 64, OTelEnabled: true}
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses Config from the environment and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}

	if cfg.MaxClosurePasses < 0 {
		return Config{}, fmt.Errorf("TYPECONV_MAX_CLOSURE_PASSES must not be negative, got %d", cfg.MaxClosurePasses)
	}

	return cfg, nil
}

// TracingEnabled reports whether spans should be exported.
func (c Config) TracingEnabled() bool {
	return c.OTelEnabled && c.OTelEndpoint != ""
}
