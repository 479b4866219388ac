// Package config loads service configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config carries every runtime knob for the API process. Values are read once
// at startup; nothing else in the service touches the environment.
type Config struct {
	Addr        string        `env:"FOLIO_ADDR" envDefault:":8080"`
	PostgresDSN string        `env:"FOLIO_PG_DSN"`
	TokenSecret string        `env:"FOLIO_TOKEN_SECRET"`
	TokenTTL    time.Duration `env:"FOLIO_TOKEN_TTL" envDefault:"24h"`
	BcryptCost  int           `env:"FOLIO_BCRYPT_COST" envDefault:"10"`

	// VerifyConcurrency bounds how many password hash comparisons may run at
	// once so a burst of logins cannot starve unrelated requests.
	VerifyConcurrency int64 `env:"FOLIO_VERIFY_CONCURRENCY" envDefault:"4"`

	RateBurst  int `env:"FOLIO_RATE_BURST" envDefault:"20"`
	RatePerSec int `env:"FOLIO_RATE_PER_SEC" envDefault:"10"`

	MaxBodyBytes int64 `env:"FOLIO_MAX_BODY_BYTES" envDefault:"1048576"`
}

// Load parses configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the service cannot safely run with.
func (c Config) Validate() error {
	if c.TokenSecret == "" {
		return errors.New("FOLIO_TOKEN_SECRET is required")
	}
	if c.TokenTTL <= 0 {
		return errors.New("FOLIO_TOKEN_TTL must be positive")
	}
	if c.VerifyConcurrency <= 0 {
		return errors.New("FOLIO_VERIFY_CONCURRENCY must be positive")
	}
	return nil
}
