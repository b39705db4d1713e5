// Package config loads server settings from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds everything the server needs at startup.
type Config struct {
	Addr   string `env:"WESTBOUND_ADDR" envDefault:":8080"`
	DBPath string `env:"WESTBOUND_DB" envDefault:"data/westbound.db"`

	// Cloudflare Workers AI credentials. The server starts without
	// them, but turns fail until they are set.
	CFAccountID string `env:"CF_ACCOUNT_ID"`
	CFAPIToken  string `env:"CF_API_TOKEN"`
	Model       string `env:"CF_AI_MODEL"`

	GenTimeout  time.Duration `env:"WESTBOUND_GEN_TIMEOUT" envDefault:"30s"`
	TrailSeed   int64         `env:"WESTBOUND_TRAIL_SEED" envDefault:"1848"`
	TurnsPerMin int           `env:"WESTBOUND_TURNS_PER_MIN" envDefault:"30"`
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
