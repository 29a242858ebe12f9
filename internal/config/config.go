// Package config reads runtime settings from HOOPS_* environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/pable/go-hoops-stats/internal/model"
)

// Persistence backends.
const (
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
	BackendRemote = "remote"
	BackendRedis  = "redis"
)

// PortKey is the variable Wrap converts to a number.
const PortKey = "HOOPS_PORT"

// Config holds every setting the CLI and server need.
type Config struct {
	Backend       string        `env:"HOOPS_BACKEND" envDefault:"sqlite"`
	DB            string        `env:"HOOPS_DB"`
	RemoteURL     string        `env:"HOOPS_REMOTE_URL"`
	RemoteTimeout time.Duration `env:"HOOPS_REMOTE_TIMEOUT" envDefault:"30s"`
	RedisURL      string        `env:"HOOPS_REDIS_ADDR" envDefault:"redis://localhost:6379/0"`
	RedisPrefix   string        `env:"HOOPS_REDIS_PREFIX" envDefault:"hoops"`
	PlayerOrder   model.OrderBy `env:"HOOPS_PLAYER_ORDER" envDefault:"id"`
	GameOrder     model.OrderBy `env:"HOOPS_GAME_ORDER" envDefault:"date"`
	Port          int           `env:"HOOPS_PORT" envDefault:"4000"`
	Debug         bool          `env:"HOOPS_DEBUG"`
	RateLimit     float64       `env:"HOOPS_RATE_LIMIT" envDefault:"20"`
	RateBurst     int           `env:"HOOPS_RATE_BURST" envDefault:"40"`
	CORSOrigins   []string      `env:"HOOPS_CORS_ORIGINS" envSeparator:"," envDefault:"*"`
	AnthropicKey  string        `env:"ANTHROPIC_API_KEY"`
}

// Load parses the environment into a Config and validates it.
func Load() (Config, error) {
	cfg, err := Parse()
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse reads the environment without validating, for callers that apply overrides first.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Validate checks the enumerated settings.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendSQLite, BackendMemory, BackendRedis:
	case BackendRemote:
		if c.RemoteURL == "" {
			return fmt.Errorf("backend %q needs HOOPS_REMOTE_URL", c.Backend)
		}
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	if !c.PlayerOrder.Valid() {
		return fmt.Errorf("unknown player order %q", c.PlayerOrder)
	}
	if !c.GameOrder.Valid() {
		return fmt.Errorf("unknown game order %q", c.GameOrder)
	}
	return nil
}

// Wrap turns raw string settings into typed values: "true" and "false" become booleans and
// PortKey becomes a number. Every key is also exported to the process environment, so a
// later Load sees it. A port that does not parse is kept as the raw string.
func Wrap(vars map[string]string) map[string]any {
	out := make(map[string]any, len(vars))
	for key, raw := range vars {
		var val any = raw
		switch raw {
		case "true":
			val = true
		case "false":
			val = false
		}
		if key == PortKey {
			if n, err := strconv.Atoi(raw); err == nil {
				val = n
			}
		}
		out[key] = val
		os.Setenv(key, raw)
	}
	return out
}
