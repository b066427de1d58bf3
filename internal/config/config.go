// Package config loads client configuration from .env files and the
// environment. The .env load is best effort so containerized deployments can
// rely on real environment variables alone.
package config

import (
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds everything the CLI and SDK wiring need.
// Constraint: HTTPTimeout is the only transport-level deadline; individual
// calls add nothing beyond their caller's context.
type Config struct {
	BaseURL        string        `envconfig:"BASE_URL" default:"http://localhost:4000/api"`
	AuthToken      string        `envconfig:"AUTH_TOKEN"`
	HTTPTimeout    time.Duration `envconfig:"HTTP_TIMEOUT" default:"15s"`
	PageSize       int           `envconfig:"PAGE_SIZE" default:"10"`
	SearchDebounce time.Duration `envconfig:"SEARCH_DEBOUNCE" default:"400ms"`
	MetricsAddr    string        `envconfig:"METRICS_ADDR" default:":9109"`
	Role           string        `envconfig:"ROLE" default:"admin"`
}

// Load reads .env (current directory, then data/env) and parses EPOLICE_*
// variables into a Config.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join("data", "env", ".env"))
	var c Config
	if err := envconfig.Process("epolice", &c); err != nil {
		return nil, err
	}
	return &c, nil
}
