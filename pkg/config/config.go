// Package config loads runtime configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config carries the runtime settings of the API server.
type Config struct {
	Addr             string
	DatabaseURL      string
	OtelHost         string
	TraceProbability float64
}

// Load reads a .env file when present, then the environment. A missing
// .env file is fine, the environment alone still applies.
func Load() (Config, error) {
	_ = godotenv.Load()

	addr := os.Getenv("ADDR")
	if addr == "" {
		addr = ":8080"
	}

	prob := 1.0
	if val := os.Getenv("TRACE_PROBABILITY"); val != "" {
		p, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return Config{}, fmt.Errorf("parse TRACE_PROBABILITY: %w", err)
		}
		prob = p
	}

	return Config{
		Addr:             addr,
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		OtelHost:         os.Getenv("OTEL_HOST"),
		TraceProbability: prob,
	}, nil
}
