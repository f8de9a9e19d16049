package app

import (
	"errors"
	"fmt"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ScenePath string // hcl file or directory

	LogFormat       string
	LogLevel        string
	HealthcheckPort int

	// CacheSize bounds the number of cached payloads; 0 means unbounded.
	CacheSize int
	// Workers is how many payloads may be constructed concurrently before
	// placements are registered. 0 or 1 constructs them lazily, one by one.
	Workers int
	// Hold keeps the app (and its health server) running after the render
	// pass until the context is canceled.
	Hold bool
}

// NewConfig validates cfg and returns a copy of it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.ScenePath == "" {
		return nil, errors.New("ScenePath is a required configuration field and cannot be empty")
	}
	if cfg.CacheSize < 0 {
		return nil, fmt.Errorf("CacheSize must be >= 0, got %d", cfg.CacheSize)
	}
	if cfg.Workers < 0 {
		return nil, fmt.Errorf("Workers must be >= 0, got %d", cfg.Workers)
	}
	if cfg.HealthcheckPort < 0 || cfg.HealthcheckPort > 65535 {
		return nil, fmt.Errorf("HealthcheckPort must be between 0 and 65535, got %d", cfg.HealthcheckPort)
	}
	switch cfg.LogFormat {
	case "", "text", "json":
	default:
		return nil, fmt.Errorf("LogFormat must be 'text' or 'json', got %q", cfg.LogFormat)
	}
	switch cfg.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("LogLevel must be one of debug, info, warn, error, got %q", cfg.LogLevel)
	}

	return &cfg, nil
}
