package app

import (
	"errors"
	"fmt"
	"time"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	EnvironmentsPaths []string // hcl files or directories

	LogFormat      string
	LogLevel       string
	CommandTimeout time.Duration
	Concurrency    int
}

// NewConfig validates cfg and returns a copy of it.
func NewConfig(cfg Config) (*Config, error) {
	if _, err := parseLevel(cfg.LogLevel); err != nil {
		return nil, err
	}
	switch cfg.LogFormat {
	case "text", "json":
	default:
		return nil, fmt.Errorf("invalid log-format %q: must be 'text' or 'json'", cfg.LogFormat)
	}
	if cfg.Concurrency < 0 {
		return nil, errors.New("concurrency must not be negative")
	}
	if cfg.CommandTimeout < 0 {
		return nil, errors.New("command timeout must not be negative")
	}

	return &cfg, nil
}
