package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):.
//  1. defaults (New())
//  2. file (YAML) if VRI_CONFIG is set
//  3. env (prefix VRI_)
func Load(_ context.Context) (*Config, error) {
	// Start with defaults
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("VRI_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	// Environment variables: VRI_ADDR, VRI_MAX_RECORDS, ...
	// Map env keys like VRI_MAX_RECORDS -> max_records (flat keys)
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("VRI_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "vri_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	// Basic validation
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.MaxRecords < 1:
		return fmt.Errorf("%w: max_records must be positive", ErrInvalidConfig)
	case c.StormWindowMS < 1:
		return fmt.Errorf("%w: storm_window_ms must be positive", ErrInvalidConfig)
	case c.StormThreshold < 1:
		return fmt.Errorf("%w: storm_threshold must be positive", ErrInvalidConfig)
	case c.MaxQueryLimit < 1:
		return fmt.Errorf("%w: max_query_limit must be positive", ErrInvalidConfig)
	case c.ArchivePath == "":
		return fmt.Errorf("%w: archive_path must not be empty", ErrInvalidConfig)
	}
	return nil
}
