package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultPath is read when OLYMPICHUB_CONFIG is not set.
const DefaultPath = "olympichub.yaml"

// LoadFile reads a YAML configuration file on top of Default(). A missing
// file is not an error: the defaults are returned. An existing file that
// cannot be parsed is an error.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	// Check if file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Load reads the file named by OLYMPICHUB_CONFIG (or DefaultPath) and then
// applies environment overrides.
func Load() (*Config, error) {
	cfg, err := LoadFile(getEnv("OLYMPICHUB_CONFIG", DefaultPath))
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	return cfg, nil
}
