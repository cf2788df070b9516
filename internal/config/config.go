// Package config loads client settings from a YAML file with environment
// overrides.
package config

import (
	"errors"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the client settings.
type Config struct {
	// Addr is the API base URL, e.g. https://api.notegenius.app/api.
	Addr string
	// Timeout bounds each HTTP request.
	Timeout time.Duration
	// Debounce is the search quiet period.
	Debounce time.Duration
}

// fileConfig is the on-disk schema; durations are Go duration strings.
type fileConfig struct {
	Addr     string `yaml:"addr"`
	Timeout  string `yaml:"timeout"`
	Debounce string `yaml:"debounce"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Addr:     "http://localhost:8000/api",
		Timeout:  30 * time.Second,
		Debounce: 300 * time.Millisecond,
	}
}

// Load reads the YAML file at path (missing file is fine) and applies
// environment overrides. A .env file in the working directory is honored when
// present.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case err == nil:
			var fc fileConfig
			if err := yaml.Unmarshal(b, &fc); err != nil {
				return Config{}, err
			}
			if fc.Addr != "" {
				cfg.Addr = fc.Addr
			}
			if fc.Timeout != "" {
				d, err := time.ParseDuration(fc.Timeout)
				if err != nil {
					return Config{}, err
				}
				cfg.Timeout = d
			}
			if fc.Debounce != "" {
				d, err := time.ParseDuration(fc.Debounce)
				if err != nil {
					return Config{}, err
				}
				cfg.Debounce = d
			}
		case errors.Is(err, os.ErrNotExist):
			// defaults apply
		default:
			return Config{}, err
		}
	}

	if v := os.Getenv("NOTEGENIUS_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("NOTEGENIUS_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, err
		}
		cfg.Timeout = d
	}
	if v := os.Getenv("NOTEGENIUS_DEBOUNCE"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, err
		}
		cfg.Debounce = d
	}
	return cfg, nil
}
