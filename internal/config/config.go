package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const DefaultBaseURL = "http://localhost:5000"

type Config struct {
	Service struct {
		BaseURL string `yaml:"base_url" validate:"required,url"`
		Timeout string `yaml:"timeout"`
	} `yaml:"service"`
	Breaker struct {
		Enabled     *bool  `yaml:"enabled"`
		MaxFailures uint32 `yaml:"max_failures"`
		OpenTimeout string `yaml:"open_timeout"`
	} `yaml:"breaker"`
	Quiz struct {
		CacheTTL string `yaml:"cache_ttl"`
	} `yaml:"quiz"`
	Redis struct {
		Addr      string `yaml:"addr" validate:"omitempty,hostname_port"`
		Password  string `yaml:"password"`
		DB        int    `yaml:"db" validate:"gte=0"`
		Namespace string `yaml:"namespace"`
		TTL       string `yaml:"ttl"`
	} `yaml:"redis"`
	Chat struct {
		ResetDelay string `yaml:"reset_delay"`
	} `yaml:"chat"`
	Log struct {
		Level  string `yaml:"level" validate:"omitempty,oneof=trace debug info warn warning error disabled off"`
		Format string `yaml:"format" validate:"omitempty,oneof=json console"`
		File   string `yaml:"file"`
	} `yaml:"log"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	cfg := Config{}
	cfg.Service.BaseURL = DefaultBaseURL
	cfg.Service.Timeout = "15s"
	cfg.Breaker.MaxFailures = 5
	cfg.Breaker.OpenTimeout = "30s"
	cfg.Chat.ResetDelay = "1s"
	cfg.Log.Level = "info"
	cfg.Log.Format = "json"
	cfg.Log.File = "suggestify.log"
	return cfg
}

// Load reads YAML config from path on top of the defaults. A missing file
// yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration after flags and overrides were applied.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// BreakerEnabled reports whether the circuit breaker is on (default true).
func (c Config) BreakerEnabled() bool {
	return c.Breaker.Enabled == nil || *c.Breaker.Enabled
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
