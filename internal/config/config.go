// Package config loads runtime settings from the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the root configuration.
type Config struct {
	Scrape ScrapeConfig
	Log    LogConfig
}

// ScrapeConfig holds page retrieval and extraction settings.
type ScrapeConfig struct {
	Source         string        `env:"CONJSCRAPE_SOURCE"          env-default:"https://fr.m.wiktionary.org/wiki/Conjugaison:français/"`
	UserAgent      string        `env:"CONJSCRAPE_USER_AGENT"      env-default:"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"`
	Timeout        time.Duration `env:"CONJSCRAPE_TIMEOUT"         env-default:"10s"`
	Delay          time.Duration `env:"CONJSCRAPE_DELAY"           env-default:"500ms"`
	CompoundTenses bool          `env:"CONJSCRAPE_COMPOUND_TENSES" env-default:"true"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `env:"LOG_LEVEL"  env-default:"info"`
	Format string `env:"LOG_FORMAT" env-default:"text"`
}

// Load reads the configuration from environment variables and defaults.
func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Scrape.Source) == "" {
		errs = append(errs, errors.New("CONJSCRAPE_SOURCE must not be empty"))
	}
	if c.Scrape.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("CONJSCRAPE_TIMEOUT must be positive, got %s", c.Scrape.Timeout))
	}
	if c.Scrape.Delay < 0 {
		errs = append(errs, fmt.Errorf("CONJSCRAPE_DELAY must not be negative, got %s", c.Scrape.Delay))
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error, got %q", c.Log.Level))
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.Log.Format))
	}
	return errors.Join(errs...)
}
