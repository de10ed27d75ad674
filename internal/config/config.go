// Package config loads exporter settings from YAML files and the environment.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/karolakvido/ics-export/internal/fetch"
	"github.com/karolakvido/ics-export/internal/scraper"
)

// Duration lets YAML configs use "90s" style values.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("parsing duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the plain time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// FetchConfig tunes request politeness and retries.
type FetchConfig struct {
	UserAgent     string   `yaml:"user_agent"`
	Timeout       Duration `yaml:"timeout"`
	RequestDelay  Duration `yaml:"request_delay"`
	MaxDelay      Duration `yaml:"max_delay"`
	BackoffFactor float64  `yaml:"backoff_factor"`
	MaxAttempts   int      `yaml:"max_attempts"`
}

// Config holds everything one export run needs.
type Config struct {
	URL    string      `yaml:"url"`
	Output string      `yaml:"output"`
	Kraj   string      `yaml:"kraj"`
	Fetch  FetchConfig `yaml:"fetch"`
}

// Default returns the stock configuration for the public concert calendar.
func Default() Config {
	return Config{
		URL:    scraper.CalendarURL,
		Output: "karolakvido.ics",
		Fetch: FetchConfig{
			UserAgent:     fetch.DefaultUserAgent,
			Timeout:       Duration(fetch.DefaultTimeout),
			RequestDelay:  Duration(fetch.DefaultRequestDelay),
			MaxDelay:      Duration(fetch.DefaultMaxDelay),
			BackoffFactor: fetch.DefaultBackoffFactor,
			MaxAttempts:   fetch.DefaultMaxAttempts,
		},
	}
}

// Load reads path and overlays it on the defaults. An empty path skips the
// file. Environment variables override both.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config: %w", err)
		}
	}
	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("KAROLAKVIDO_URL"); v != "" {
		cfg.URL = v
	}
	if v := os.Getenv("KAROLAKVIDO_OUTPUT"); v != "" {
		cfg.Output = v
	}
	if v := os.Getenv("KAROLAKVIDO_KRAJ"); v != "" {
		cfg.Kraj = v
	}
}

// FetchOptions converts the fetch section into client options.
func (c Config) FetchOptions() fetch.Options {
	return fetch.Options{
		UserAgent:     c.Fetch.UserAgent,
		Timeout:       c.Fetch.Timeout.Std(),
		RequestDelay:  c.Fetch.RequestDelay.Std(),
		MaxDelay:      c.Fetch.MaxDelay.Std(),
		BackoffFactor: c.Fetch.BackoffFactor,
		MaxAttempts:   c.Fetch.MaxAttempts,
	}
}
