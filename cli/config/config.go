package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

// Config represents a braket-devices.yaml configuration file.
// All values are optional and act as defaults for command flags.
// CLI flags always override config values.
type Config struct {
	// Regions are searched in order when listing devices.
	Regions  []string `yaml:"regions"`
	Profile  string   `yaml:"profile"`
	Endpoint string   `yaml:"endpoint"`
	// ServerURL makes read commands query a running service instead of AWS.
	ServerURL string `yaml:"server_url"`
	// Catalog is a catalog file (json, yaml or msgpack) replacing the
	// built-in seed.
	Catalog  string        `yaml:"catalog"`
	CacheTTL Duration      `yaml:"cache_ttl"`
	Log      LogConfig     `yaml:"log"`
	Server   ServerConfig  `yaml:"server"`
	Watch    WatchConfig   `yaml:"watch"`
	Storage  StorageConfig `yaml:"storage"`
	Adapter  AdapterConfig `yaml:"adapter"`
}

// LogConfig holds logging defaults.
type LogConfig struct {
	Level string `yaml:"level"`
}

// ServerConfig holds defaults for braket-devices serve.
type ServerConfig struct {
	Addr        string   `yaml:"addr"`
	BasePath    string   `yaml:"base_path"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// WatchConfig holds defaults for braket-devices watch.
type WatchConfig struct {
	Interval Duration `yaml:"interval"`
	// Restore resumes from the last archived statuses. Nil means true.
	Restore *bool `yaml:"restore,omitempty"`
}

// StorageConfig holds the observation archive settings.
type StorageConfig struct {
	Dataset     string `yaml:"dataset"`
	Backend     string `yaml:"backend"`
	Path        string `yaml:"path"`
	Region      string `yaml:"region"`
	Endpoint    string `yaml:"endpoint"`
	S3PathStyle bool   `yaml:"s3_path_style"`
}

// AdapterConfig holds adapter defaults from the config file.
type AdapterConfig struct {
	Type      string            `yaml:"type"`
	URL       string            `yaml:"url"`
	Channel   string            `yaml:"channel,omitempty"`
	StatusKey string            `yaml:"status_key,omitempty"`
	Headers   map[string]string `yaml:"headers,omitempty"`
	Timeout   Duration          `yaml:"timeout,omitempty"`
	Retries   *int              `yaml:"retries,omitempty"`
}

// Duration wraps time.Duration for YAML string parsing (e.g. "10s", "5m").
type Duration struct {
	time.Duration
}

// UnmarshalYAML parses a duration string like "10s" or "5m30s".
func (d *Duration) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

// RestoreEnabled reports whether the watcher resumes from the archive.
func (w WatchConfig) RestoreEnabled() bool {
	return w.Restore == nil || *w.Restore
}

// Validate checks enumerated values and ranges. All problems are
// reported together.
func (c *Config) Validate() error {
	var errs []error
	oneOf := func(field, value string, allowed ...string) {
		if value != "" && !slices.Contains(allowed, value) {
			errs = append(errs, fmt.Errorf("%s: %q (must be one of %s)", field, value, strings.Join(allowed, ", ")))
		}
	}
	nonNegative := func(field string, d Duration) {
		if d.Duration < 0 {
			errs = append(errs, fmt.Errorf("%s: must not be negative, got %s", field, d.Duration))
		}
	}

	oneOf("log.level", c.Log.Level, "debug", "info", "warn", "warning", "error")
	oneOf("adapter.type", c.Adapter.Type, "webhook", "redis")
	oneOf("storage.backend", c.Storage.Backend, "fs", "s3", "memory")
	if c.Server.BasePath != "" && !strings.HasPrefix(c.Server.BasePath, "/") {
		errs = append(errs, fmt.Errorf("server.base_path: %q must start with /", c.Server.BasePath))
	}
	if c.Adapter.Retries != nil && *c.Adapter.Retries < 0 {
		errs = append(errs, fmt.Errorf("adapter.retries: must be >= 0, got %d", *c.Adapter.Retries))
	}
	nonNegative("cache_ttl", c.CacheTTL)
	nonNegative("watch.interval", c.Watch.Interval)
	nonNegative("adapter.timeout", c.Adapter.Timeout)
	for i, r := range c.Regions {
		if strings.TrimSpace(r) == "" {
			errs = append(errs, fmt.Errorf("regions[%d]: empty region", i))
		}
	}
	return errors.Join(errs...)
}
