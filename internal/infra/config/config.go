// Package config provides configuration loading from YAML files.
package config

import (
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Server   ServerConfig            `yaml:"server"`
	Auth     AuthConfig              `yaml:"auth"`
	Storage  StorageConfig           `yaml:"storage"`
	Playback PlaybackConfig          `yaml:"playback"`
	Filters  map[string]FilterConfig `yaml:"filters"`
	Importer ImporterConfig          `yaml:"importer"`
	Exporter ExporterConfig          `yaml:"exporter"`
	Planner  PlannerConfig           `yaml:"planner"`
	I18n     I18nConfig              `yaml:"i18n"`
	Media    MediaConfig             `yaml:"media"`
	Metrics  MetricsConfig           `yaml:"metrics"`
}

// ServerConfig represents server configuration.
type ServerConfig struct {
	Addr          string      `yaml:"addr" default:":8080"`
	PublicBaseURL string      `yaml:"public_base_url" default:"http://localhost:8080" validate:"url"`
	Hooks         HooksConfig `yaml:"hooks"`
}

// HooksConfig represents lifecycle hooks configuration.
type HooksConfig struct {
	OnStarted []string `yaml:"on_started"`
	OnStopped []string `yaml:"on_stopped"`
}

// AuthConfig represents API authentication. An empty token disables the check.
type AuthConfig struct {
	Token string `yaml:"token"`
}

// StorageConfig selects and configures the blob store backend.
type StorageConfig struct {
	Type     string         `yaml:"type" default:"badger" validate:"oneof=badger sqlite memory"`
	QuotaMB  int            `yaml:"quota_mb" validate:"gte=0"`
	Settings map[string]any `yaml:"settings"`
}

// PlaybackConfig represents playback controller configuration.
type PlaybackConfig struct {
	InitialVolume   float64 `yaml:"initial_volume" default:"1" validate:"gte=0,lte=1"`
	LoadTimeoutMs   int     `yaml:"load_timeout_ms" validate:"gte=0"`
	KeepSelection   bool    `yaml:"keep_selection_on_import"`
	EventBufferSize int     `yaml:"event_buffer_size" default:"32" validate:"gte=1"`
}

// FilterConfig represents an import filter's configuration.
type FilterConfig struct {
	Enabled  bool           `yaml:"enabled"`
	Settings map[string]any `yaml:"settings,omitempty"`
}

// ImporterConfig represents the watch-folder importer.
type ImporterConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Dir        string `yaml:"dir" validate:"required_if=Enabled true"`
	DebounceMs int    `yaml:"debounce_ms" default:"500" validate:"gte=0"`
}

// ExporterConfig represents the library export defaults.
type ExporterConfig struct {
	Dir string `yaml:"dir" default:"export"`
}

// PlannerConfig represents the planner store.
type PlannerConfig struct {
	Path string `yaml:"path" default:"data/planner.db" validate:"required"`
}

// I18nConfig represents message localization.
type I18nConfig struct {
	DefaultLocale string `yaml:"default_locale" default:"en" validate:"oneof=en ja"`
}

// MediaConfig represents the object URL media endpoint.
type MediaConfig struct {
	RateLimitPerMinute int `yaml:"rate_limit_per_minute" default:"600" validate:"gte=0"`
}

// MetricsConfig represents the Prometheus endpoint.
type MetricsConfig struct {
	Disabled bool   `yaml:"disabled"`
	Path     string `yaml:"path" default:"/metrics"`
}

// Load loads configuration from a YAML file.
// Environment variables take precedence over file values for sensitive fields.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}
	return Parse(data)
}

// Parse parses configuration from YAML bytes.
func Parse(data []byte) (*Config, error) {
	var cfg Config

	// Defaults go in first so explicit zero values in the file survive
	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}

	// Override with environment variables
	cfg.overrideFromEnv()

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

// overrideFromEnv overrides config values with environment variables.
func (c *Config) overrideFromEnv() {
	if v := os.Getenv("VIDSHELF_TOKEN"); v != "" {
		c.Auth.Token = v
	}
	if v := os.Getenv("VIDSHELF_STORAGE_TYPE"); v != "" {
		c.Storage.Type = v
	}
	if v := os.Getenv("VIDSHELF_PUBLIC_BASE_URL"); v != "" {
		c.Server.PublicBaseURL = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "struct validation failed")
	}

	if strings.HasSuffix(c.Server.PublicBaseURL, "/") {
		return errors.Newf("public_base_url (%s) must not end with a slash", c.Server.PublicBaseURL)
	}

	return nil
}

// IsFilterEnabled checks if a filter is enabled.
func (c *Config) IsFilterEnabled(filterName string) bool {
	if f, ok := c.Filters[filterName]; ok {
		return f.Enabled
	}
	return false
}

// FilterSettings returns the settings for a filter.
func (c *Config) FilterSettings(filterName string) map[string]any {
	if f, ok := c.Filters[filterName]; ok {
		return f.Settings
	}
	return nil
}
