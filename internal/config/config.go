package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config files looked up by LoadConfig, in priority order
const (
	JSONFileName = ".teafoundation.json"
	TOMLFileName = "teafoundation.toml"
	YAMLFileName = "teafoundation.yaml"
)

// Config holds the process-wide options read by the UI building blocks
type Config struct {
	UnhandledErrorSupportText string       `json:"unhandledErrorSupportText" toml:"unhandled_error_support_text" yaml:"unhandledErrorSupportText"`
	DefaultDateFormat         string       `json:"defaultDateFormat" toml:"default_date_format" yaml:"defaultDateFormat"`
	DefaultTimeFormat         string       `json:"defaultTimeFormat" toml:"default_time_format" yaml:"defaultTimeFormat"`
	Toast                     ToastConfig  `json:"toast" toml:"toast" yaml:"toast"`
	Select                    SelectConfig `json:"select" toml:"select" yaml:"select"`

	// ErrorHandler receives every unexpected (non-user) error.
	// It can only be set from code.
	ErrorHandler func(err error) `json:"-" toml:"-" yaml:"-"`
}

// ToastConfig contains toast notification settings
type ToastConfig struct {
	DurationMs int `json:"durationMs" toml:"duration_ms" yaml:"durationMs"`
	MaxWidth   int `json:"maxWidth" toml:"max_width" yaml:"maxWidth"`
}

// SelectConfig contains smart-select settings
type SelectConfig struct {
	MaxVisible int `json:"maxVisible" toml:"max_visible" yaml:"maxVisible"`
}

// ToastDuration returns the toast lifetime as a time.Duration
func (c *Config) ToastDuration() time.Duration {
	return time.Duration(c.Toast.DurationMs) * time.Millisecond
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		UnhandledErrorSupportText: "please contact support",
		DefaultDateFormat:         "M/d/yy",
		DefaultTimeFormat:         "H:mm",
		Toast: ToastConfig{
			DurationMs: 4000,
			MaxWidth:   40,
		},
		Select: SelectConfig{
			MaxVisible: 8,
		},
		ErrorHandler: defaultErrorHandler,
	}
}

func defaultErrorHandler(err error) {
	slog.Default().Error("unhandled error", "error", err)
}

var current atomic.Pointer[Config]

func init() {
	current.Store(DefaultConfig())
}

// Current returns the active process-wide configuration.
// The returned value must be treated as read-only.
func Current() *Config {
	return current.Load()
}

// Configure merges cfg with defaults and publishes it as the active configuration.
// It is meant to be called once at startup; readers never lock.
func Configure(cfg *Config) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	merged := *cfg
	current.Store(MergeWithDefaults(&merged))
}

// LoadConfig loads configuration from project path with priority:
// 1. .teafoundation.json in project root (with version migration support)
// 2. teafoundation.toml
// 3. teafoundation.yaml / teafoundation.yml
// 4. Defaults
func LoadConfig(projectPath string) (*Config, error) {
	candidates := []string{
		JSONFileName,
		TOMLFileName,
		YAMLFileName,
		strings.TrimSuffix(YAMLFileName, ".yaml") + ".yml",
	}

	for _, name := range candidates {
		path := filepath.Join(projectPath, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		cfg, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		return cfg, nil
	}

	// Return defaults if no config files found
	return DefaultConfig(), nil
}

// LoadFile loads a single config file, choosing the decoder by extension
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}

	var cfg *Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		cfg, err = ParseVersionedConfig(data)
	case ".toml":
		cfg = &Config{}
		err = toml.Unmarshal(data, cfg)
	case ".yaml", ".yml":
		cfg = &Config{}
		err = yaml.Unmarshal(data, cfg)
	default:
		return nil, fmt.Errorf("unsupported config format %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}

	return MergeWithDefaults(cfg), nil
}

// SaveConfig saves configuration to the specified path with version information
func SaveConfig(cfg *Config, path string) error {
	data, err := MarshalVersionedConfig(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeWithDefaults fills in missing values with defaults
func MergeWithDefaults(cfg *Config) *Config {
	defaults := DefaultConfig()

	if cfg.UnhandledErrorSupportText == "" {
		cfg.UnhandledErrorSupportText = defaults.UnhandledErrorSupportText
	}
	if cfg.DefaultDateFormat == "" {
		cfg.DefaultDateFormat = defaults.DefaultDateFormat
	}
	if cfg.DefaultTimeFormat == "" {
		cfg.DefaultTimeFormat = defaults.DefaultTimeFormat
	}

	if cfg.Toast.DurationMs == 0 {
		cfg.Toast.DurationMs = defaults.Toast.DurationMs
	}
	if cfg.Toast.MaxWidth == 0 {
		cfg.Toast.MaxWidth = defaults.Toast.MaxWidth
	}

	if cfg.Select.MaxVisible == 0 {
		cfg.Select.MaxVisible = defaults.Select.MaxVisible
	}

	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = defaults.ErrorHandler
	}

	return cfg
}

// Load is a convenience function that loads config from current directory
func Load() (*Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current directory: %w", err)
	}
	return LoadConfig(cwd)
}

// marshalJSON is split out so version.go can flatten the result
func marshalJSON(cfg *Config) ([]byte, error) {
	return json.Marshal(cfg)
}
