// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for steptrail.
//
// Configuration file locations (in order of precedence):
//   - --config flag
//   - ~/.steptrail/config.toml
//   - Built-in defaults
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/jeranaias/steptrail/internal/util"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "STEPTRAIL_"

// =============================================================================
// DURATION TYPE
// =============================================================================

// Duration is a time.Duration written as a string ("2500ms") in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	if s == "" {
		d.Duration = 0
		return nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete steptrail configuration.
type Config struct {
	UI           UIConfig           `toml:"ui" json:"ui"`
	Integrations IntegrationsConfig `toml:"integrations" json:"integrations"`
	Feed         FeedConfig         `toml:"feed" json:"feed"`
	Log          LogConfig          `toml:"log" json:"log"`
	Metrics      MetricsConfig      `toml:"metrics" json:"metrics"`
}

// UIConfig contains rendering and animation settings.
type UIConfig struct {
	// Replay is "index" (remounts replay entrance animations) or "identity".
	Replay string `toml:"replay" json:"replay"`

	// StepStagger is the per-index entrance delay.
	StepStagger Duration `toml:"step_stagger" json:"step_stagger"`

	// CompletionFadeAfter and CompletionHideAfter time the "Done" badge.
	CompletionFadeAfter Duration `toml:"completion_fade_after" json:"completion_fade_after"`
	CompletionHideAfter Duration `toml:"completion_hide_after" json:"completion_hide_after"`

	// Markdown selects the detail panel renderer: "nodes" or "glamour".
	Markdown string `toml:"markdown" json:"markdown"`

	// AnimationFPS is the shared animation tick rate.
	AnimationFPS int `toml:"animation_fps" json:"animation_fps"`

	// Theme is "auto", "dark" or "light".
	Theme string `toml:"theme" json:"theme"`
}

// IntegrationsConfig selects the integration-connections store.
type IntegrationsConfig struct {
	Backend string `toml:"backend" json:"backend"`
	Path    string `toml:"path" json:"path"`
	Watch   bool   `toml:"watch" json:"watch"`
}

// FeedConfig limits transcript replay.
type FeedConfig struct {
	// MaxRate is frames per second; 0 means unlimited.
	MaxRate float64 `toml:"max_rate" json:"max_rate"`
	Burst   int     `toml:"burst" json:"burst"`
}

// LogConfig configures the log file.
type LogConfig struct {
	Level  string `toml:"level" json:"level"`
	Format string `toml:"format" json:"format"`
	File   string `toml:"file" json:"file"`
}

// MetricsConfig enables the Prometheus endpoint.
type MetricsConfig struct {
	// Addr is the listen address; empty disables metrics.
	Addr string `toml:"addr" json:"addr"`
}

// Default returns a configuration with default values.
func Default() *Config {
	return &Config{
		UI: UIConfig{
			Replay:              "index",
			StepStagger:         Duration{100 * time.Millisecond},
			CompletionFadeAfter: Duration{2500 * time.Millisecond},
			CompletionHideAfter: Duration{3000 * time.Millisecond},
			Markdown:            "nodes",
			AnimationFPS:        20,
			Theme:               "auto",
		},
		Integrations: IntegrationsConfig{
			Backend: "file",
			Watch:   true,
		},
		Feed: FeedConfig{
			MaxRate: 0,
			Burst:   1,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the steptrail configuration directory path.
// STEPTRAIL_HOME overrides the default ~/.steptrail.
func ConfigDir() (string, error) {
	if dir := os.Getenv(EnvPrefix + "HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".steptrail"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// DefaultStorePath returns the default location for a store backend.
func DefaultStorePath(backend string) (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	switch backend {
	case "sqlite":
		return filepath.Join(dir, "steptrail.db"), nil
	case "pebble":
		return filepath.Join(dir, "pebble"), nil
	default:
		return filepath.Join(dir, "connections.json"), nil
	}
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// LoadDotEnv loads .env files into the environment. Missing files are
// ignored; variables already set are kept.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// Load loads configuration from the default file, falling back to
// defaults when it does not exist. Environment overrides are applied last.
func Load() (*Config, error) {
	path, err := ConfigPathTOML()
	if err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			return LoadFromPath(path)
		}
	}

	cfg := Default()
	if err := cfg.finish(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromPath loads configuration from a specific TOML file with full
// validation.
func LoadFromPath(path string) (*Config, error) {
	cfg := &Config{}
	if err := LoadTOML(cfg, path); err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}
	if err := cfg.finish(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadTOML decodes a TOML file into cfg and fills missing values.
func LoadTOML(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}
	fillDefaults(cfg, md)
	return nil
}

func (c *Config) finish() error {
	c.ApplyEnvOverrides()
	if err := c.SetDefaults(); err != nil {
		return err
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// fillDefaults fills in values the file did not set. Booleans are only
// defaulted when the key is absent.
func fillDefaults(cfg *Config, md toml.MetaData) {
	defaults := Default()

	if cfg.UI.Replay == "" {
		cfg.UI.Replay = defaults.UI.Replay
	}
	if cfg.UI.StepStagger.Duration == 0 && !md.IsDefined("ui", "step_stagger") {
		cfg.UI.StepStagger = defaults.UI.StepStagger
	}
	if cfg.UI.CompletionFadeAfter.Duration == 0 {
		cfg.UI.CompletionFadeAfter = defaults.UI.CompletionFadeAfter
	}
	if cfg.UI.CompletionHideAfter.Duration == 0 {
		cfg.UI.CompletionHideAfter = defaults.UI.CompletionHideAfter
	}
	if cfg.UI.Markdown == "" {
		cfg.UI.Markdown = defaults.UI.Markdown
	}
	if cfg.UI.AnimationFPS == 0 {
		cfg.UI.AnimationFPS = defaults.UI.AnimationFPS
	}
	if cfg.UI.Theme == "" {
		cfg.UI.Theme = defaults.UI.Theme
	}

	if cfg.Integrations.Backend == "" {
		cfg.Integrations.Backend = defaults.Integrations.Backend
	}
	if !md.IsDefined("integrations", "watch") {
		cfg.Integrations.Watch = defaults.Integrations.Watch
	}

	if cfg.Feed.Burst == 0 {
		cfg.Feed.Burst = defaults.Feed.Burst
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = defaults.Log.Level
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = defaults.Log.Format
	}
}

// SetDefaults fills path values that depend on the environment.
func (c *Config) SetDefaults() error {
	if c.Integrations.Path == "" && c.Integrations.Backend != "memory" {
		p, err := DefaultStorePath(c.Integrations.Backend)
		if err != nil {
			return err
		}
		c.Integrations.Path = p
	}
	if c.Log.File == "" {
		dir, err := ConfigDir()
		if err != nil {
			return err
		}
		c.Log.File = filepath.Join(dir, "steptrail.log")
	}
	return nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// SaveTOML writes the configuration to path with 0600 permissions.
func SaveTOML(cfg *Config, path string) error {
	var b strings.Builder
	b.WriteString("# steptrail configuration file\n\n")
	if err := toml.NewEncoder(&b).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, []byte(b.String()), 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

func oneOf(field, value string, allowed ...string) *ValidationError {
	for _, a := range allowed {
		if strings.EqualFold(value, a) {
			return nil
		}
	}
	return &ValidationError{
		Field:   field,
		Message: fmt.Sprintf("invalid value '%s', must be one of: %s", value, strings.Join(allowed, ", ")),
	}
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors
	add := func(e *ValidationError) {
		if e != nil {
			errs = append(errs, *e)
		}
	}

	// UI
	add(oneOf("ui.replay", c.UI.Replay, "index", "identity"))
	add(oneOf("ui.markdown", c.UI.Markdown, "nodes", "glamour"))
	add(oneOf("ui.theme", c.UI.Theme, "auto", "dark", "light"))
	if c.UI.StepStagger.Duration < 0 {
		errs = append(errs, ValidationError{Field: "ui.step_stagger", Message: "must not be negative"})
	}
	if c.UI.CompletionFadeAfter.Duration <= 0 {
		errs = append(errs, ValidationError{Field: "ui.completion_fade_after", Message: "must be positive"})
	}
	if c.UI.CompletionHideAfter.Duration <= c.UI.CompletionFadeAfter.Duration {
		errs = append(errs, ValidationError{
			Field:   "ui.completion_hide_after",
			Message: fmt.Sprintf("must be greater than completion_fade_after (%s)", c.UI.CompletionFadeAfter.Duration),
		})
	}
	if c.UI.AnimationFPS < 1 || c.UI.AnimationFPS > 120 {
		errs = append(errs, ValidationError{Field: "ui.animation_fps", Message: "must be between 1 and 120"})
	}

	// Integrations
	add(oneOf("integrations.backend", c.Integrations.Backend, "file", "sqlite", "pebble", "memory"))

	// Feed
	if c.Feed.MaxRate < 0 {
		errs = append(errs, ValidationError{Field: "feed.max_rate", Message: "must not be negative"})
	}
	if c.Feed.Burst < 1 {
		errs = append(errs, ValidationError{Field: "feed.burst", Message: "must be at least 1"})
	}

	// Log
	add(oneOf("log.level", c.Log.Level, "trace", "debug", "info", "warn", "error"))
	add(oneOf("log.format", c.Log.Format, "text", "json"))

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides.
//
// Supported variables:
//   - STEPTRAIL_REPLAY, STEPTRAIL_MARKDOWN, STEPTRAIL_THEME
//   - STEPTRAIL_STEP_STAGGER, STEPTRAIL_FADE_AFTER, STEPTRAIL_HIDE_AFTER
//   - STEPTRAIL_INTEGRATIONS_BACKEND, STEPTRAIL_INTEGRATIONS_PATH, STEPTRAIL_INTEGRATIONS_WATCH
//   - STEPTRAIL_FEED_MAX_RATE
//   - STEPTRAIL_LOG_LEVEL, STEPTRAIL_LOG_FORMAT, STEPTRAIL_LOG_FILE
//   - STEPTRAIL_METRICS_ADDR
//
// Unparseable values are ignored.
func (c *Config) ApplyEnvOverrides() {
	str := func(name string, dst *string) {
		if v := os.Getenv(EnvPrefix + name); v != "" {
			*dst = v
		}
	}
	dur := func(name string, dst *Duration) {
		if v := os.Getenv(EnvPrefix + name); v != "" {
			if d, err := time.ParseDuration(v); err == nil {
				dst.Duration = d
			}
		}
	}

	str("REPLAY", &c.UI.Replay)
	str("MARKDOWN", &c.UI.Markdown)
	str("THEME", &c.UI.Theme)
	dur("STEP_STAGGER", &c.UI.StepStagger)
	dur("FADE_AFTER", &c.UI.CompletionFadeAfter)
	dur("HIDE_AFTER", &c.UI.CompletionHideAfter)

	str("INTEGRATIONS_BACKEND", &c.Integrations.Backend)
	str("INTEGRATIONS_PATH", &c.Integrations.Path)
	if v := os.Getenv(EnvPrefix + "INTEGRATIONS_WATCH"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Integrations.Watch = b
		}
	}

	if v := os.Getenv(EnvPrefix + "FEED_MAX_RATE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Feed.MaxRate = f
		}
	}

	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)
	str("LOG_FILE", &c.Log.File)
	str("METRICS_ADDR", &c.Metrics.Addr)
}

// =============================================================================
// GET HELPER (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g., "ui.replay").
func (c *Config) Get(key string) (interface{}, error) {
	if strings.TrimSpace(key) == "" {
		return nil, errors.New("empty key")
	}
	parts := strings.Split(key, ".")

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		field, ok := fieldByTag(v, part)
		if !ok {
			return nil, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}

		if i == len(parts)-1 {
			if d, ok := field.Interface().(Duration); ok {
				return d.Duration, nil
			}
			return field.Interface(), nil
		}

		if field.Kind() != reflect.Struct {
			return nil, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
		v = field
	}
	return nil, fmt.Errorf("invalid key: %s", key)
}

// fieldByTag finds a struct field by its toml tag name.
func fieldByTag(v reflect.Value, name string) (reflect.Value, bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		tag := strings.Split(t.Field(i).Tag.Get("toml"), ",")[0]
		if strings.EqualFold(tag, name) {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

// String returns a JSON representation of the config for debugging.
func (c *Config) String() string {
	data, _ := json.MarshalIndent(c, "", "  ")
	return string(data)
}

// =============================================================================
// SINGLETON PATTERN (THREAD-SAFE)
// =============================================================================

var (
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigMu   sync.RWMutex
)

// Global returns the global configuration instance.
// Loads configuration on first access. Thread-safe.
func Global() *Config {
	globalConfigOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
			cfg = Default()
			_ = cfg.SetDefaults()
		}
		globalConfigMu.Lock()
		globalConfig = cfg
		globalConfigMu.Unlock()
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// SetGlobal sets the global configuration instance. Thread-safe.
func SetGlobal(cfg *Config) {
	globalConfigOnce.Do(func() {})
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting resets the global config state for testing.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigOnce = sync.Once{}
}
