// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for msgcmd.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/msgcmd/internal/util"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// CurrentVersion is written to new config files.
	CurrentVersion = "1"

	// OutputText prints results as styled text.
	OutputText = "text"
	// OutputJSON prints results as indented JSON.
	OutputJSON = "json"

	// MinDebounceMs is the lowest reload debounce accepted.
	MinDebounceMs = 10
)

// =============================================================================
// CONFIG STRUCTS
// =============================================================================

// Config is the top-level msgcmd configuration.
type Config struct {
	Version string `toml:"version" json:"version"`

	Definitions DefinitionsConfig `toml:"definitions" json:"definitions"`
	History     HistoryConfig     `toml:"history" json:"history"`
	Output      OutputConfig      `toml:"output" json:"output"`
	Logging     LoggingConfig     `toml:"logging" json:"logging"`
}

// DefinitionsConfig locates the command definitions file.
type DefinitionsConfig struct {
	// Path to a .toml, .yaml/.yml or .json/.jsonc definitions file.
	// Empty means the built-in demo definitions.
	Path string `toml:"path" json:"path"`

	// Watch reloads the definitions when the file changes.
	Watch bool `toml:"watch" json:"watch"`

	DebounceMs int `toml:"debounce_ms" json:"debounce_ms"`

	// NormalizeUnicode applies NFC before tokenizing messages.
	NormalizeUnicode bool `toml:"normalize_unicode" json:"normalize_unicode"`
}

// HistoryConfig controls the interactive prompt history.
type HistoryConfig struct {
	Enabled    bool   `toml:"enabled" json:"enabled"`
	File       string `toml:"file" json:"file"`
	MaxEntries int    `toml:"max_entries" json:"max_entries"`
}

// OutputConfig controls how results are printed.
type OutputConfig struct {
	Format  string `toml:"format" json:"format"`
	NoColor bool   `toml:"no_color" json:"no_color"`
	Prompt  string `toml:"prompt" json:"prompt"`

	// Style is the chroma style used to highlight JSON output.
	Style string `toml:"style" json:"style"`

	WordWrap int `toml:"word_wrap" json:"word_wrap"`
}

// LoggingConfig controls diagnostic logging to stderr.
type LoggingConfig struct {
	Level string `toml:"level" json:"level"`
}

// SlogLevel returns the configured level, or slog.LevelWarn when the level
// does not parse.
func (l LoggingConfig) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelWarn
	}
	return level
}

// =============================================================================
// DEFAULT CONFIG
// =============================================================================

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Version: CurrentVersion,
		Definitions: DefinitionsConfig{
			DebounceMs: 200,
		},
		History: HistoryConfig{
			Enabled:    true,
			MaxEntries: 1000,
		},
		Output: OutputConfig{
			Format:   OutputText,
			Prompt:   "msgcmd> ",
			Style:    "monokai",
			WordWrap: 80,
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the msgcmd configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".msgcmd"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// HistoryPath returns the history file location, falling back to
// ~/.msgcmd/history when none is configured.
func (c *Config) HistoryPath() (string, error) {
	if c.History.File != "" {
		return util.ExpandHome(c.History.File), nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "history"), nil
}

// DefinitionsPath returns the configured definitions path with "~" expanded.
func (c *Config) DefinitionsPath() string {
	return util.ExpandHome(c.Definitions.Path)
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from ~/.msgcmd/config.toml, then
// ~/.msgcmd/config.json, and falls back to defaults. Environment overrides
// are applied last. When a file exists but cannot be decoded the defaults
// are returned together with the error.
func Load() (*Config, error) {
	var loadErr error

	for _, pathFn := range []func() (string, error){ConfigPathTOML, ConfigPathJSON} {
		path, err := pathFn()
		if err != nil || !util.FileExists(path) {
			continue
		}
		cfg, err := LoadFromPath(path)
		if err == nil {
			return cfg, nil
		}
		if loadErr == nil {
			loadErr = err
		}
	}

	cfg := Default()
	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, loadErr
}

// LoadTOML decodes a TOML file over cfg.
func LoadTOML(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// LoadJSON decodes a JSON file over cfg.
func LoadJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return nil
}

// LoadFromPath loads configuration from a specific file with full
// validation. Files ending in .json are read as JSON, everything else as
// TOML. Keys missing from the file keep their default values.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if strings.HasSuffix(strings.ToLower(path), ".json") {
		if err := LoadJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
	} else {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	}

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML writes the configuration to path as TOML with mode 0600.
func SaveTOML(cfg *Config, path string) error {
	var buf bytes.Buffer
	buf.WriteString("# msgcmd configuration file\n")
	buf.WriteString("# Generated by msgcmd - edit with care\n\n")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFileWithDir(path, buf.Bytes(), 0600, 0755); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// SaveJSON writes the configuration to path as indented JSON with mode 0600.
func SaveJSON(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFileWithDir(path, data, 0600, 0755); err != nil {
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
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns ValidateErrors when any
// field is out of range.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if c.Definitions.Path != "" {
		switch strings.ToLower(filepath.Ext(c.Definitions.Path)) {
		case ".toml", ".json", ".jsonc", ".yaml", ".yml":
		default:
			errs = append(errs, ValidationError{
				Field:   "definitions.path",
				Message: fmt.Sprintf("unsupported extension '%s', must be one of: .toml, .json, .jsonc, .yaml, .yml", filepath.Ext(c.Definitions.Path)),
			})
		}
	}
	if c.Definitions.DebounceMs < MinDebounceMs {
		errs = append(errs, ValidationError{
			Field:   "definitions.debounce_ms",
			Message: fmt.Sprintf("must be at least %d", MinDebounceMs),
		})
	}

	if c.History.MaxEntries < 0 {
		errs = append(errs, ValidationError{
			Field:   "history.max_entries",
			Message: "cannot be negative",
		})
	}

	switch strings.ToLower(c.Output.Format) {
	case OutputText, OutputJSON:
	default:
		errs = append(errs, ValidationError{
			Field:   "output.format",
			Message: fmt.Sprintf("invalid format '%s', must be one of: text, json", c.Output.Format),
		})
	}
	if c.Output.WordWrap < 0 {
		errs = append(errs, ValidationError{
			Field:   "output.word_wrap",
			Message: "cannot be negative",
		})
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Logging.Level)); err != nil {
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Message: fmt.Sprintf("invalid level '%s', must be one of: debug, info, warn, error", c.Logging.Level),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SetDefaults fills empty fields with defaults.
func (c *Config) SetDefaults() {
	defaults := Default()

	if c.Version == "" {
		c.Version = defaults.Version
	}
	if c.Definitions.DebounceMs == 0 {
		c.Definitions.DebounceMs = defaults.Definitions.DebounceMs
	}
	if c.Output.Format == "" {
		c.Output.Format = defaults.Output.Format
	}
	c.Output.Format = strings.ToLower(c.Output.Format)
	if c.Output.Prompt == "" {
		c.Output.Prompt = defaults.Output.Prompt
	}
	if c.Output.Style == "" {
		c.Output.Style = defaults.Output.Style
	}
	if c.Logging.Level == "" {
		c.Logging.Level = defaults.Logging.Level
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides.
//   - MSGCMD_DEFINITIONS: overrides definitions.path
//   - MSGCMD_LOG_LEVEL: overrides logging.level
//   - MSGCMD_DEBUG: sets logging.level to debug when true
//   - MSGCMD_NO_COLOR: overrides output.no_color
//   - MSGCMD_PROMPT: overrides output.prompt
func (c *Config) ApplyEnvOverrides() {
	if path := os.Getenv("MSGCMD_DEFINITIONS"); path != "" {
		c.Definitions.Path = path
	}

	if level := os.Getenv("MSGCMD_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if envBool("MSGCMD_DEBUG") {
		c.Logging.Level = "debug"
	}

	if _, ok := os.LookupEnv("MSGCMD_NO_COLOR"); ok {
		c.Output.NoColor = envBool("MSGCMD_NO_COLOR")
	}

	if prompt := os.Getenv("MSGCMD_PROMPT"); prompt != "" {
		c.Output.Prompt = prompt
	}
}

func envBool(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && v
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
		}
		if cfg == nil {
			cfg = Default()
		}
		globalConfigMu.Lock()
		globalConfig = cfg
		globalConfigMu.Unlock()
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// ReloadGlobal reloads the global configuration from disk. Thread-safe.
func ReloadGlobal() error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	SetGlobal(cfg)
	return nil
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
