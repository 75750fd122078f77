// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for docchat.
//
// Configuration is read from ~/.docchat/config.toml with built-in defaults
// and environment variable overrides:
//
//	DOCCHAT_API_URL    backend base URL
//	DOCCHAT_DROP_DIR   drop directory watched for uploads
//	DOCCHAT_THEME      UI theme ("dark" or "light")
//	DOCCHAT_LOG_LEVEL  log level ("debug", "info", "warn", "error")
package config

import (
	"bytes"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/docchat-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete docchat configuration.
type Config struct {
	Version string `toml:"version"`

	// Backend API configuration
	API APIConfig `toml:"api"`

	// Upload configuration
	Upload UploadConfig `toml:"upload"`

	// UI configuration
	UI UIConfig `toml:"ui"`

	// Log configuration
	Log LogConfig `toml:"log"`
}

// APIConfig contains backend connection settings.
type APIConfig struct {
	// BaseURL is the backend API base URL
	BaseURL string `toml:"base_url"`
	// TimeoutSecs is the timeout for non-streaming requests
	TimeoutSecs int `toml:"timeout_secs"`
}

// UploadConfig contains upload settings.
type UploadConfig struct {
	// DropDir is watched for new documents; files dropped there are
	// uploaded automatically. Empty disables the watcher.
	DropDir string `toml:"drop_dir"`
	// HistoryLimit caps how many persisted outcomes are loaded at startup
	HistoryLimit int `toml:"history_limit"`
}

// UIConfig contains UI settings.
type UIConfig struct {
	// Theme selects the color theme: "dark" or "light"
	Theme string `toml:"theme"`
	// ShowCitations toggles the sources line under each answer
	ShowCitations bool `toml:"show_citations"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is the minimum level: "debug", "info", "warn", "error"
	Level string `toml:"level"`
	// Path is the log file location (empty = ~/.docchat/docchat.log)
	Path string `toml:"path"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Version: "1.0",
		API: APIConfig{
			BaseURL:     "http://localhost:8000",
			TimeoutSecs: 30,
		},
		Upload: UploadConfig{
			HistoryLimit: 50,
		},
		UI: UIConfig{
			Theme:         "dark",
			ShowCitations: true,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// fillDefaults replaces zero values with defaults.
func (c *Config) fillDefaults() {
	def := Default()
	if c.Version == "" {
		c.Version = def.Version
	}
	if c.API.BaseURL == "" {
		c.API.BaseURL = def.API.BaseURL
	}
	if c.API.TimeoutSecs <= 0 {
		c.API.TimeoutSecs = def.API.TimeoutSecs
	}
	if c.Upload.HistoryLimit <= 0 {
		c.Upload.HistoryLimit = def.Upload.HistoryLimit
	}
	if c.UI.Theme == "" {
		c.UI.Theme = def.UI.Theme
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
	if c.Log.Path == "" {
		if dir, err := Dir(); err == nil {
			c.Log.Path = filepath.Join(dir, "docchat.log")
		}
	}
}

// =============================================================================
// PATHS
// =============================================================================

// Dir returns the docchat configuration directory (~/.docchat).
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".docchat"), nil
}

// Path returns the configuration file path.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads the configuration file, fills defaults, applies environment
// overrides, and validates the result. A missing file yields the defaults.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom is Load with an explicit file path.
func LoadFrom(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// No file: start from defaults.
	default:
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	cfg.fillDefaults()
	cfg.ApplyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnvOverrides applies DOCCHAT_* environment variables on top of the
// loaded values.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("DOCCHAT_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("DOCCHAT_DROP_DIR"); v != "" {
		c.Upload.DropDir = v
	}
	if v := os.Getenv("DOCCHAT_THEME"); v != "" {
		c.UI.Theme = v
	}
	if v := os.Getenv("DOCCHAT_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api.base_url: %q is not a valid URL", c.API.BaseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api.base_url: unsupported scheme %q", u.Scheme)
	}

	if c.API.TimeoutSecs <= 0 {
		return fmt.Errorf("api.timeout_secs: must be positive, got %d", c.API.TimeoutSecs)
	}

	switch c.UI.Theme {
	case "dark", "light":
	default:
		return fmt.Errorf("ui.theme: %q is not a known theme", c.UI.Theme)
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level: %q is not a known level", c.Log.Level)
	}

	return nil
}

// =============================================================================
// SAVING
// =============================================================================

// Save writes the configuration to the default path atomically.
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the configuration to an explicit path atomically.
func (c *Config) SaveTo(path string) error {
	var buf bytes.Buffer
	buf.WriteString("# docchat configuration\n\n")
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return util.AtomicWriteFile(path, buf.Bytes(), 0o600)
}
