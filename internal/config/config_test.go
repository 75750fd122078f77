// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"
)

// =============================================================================
// DEFAULTS TESTS
// =============================================================================

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.API.BaseURL != "http://localhost:8000" {
		t.Errorf("API.BaseURL = %q, want http://localhost:8000", cfg.API.BaseURL)
	}
	if cfg.API.TimeoutSecs != 30 {
		t.Errorf("API.TimeoutSecs = %d, want 30", cfg.API.TimeoutSecs)
	}
	if cfg.UI.Theme != "dark" {
		t.Errorf("UI.Theme = %q, want dark", cfg.UI.Theme)
	}
	if !cfg.UI.ShowCitations {
		t.Error("UI.ShowCitations should default to true")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default() should validate, got %v", err)
	}
}

// =============================================================================
// LOADING TESTS
// =============================================================================

func TestLoadFrom_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.API.BaseURL != Default().API.BaseURL {
		t.Errorf("BaseURL = %q, want default", cfg.API.BaseURL)
	}
}

func TestLoadFrom_DefaultLogPathUnderConfigDir(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.Log.Path == "" {
		t.Fatal("Log.Path should default to a file under the config dir")
	}
	if filepath.Base(cfg.Log.Path) != "docchat.log" {
		t.Errorf("Log.Path = %q, want a docchat.log default", cfg.Log.Path)
	}
	dir, err := Dir()
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Dir(cfg.Log.Path) != dir {
		t.Errorf("Log.Path = %q, want it under %q", cfg.Log.Path, dir)
	}
}

func TestLoadFrom_FileValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
version = "1.0"

[api]
base_url = "http://example.com:9000"
timeout_secs = 5

[upload]
drop_dir = "/tmp/drop"

[ui]
theme = "light"
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.API.BaseURL != "http://example.com:9000" {
		t.Errorf("BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.API.TimeoutSecs != 5 {
		t.Errorf("TimeoutSecs = %d, want 5", cfg.API.TimeoutSecs)
	}
	if cfg.Upload.DropDir != "/tmp/drop" {
		t.Errorf("DropDir = %q", cfg.Upload.DropDir)
	}
	if cfg.UI.Theme != "light" {
		t.Errorf("Theme = %q, want light", cfg.UI.Theme)
	}
	// Unset values still get defaults.
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want info", cfg.Log.Level)
	}
}

func TestLoadFrom_EnvOverridesWinOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[api]\nbase_url = \"http://from-file:1\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("DOCCHAT_API_URL", "http://from-env:2")
	t.Setenv("DOCCHAT_THEME", "light")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.API.BaseURL != "http://from-env:2" {
		t.Errorf("BaseURL = %q, want env value", cfg.API.BaseURL)
	}
	if cfg.UI.Theme != "light" {
		t.Errorf("Theme = %q, want env value", cfg.UI.Theme)
	}
}

func TestLoadFrom_MalformedTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("this is not toml ==="), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFrom(path); err == nil {
		t.Error("LoadFrom() should fail for malformed TOML")
	}
}

// =============================================================================
// VALIDATION TESTS
// =============================================================================

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults valid", func(c *Config) {}, false},
		{"https url", func(c *Config) { c.API.BaseURL = "https://docs.internal" }, false},
		{"light theme", func(c *Config) { c.UI.Theme = "light" }, false},
		{"bad url", func(c *Config) { c.API.BaseURL = "not a url" }, true},
		{"file scheme", func(c *Config) { c.API.BaseURL = "file:///etc/passwd" }, true},
		{"zero timeout", func(c *Config) { c.API.TimeoutSecs = 0 }, true},
		{"unknown theme", func(c *Config) { c.UI.Theme = "solarized" }, true},
		{"unknown level", func(c *Config) { c.Log.Level = "loud" }, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

// =============================================================================
// SAVE/LOAD ROUND TRIP
// =============================================================================

func TestSaveTo_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := Default()
	cfg.API.BaseURL = "http://localhost:9999"
	cfg.Upload.DropDir = "/data/inbox"

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo() error = %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if loaded.API.BaseURL != "http://localhost:9999" {
		t.Errorf("BaseURL = %q after round trip", loaded.API.BaseURL)
	}
	if loaded.Upload.DropDir != "/data/inbox" {
		t.Errorf("DropDir = %q after round trip", loaded.Upload.DropDir)
	}
}
