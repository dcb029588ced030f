// Package config tests configuration loading.
package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)

	if cfg.StoreFile != DefaultStoreFile {
		t.Errorf("StoreFile: got %q, want %q", cfg.StoreFile, DefaultStoreFile)
	}
	if cfg.LogLevel != DefaultLogLevel {
		t.Errorf("LogLevel: got %q, want %q", cfg.LogLevel, DefaultLogLevel)
	}
	if cfg.LogFormat != DefaultLogFormat {
		t.Errorf("LogFormat: got %q, want %q", cfg.LogFormat, DefaultLogFormat)
	}
}

func TestLoadConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "todos.toml")

	content := []byte(`store_file = "custom.json"
log_level = "debug"
log_timestamps = true
`)
	if err := os.WriteFile(configFile, content, 0644); err != nil {
		t.Fatal(err)
	}

	cfg := &Config{}
	setDefaults(cfg)
	if err := loadConfigFile(cfg, configFile); err != nil {
		t.Fatalf("loadConfigFile: %v", err)
	}

	if cfg.StoreFile != "custom.json" {
		t.Errorf("StoreFile: got %q, want custom.json", cfg.StoreFile)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel: got %q, want debug", cfg.LogLevel)
	}
	if !cfg.LogTimestamps {
		t.Error("LogTimestamps: got false, want true")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("TODOS_FILE", "env.json")
	t.Setenv("TODOS_LOG_LEVEL", "error")
	t.Setenv("TODOS_LOG_FORMAT", "json")
	t.Setenv("TODOS_LOG_TIMESTAMPS", "true")

	cfg := &Config{}
	setDefaults(cfg)
	loadFromEnv(cfg)

	if cfg.StoreFile != "env.json" {
		t.Errorf("StoreFile: got %q, want env.json", cfg.StoreFile)
	}
	if cfg.LogLevel != "error" {
		t.Errorf("LogLevel: got %q, want error", cfg.LogLevel)
	}
	if cfg.LogFormat != "json" {
		t.Errorf("LogFormat: got %q, want json", cfg.LogFormat)
	}
	if !cfg.LogTimestamps {
		t.Error("LogTimestamps: got false, want true")
	}
}

func TestParseFlagsOverrideEnv(t *testing.T) {
	t.Setenv("TODOS_FILE", "env.json")

	cfg := &Config{}
	setDefaults(cfg)
	loadFromEnv(cfg)

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	if err := parseFlags(cfg, fs, []string{"-file", "flag.json", "-log-level", "debug"}); err != nil {
		t.Fatalf("parseFlags: %v", err)
	}

	if cfg.StoreFile != "flag.json" {
		t.Errorf("StoreFile: got %q, want flag.json", cfg.StoreFile)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel: got %q, want debug", cfg.LogLevel)
	}
}

func TestFinalizeConfigResolvesPaths(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)
	cfg.ProjectRoot = "/tmp/project"

	if err := finalizeConfig(cfg); err != nil {
		t.Fatalf("finalizeConfig: %v", err)
	}

	want := filepath.Join("/tmp/project", DefaultStoreFile)
	if cfg.StoreFile != want {
		t.Errorf("StoreFile: got %q, want %q", cfg.StoreFile, want)
	}
	if cfg.SchemaFile != "" {
		t.Errorf("SchemaFile should stay empty, got %q", cfg.SchemaFile)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot get home directory")
	}

	tests := []struct {
		input string
		want  string
	}{
		{"~/test", filepath.Join(home, "test")},
		{"~", home},
		{"/absolute/path", "/absolute/path"},
		{"relative", "relative"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := expandPath(tt.input)
			if got != tt.want {
				t.Errorf("expandPath(%q): got %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestBoolFromString(t *testing.T) {
	truthy := []string{"1", "true", "TRUE", "yes", "on", " true "}
	for _, s := range truthy {
		if !boolFromString(s) {
			t.Errorf("boolFromString(%q): got false, want true", s)
		}
	}
	falsy := []string{"", "0", "false", "no", "off", "nope"}
	for _, s := range falsy {
		if boolFromString(s) {
			t.Errorf("boolFromString(%q): got true, want false", s)
		}
	}
}
