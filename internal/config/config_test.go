package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Schema != CurrentConfigSchema {
		t.Errorf("Schema = %d, want %d", cfg.Schema, CurrentConfigSchema)
	}
	if cfg.ServerURL != DefaultServerURL {
		t.Errorf("ServerURL = %q, want %q", cfg.ServerURL, DefaultServerURL)
	}
	if cfg.TimeoutSeconds != 30 {
		t.Errorf("TimeoutSeconds = %d, want 30", cfg.TimeoutSeconds)
	}
	if cfg.PageSize != 20 {
		t.Errorf("PageSize = %d, want 20", cfg.PageSize)
	}
	if cfg.DataDir == "" {
		t.Error("DataDir should not be empty")
	}
}

func TestConfigTimeout(t *testing.T) {
	cfg := &Config{TimeoutSeconds: 5}
	if cfg.Timeout() != 5*time.Second {
		t.Errorf("Timeout() = %v, want %v", cfg.Timeout(), 5*time.Second)
	}
}

func TestConfigHistoryPath(t *testing.T) {
	cfg := &Config{DataDir: "/home/user/.local/share/ipcq"}
	expected := "/home/user/.local/share/ipcq/history.db"
	if cfg.HistoryPath() != expected {
		t.Errorf("HistoryPath() = %q, want %q", cfg.HistoryPath(), expected)
	}
}

func TestConfigPageCacheDir(t *testing.T) {
	cfg := &Config{DataDir: "/home/user/.local/share/ipcq"}
	expected := "/home/user/.local/share/ipcq/pages"
	if cfg.PageCacheDir() != expected {
		t.Errorf("PageCacheDir() = %q, want %q", cfg.PageCacheDir(), expected)
	}
}

func TestDefaultDataDirWithXDG(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg-data")
	expected := filepath.Join("/tmp/xdg-data", "ipcq")
	if defaultDataDir() != expected {
		t.Errorf("defaultDataDir() = %q, want %q", defaultDataDir(), expected)
	}
}

func TestDefaultDataDirWithoutXDG(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "")
	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, ".local", "share", "ipcq")
	if defaultDataDir() != expected {
		t.Errorf("defaultDataDir() = %q, want %q", defaultDataDir(), expected)
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()

	if cfg.ServerURL != DefaultServerURL {
		t.Errorf("ServerURL = %q, want %q", cfg.ServerURL, DefaultServerURL)
	}
	if cfg.TimeoutSeconds != 30 {
		t.Errorf("TimeoutSeconds = %d, want 30", cfg.TimeoutSeconds)
	}
	if cfg.PageSize != 20 {
		t.Errorf("PageSize = %d, want 20", cfg.PageSize)
	}
	if cfg.DataDir == "" {
		t.Error("DataDir should not be empty")
	}
}

func TestApplyDefaultsKeepsExplicitValues(t *testing.T) {
	cfg := &Config{
		ServerURL:      "http://example.com:9000",
		TimeoutSeconds: 60,
		PageSize:       50,
		DataDir:        "/data/ipcq",
	}
	cfg.applyDefaults()

	if cfg.ServerURL != "http://example.com:9000" {
		t.Errorf("ServerURL = %q, want explicit value", cfg.ServerURL)
	}
	if cfg.TimeoutSeconds != 60 {
		t.Errorf("TimeoutSeconds = %d, want 60", cfg.TimeoutSeconds)
	}
	if cfg.PageSize != 50 {
		t.Errorf("PageSize = %d, want 50", cfg.PageSize)
	}
	if cfg.DataDir != "/data/ipcq" {
		t.Errorf("DataDir = %q, want /data/ipcq", cfg.DataDir)
	}
}

func TestApplyDefaultsExpandsTilde(t *testing.T) {
	home, _ := os.UserHomeDir()

	cfg := &Config{DataDir: "~/ipcq-data"}
	cfg.applyDefaults()

	expected := filepath.Join(home, "ipcq-data")
	if cfg.DataDir != expected {
		t.Errorf("DataDir = %q, want %q", cfg.DataDir, expected)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	configJSON := `{
		"schema": 1,
		"server_url": "http://catalog.example.com:8791",
		"api_key": "secret-key",
		"page_size": 40
	}`
	os.WriteFile(configPath, []byte(configJSON), 0644)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.ServerURL != "http://catalog.example.com:8791" {
		t.Errorf("ServerURL = %q, want %q", cfg.ServerURL, "http://catalog.example.com:8791")
	}
	if cfg.APIKey != "secret-key" {
		t.Errorf("APIKey = %q, want %q", cfg.APIKey, "secret-key")
	}
	if cfg.PageSize != 40 {
		t.Errorf("PageSize = %d, want 40", cfg.PageSize)
	}
	if cfg.TimeoutSeconds != 30 {
		t.Errorf("TimeoutSeconds = %d, want defaulted 30", cfg.TimeoutSeconds)
	}
}

func TestLoadConfigNotFound(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load("/nonexistent/config.json")
	if err != nil {
		t.Fatalf("Load should not error for missing file: %v", err)
	}

	if cfg.ServerURL != DefaultServerURL {
		t.Errorf("ServerURL = %q, want %q", cfg.ServerURL, DefaultServerURL)
	}
}

func TestLoadConfigInvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")
	os.WriteFile(configPath, []byte("not json"), 0644)

	_, err := Load(configPath)
	if err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestGetConfigPaths(t *testing.T) {
	paths := getConfigPaths("/explicit/config.json")

	if len(paths) < 2 {
		t.Fatalf("expected at least 2 paths, got %d", len(paths))
	}

	if paths[0] != "/explicit/config.json" {
		t.Errorf("paths[0] = %q, want explicit path", paths[0])
	}
}

func TestGetConfigPathsNoExplicit(t *testing.T) {
	paths := getConfigPaths("")

	for _, p := range paths {
		if p == "" {
			continue
		}
		if !filepath.IsAbs(p) {
			t.Errorf("path %q should be absolute", p)
		}
	}
}
