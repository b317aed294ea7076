package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig()

	if cfg.API.AdminBaseURL != DefaultAdminBaseURL {
		t.Errorf("unexpected admin base %q", cfg.API.AdminBaseURL)
	}
	if cfg.API.DataBaseURL != DefaultDataBaseURL {
		t.Errorf("unexpected data base %q", cfg.API.DataBaseURL)
	}
	if cfg.Credentials.Path != DefaultCredentialsPath {
		t.Errorf("unexpected credentials path %q", cfg.Credentials.Path)
	}
	if cfg.HTTP.Addr != DefaultHTTPAddr {
		t.Errorf("unexpected addr %q", cfg.HTTP.Addr)
	}
	if cfg.HTTP.MessagePath != DefaultMessagePath {
		t.Errorf("unexpected message path %q", cfg.HTTP.MessagePath)
	}
	if cfg.Logging.Level != DefaultLogLevel {
		t.Errorf("unexpected log level %q", cfg.Logging.Level)
	}
}

func TestLoadConfigWithPathMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.json")

	cfg, err := LoadConfigWithPath(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.API.AdminBaseURL != DefaultAdminBaseURL {
		t.Errorf("expected defaults when file is missing, got %q", cfg.API.AdminBaseURL)
	}
	if cfg.GetConfigPath() != path {
		t.Errorf("expected config path retained, got %q", cfg.GetConfigPath())
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{
  "api": {
    "admin_base_url": "https://admin.test/v1",
    "data_base_url": "https://data.test/v4"
  },
  "credentials": {
    "path": "/tmp/creds.json"
  },
  "logging": {
    "level": "debug"
  }
}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfigWithPath(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.API.AdminBaseURL != "https://admin.test/v1" {
		t.Errorf("unexpected admin base %q", cfg.API.AdminBaseURL)
	}
	if cfg.Credentials.Path != "/tmp/creds.json" {
		t.Errorf("unexpected credentials path %q", cfg.Credentials.Path)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("unexpected log level %q", cfg.Logging.Level)
	}
	// Untouched sections keep their defaults.
	if cfg.HTTP.Addr != DefaultHTTPAddr {
		t.Errorf("expected default addr, got %q", cfg.HTTP.Addr)
	}
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg := NewConfig()
	cfg.API.AdminBaseURL = "https://saved.test/v1"
	if err := cfg.SaveToFile(path); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	reloaded, err := LoadConfigWithPath(path)
	if err != nil {
		t.Fatalf("failed to reload: %v", err)
	}
	if reloaded.API.AdminBaseURL != "https://saved.test/v1" {
		t.Errorf("expected saved value, got %q", reloaded.API.AdminBaseURL)
	}
}

func TestNewLoggerLevels(t *testing.T) {
	cfg := NewConfig()
	cfg.Logging.Level = "debug"
	if logger := NewLogger(cfg); logger == nil {
		t.Fatal("expected a logger")
	}

	cfg.Logging.Format = "json"
	if logger := NewLogger(cfg); logger == nil {
		t.Fatal("expected a json logger")
	}
}
