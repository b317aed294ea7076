// Package config loads the Sweven MCP server configuration from file
// and environment, with sensible production defaults.
package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/localrivet/configurator"
)

// Config represents the Sweven MCP server configuration
type Config struct {
	// API contains the remote Sweven endpoint configuration.
	API struct {
		// AdminBaseURL serves authentication and team administration.
		AdminBaseURL string `json:"admin_base_url" env:"ADMIN_BASE_URL" validate:"required"`

		// DataBaseURL serves trackings, notes, and work orders.
		DataBaseURL string `json:"data_base_url" env:"DATA_BASE_URL" validate:"required"`
	} `json:"api"`

	// Credentials contains credential persistence configuration.
	Credentials struct {
		// Path is where credentials are persisted between runs.
		Path string `json:"path" env:"CREDENTIALS_PATH" validate:"required"`
	} `json:"credentials"`

	// HTTP contains the streaming transport configuration.
	HTTP struct {
		// Addr is the listen address for the SSE transport.
		Addr string `json:"addr" env:"HTTP_ADDR"`

		// MessagePath is where streaming clients POST their messages.
		MessagePath string `json:"message_path" env:"HTTP_MESSAGE_PATH"`
	} `json:"http"`

	// History contains summary history storage configuration.
	History struct {
		// SQLitePath is the path to the SQLite database file.
		SQLitePath string `json:"sqlite_path" env:"SQLITE_PATH"`
	} `json:"history"`

	// Logging contains logging-related configuration.
	Logging struct {
		// Level is the minimum log level to display ("debug", "info", "warn", "error").
		Level string `json:"level" env:"LOG_LEVEL" validate:"required"`

		// Format is the log format to use ("text", "json").
		Format string `json:"format" env:"LOG_FORMAT"`
	} `json:"logging"`

	// Internal state (not saved to config file)
	configPath     string       `json:"-"`
	mutex          sync.RWMutex `json:"-"`
	lastModifiedAt time.Time    `json:"-"`
}

// Default configuration values
const (
	DefaultConfigFilename  = ".swevenmcpconfig"
	DefaultAdminBaseURL    = "https://autodispatch.swevenbpm.com/v1"
	DefaultDataBaseURL     = "https://apis-tgx.swevenbpm.com/v4"
	DefaultCredentialsPath = ".sweven-credentials.json"
	DefaultHTTPAddr        = ":3000"
	DefaultMessagePath     = "/messages"
	DefaultSQLitePath      = ".sweven-history.db"
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "text"
)

// NewConfig creates a new Config instance with default values
func NewConfig() *Config {
	config := &Config{}
	config.API.AdminBaseURL = DefaultAdminBaseURL
	config.API.DataBaseURL = DefaultDataBaseURL
	config.Credentials.Path = DefaultCredentialsPath
	config.HTTP.Addr = DefaultHTTPAddr
	config.HTTP.MessagePath = DefaultMessagePath
	config.History.SQLitePath = DefaultSQLitePath
	config.Logging.Level = DefaultLogLevel
	config.Logging.Format = DefaultLogFormat
	return config
}

// LoadConfig loads the configuration from the default path
func LoadConfig() (*Config, error) {
	return LoadConfigWithPath(DefaultConfigFilename)
}

// LoadConfigWithPath loads the configuration from a specific path.
// Logging goes to stderr because stdout carries the JSON-RPC stream.
func LoadConfigWithPath(configPath string) (*Config, error) {
	stdLogger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg := NewConfig()

	// Try to find config file if path is default
	if configPath == DefaultConfigFilename {
		foundPath, err := configurator.FindConfigFile(configPath)
		if err == nil {
			configPath = foundPath
			stdLogger.Debug("Found config file at " + foundPath)
		}
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		// File doesn't exist, environment still applies over defaults
		stdLogger.Info("Config file not found, using default configuration", "path", configPath)

		config := configurator.New(stdLogger).
			WithProvider(configurator.NewDefaultProvider()).
			WithProvider(configurator.NewEnvProvider("SWEVEN")).
			WithValidator(configurator.NewDefaultValidator())
		if err := config.Load(context.Background(), cfg); err != nil {
			return nil, fmt.Errorf("failed to load configuration: %w", err)
		}

		cfg.configPath = configPath
		cfg.lastModifiedAt = time.Now()
		return cfg, nil
	}

	stdLogger.Info("Loading configuration", "path", configPath)

	config := configurator.New(stdLogger).
		WithProvider(configurator.NewDefaultProvider()).
		WithProvider(configurator.NewFileProvider(configPath)).
		WithProvider(configurator.NewEnvProvider("SWEVEN")).
		WithValidator(configurator.NewDefaultValidator())

	ctx := context.Background()
	if err := config.Load(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	cfg.configPath = configPath
	cfg.lastModifiedAt = time.Now()

	return cfg, nil
}

// SaveToFile saves the configuration to the specified file
func (c *Config) SaveToFile(path string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := configurator.SaveToFile(c, path, configurator.FormatJSON); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	c.configPath = path
	c.lastModifiedAt = time.Now()

	return nil
}

// Save saves the configuration to the last used file path
func (c *Config) Save() error {
	if c.configPath == "" {
		c.configPath = DefaultConfigFilename
	}
	return c.SaveToFile(c.configPath)
}

// GetConfigPath returns the path of the currently loaded configuration file
func (c *Config) GetConfigPath() string {
	return c.configPath
}

// NewLogger builds a slog.Logger from the logging configuration. All
// output goes to stderr so stdout stays clean for the MCP transport.
func NewLogger(cfg *Config) *slog.Logger {
	var level slog.Level
	switch cfg.Logging.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Logging.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}
