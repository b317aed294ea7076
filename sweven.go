// Package swevenmcp assembles the Sweven MCP server: credential
// storage, authentication, the Sweven API client, the tool gateway,
// and the stdio and SSE transports.
package swevenmcp

import (
	"log/slog"

	"github.com/josedlucas/sweven-mcp-server/internal/auth"
	"github.com/josedlucas/sweven-mcp-server/internal/config"
	"github.com/josedlucas/sweven-mcp-server/internal/credentials"
	"github.com/josedlucas/sweven-mcp-server/internal/errortypes"
	"github.com/josedlucas/sweven-mcp-server/internal/gateway"
	"github.com/josedlucas/sweven-mcp-server/internal/history"
	"github.com/josedlucas/sweven-mcp-server/internal/httpserver"
	"github.com/josedlucas/sweven-mcp-server/internal/session"
	"github.com/josedlucas/sweven-mcp-server/internal/sweven"
	"github.com/josedlucas/sweven-mcp-server/internal/telemetry"
)

// ServerName is the name advertised to MCP clients.
const ServerName = "sweven-mcp-server"

// Version is the server version advertised to MCP clients.
const Version = "1.0.0"

// Config represents the configuration for the Sweven MCP server.
type Config = config.Config

// Server represents the assembled Sweven MCP service.
type Server struct {
	config    *config.Config
	credStore *credentials.Store
	authSess  *auth.Session
	client    *sweven.Client
	historyDB *history.SQLiteStore
	registry  *session.Registry
	gateway   *gateway.ToolGateway
	metrics   *telemetry.MetricsCollector
	logger    *slog.Logger
}

// ServerOptions defines the options for creating a new Server.
type ServerOptions struct {
	Config     *Config      // Pre-filled config. If nil, ConfigPath is used.
	ConfigPath string       // Path to config file. Used if Config is nil. If both are empty, defaults are used.
	Logger     *slog.Logger // External logger. If nil, slog.Default() is used.

	// EnvCredentials seeds the credential store from SWEVEN_EMAIL,
	// SWEVEN_PASSWORD, and SWEVEN_TOKEN. Intended for the SSE mode
	// where no interactive client sets credentials first.
	EnvCredentials bool
}

// NewServer creates a new Sweven MCP Server with the given options.
func NewServer(opts ServerOptions) (*Server, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var cfg *Config
	var err error

	if opts.Config != nil {
		cfg = opts.Config
		logger.Info("Using provided Config object for server initialization")
	} else if opts.ConfigPath != "" {
		logger.Info("Loading configuration for server initialization", "path", opts.ConfigPath)
		cfg, err = config.LoadConfigWithPath(opts.ConfigPath)
		if err != nil {
			logger.Error("Failed to load configuration from path", "path", opts.ConfigPath, "error", err)
			return nil, errortypes.ConfigError(err, "Failed to load configuration from path: "+opts.ConfigPath)
		}
	} else {
		cfg, err = config.LoadConfig()
		if err != nil {
			logger.Error("Failed to load configuration", "error", err)
			return nil, errortypes.ConfigError(err, "Failed to load configuration")
		}
	}

	metrics := telemetry.NewMetricsCollector()

	var storeOpts []credentials.Option
	if opts.EnvCredentials {
		storeOpts = append(storeOpts, credentials.WithEnv())
	}
	credStore := credentials.NewStore(cfg.Credentials.Path, storeOpts...)

	client := sweven.NewClient(cfg.API.AdminBaseURL, cfg.API.DataBaseURL,
		sweven.WithMetrics(metrics))
	authSess := auth.NewSession(credStore, client)

	logger.Info("Initializing summary history store", "path", cfg.History.SQLitePath)
	historyDB := history.NewSQLiteStore()
	if err := historyDB.Initialize(cfg.History.SQLitePath); err != nil {
		logger.Error("Failed to initialize summary history store", "path", cfg.History.SQLitePath, "error", err)
		return nil, errortypes.PersistenceError(err, "Failed to initialize summary history store")
	}

	registry := session.NewRegistry(session.WithMetrics(metrics))

	gw := gateway.NewToolGateway(ServerName, Version, authSess, client,
		gateway.WithHistory(historyDB),
		gateway.WithMetrics(metrics))
	if err := gw.Initialize(); err != nil {
		logger.Error("Failed to initialize tool gateway", "error", err)
		return nil, err
	}

	logger.Info("Sweven MCP server successfully initialized")
	return &Server{
		config:    cfg,
		credStore: credStore,
		authSess:  authSess,
		client:    client,
		historyDB: historyDB,
		registry:  registry,
		gateway:   gw,
		metrics:   metrics,
		logger:    logger,
	}, nil
}

// Start runs the server on the stdio transport until the client
// disconnects.
func (s *Server) Start() error {
	s.logger.Info("Starting Sweven MCP service on stdio")
	return s.gateway.Start()
}

// StartSSE runs the streaming HTTP transport on addr. Empty addr uses
// the configured listen address.
func (s *Server) StartSSE(addr string) error {
	if addr == "" {
		addr = s.config.HTTP.Addr
	}

	srv := httpserver.NewServer(s.gateway, s.config.HTTP.MessagePath,
		httpserver.WithRegistry(s.registry),
		httpserver.WithLogger(s.logger),
		httpserver.WithHealthReporter(s.HealthReport))

	s.logger.Info("Starting Sweven MCP service on SSE", "addr", addr)
	return srv.ListenAndServe(addr)
}

// Stop stops the service and closes the history store.
func (s *Server) Stop() error {
	s.logger.Info("Stopping Sweven MCP service")
	if err := s.gateway.Stop(); err != nil {
		s.logger.Error("Error stopping tool gateway", "error", err)
		return err
	}

	s.logger.Info("Closing summary history store")
	if err := s.historyDB.Close(); err != nil {
		s.logger.Error("Failed to close summary history store", "error", err)
		return err
	}

	s.logger.Info("Sweven MCP service stopped")
	return nil
}

// HealthReport builds the current health snapshot.
func (s *Server) HealthReport() *telemetry.HealthReport {
	return telemetry.CreateHealthReport(s.metrics, s.registry.Len(), s.authSess.Token() != "", Version)
}

// Config returns the active configuration.
func (s *Server) Configuration() *config.Config {
	return s.config
}

// CredentialStore returns the credential store instance.
func (s *Server) CredentialStore() *credentials.Store {
	return s.credStore
}

// AuthSession returns the authentication session instance.
func (s *Server) AuthSession() *auth.Session {
	return s.authSess
}

// Client returns the Sweven API client instance.
func (s *Server) Client() *sweven.Client {
	return s.client
}

// History returns the summary history store instance.
func (s *Server) History() history.Store {
	return s.historyDB
}

// Gateway returns the tool gateway instance.
func (s *Server) Gateway() *gateway.ToolGateway {
	return s.gateway
}

// Metrics returns the metrics collector instance.
func (s *Server) Metrics() *telemetry.MetricsCollector {
	return s.metrics
}
