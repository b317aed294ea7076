// Package cli wires the sweven-mcp command tree.
package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	swevenmcp "github.com/josedlucas/sweven-mcp-server"
	"github.com/josedlucas/sweven-mcp-server/internal/config"
)

// App holds the shared state CLI commands build servers from.
type App struct {
	ConfigPath string
}

// NewRootCmd creates the top-level "sweven-mcp" command and registers
// all subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "sweven-mcp",
		Short: "MCP server for the Sweven BPM platform",
	}

	root.PersistentFlags().StringVar(&app.ConfigPath, "config", "", "path to the configuration file")

	root.AddCommand(
		newServeCmd(app),
		newSSECmd(app),
		newReportCmd(app),
		newVerifyCmd(app),
		newHistoryCmd(app),
	)

	return root
}

// newServer builds a fully wired server from the App's config path.
func (a *App) newServer(envCredentials bool) (*swevenmcp.Server, *slog.Logger, error) {
	var cfg *config.Config
	var err error
	if a.ConfigPath != "" {
		cfg, err = config.LoadConfigWithPath(a.ConfigPath)
	} else {
		cfg, err = config.LoadConfig()
	}
	if err != nil {
		return nil, nil, err
	}

	logger := config.NewLogger(cfg)
	slog.SetDefault(logger)

	srv, err := swevenmcp.NewServer(swevenmcp.ServerOptions{
		Config:         cfg,
		Logger:         logger,
		EnvCredentials: envCredentials,
	})
	if err != nil {
		return nil, nil, err
	}
	return srv, logger, nil
}
