package cli

import (
	"github.com/spf13/cobra"
)

// newServeCmd runs the server on the stdio transport. This is the mode
// MCP clients like Claude Desktop launch.
func newServeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server on stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, _, err := app.newServer(false)
			if err != nil {
				return err
			}
			defer srv.Stop()

			return srv.Start()
		},
	}
}
