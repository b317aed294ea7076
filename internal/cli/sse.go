package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// newSSECmd runs the server on the HTTP streaming transport. Unlike
// stdio mode it seeds credentials from the environment so headless
// deployments can authenticate without a set_credentials call.
func newSSECmd(app *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "sse",
		Short: "Run the MCP server over HTTP with server-sent events",
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, _, err := app.newServer(true)
			if err != nil {
				return err
			}
			defer srv.Stop()

			listenAddr := addr
			if listenAddr == "" {
				if port := os.Getenv("PORT"); port != "" {
					listenAddr = ":" + port
				}
			}
			return srv.StartSSE(listenAddr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (defaults to PORT env or the configured address)")
	return cmd
}
