package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// newHistoryCmd lists recently generated tracking summaries from the
// local history database.
func newHistoryCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recently generated tracking summaries",
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, _, err := app.newServer(false)
			if err != nil {
				return err
			}
			defer srv.Stop()

			entries, err := srv.History().Recent(limit)
			if err != nil {
				return err
			}

			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No summary history recorded yet.")
				return nil
			}

			out, err := json.MarshalIndent(entries, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of entries to list")
	return cmd
}
