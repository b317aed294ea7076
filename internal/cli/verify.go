package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/josedlucas/sweven-mcp-server/internal/sweven"
)

// newVerifyCmd exercises the remote API end to end: login, team
// members, and a small trackings and notes probe for the first member.
func newVerifyCmd(app *App) *cobra.Command {
	var (
		email    string
		password string
	)

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify connectivity and credentials against the Sweven API",
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, _, err := app.newServer(false)
			if err != nil {
				return err
			}
			defer srv.Stop()

			out := cmd.OutOrStdout()
			ctx := context.Background()

			fmt.Fprintln(out, "Testing login...")
			token, err := srv.AuthSession().Login(ctx, email, password)
			if err != nil {
				return err
			}
			preview := token
			if len(preview) > 20 {
				preview = preview[:20] + "..."
			}
			fmt.Fprintln(out, "Login successful. Token:", preview)

			client := srv.Client()

			fmt.Fprintln(out, "Testing get team members...")
			raw, err := client.TeamMembers(ctx, token)
			if err != nil {
				return err
			}
			var members []struct {
				ID sweven.FlexID `json:"id"`
			}
			if err := json.Unmarshal(raw, &members); err != nil {
				return fmt.Errorf("unexpected team members payload: %w", err)
			}
			fmt.Fprintln(out, "Team members found:", len(members))

			if len(members) > 0 {
				memberID := string(members[0].ID)
				now := time.Now().UTC()
				start := now.AddDate(0, 0, -30).Format("2006-01-02")
				end := now.Format("2006-01-02")

				fmt.Fprintf(out, "Testing trackings for member %s (%s to %s)...\n", memberID, start, end)
				page, err := client.Trackings(ctx, token, sweven.TrackingsQuery{
					TeamMemberID: memberID,
					StartDate:    start,
					EndDate:      end,
					Limit:        10,
				})
				if err != nil {
					return err
				}
				fmt.Fprintln(out, "Trackings found:", len(page.Data))

				fmt.Fprintln(out, "Testing notes...")
				notes, err := client.Notes(ctx, token, sweven.NotesQuery{
					CreatedBy: memberID,
					Limit:     5,
				})
				if err != nil {
					return err
				}
				fmt.Fprintln(out, "Notes found:", len(notes.Notes))
			}

			fmt.Fprintln(out, "Verification complete.")
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email (required)")
	cmd.Flags().StringVar(&password, "password", "", "account password (required)")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")
	return cmd
}
