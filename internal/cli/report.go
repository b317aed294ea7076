package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/josedlucas/sweven-mcp-server/internal/aggregate"
	"github.com/josedlucas/sweven-mcp-server/internal/sweven"
	"github.com/josedlucas/sweven-mcp-server/internal/tools"
)

// reportTrackingsLimit pulls a full month of entries in one page.
const reportTrackingsLimit = 1000

// newReportCmd prints an activity report for one team member over a
// date range, with durations as decimal hours.
func newReportCmd(app *App) *cobra.Command {
	var (
		memberID  string
		days      int
		startDate string
		endDate   string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print an activity report for a team member",
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, _, err := app.newServer(true)
			if err != nil {
				return err
			}
			defer srv.Stop()

			start, end := startDate, endDate
			if start == "" || end == "" {
				now := time.Now().UTC()
				end = now.Format("2006-01-02")
				start = now.AddDate(0, 0, -days).Format("2006-01-02")
			}

			ctx := context.Background()
			token, err := srv.AuthSession().EnsureAuthenticated(ctx)
			if err != nil {
				return err
			}

			client := srv.Client()
			page, err := client.Trackings(ctx, token, sweven.TrackingsQuery{
				TeamMemberID: memberID,
				StartDate:    start,
				EndDate:      end,
				Limit:        reportTrackingsLimit,
			})
			if err != nil {
				return err
			}

			notes, err := client.Notes(ctx, token, sweven.NotesQuery{
				CreatedBy: memberID,
				DateFrom:  start,
				DateTo:    end,
				Limit:     tools.NotesFetchLimit,
			})
			if err != nil {
				return err
			}

			intervals := make([]aggregate.Interval, 0, len(page.Data))
			for _, tr := range page.Data {
				s, err := aggregate.ParseTimestamp(tr.StartDate)
				if err != nil {
					return fmt.Errorf("invalid start_date %q: %w", tr.StartDate, err)
				}
				e, err := aggregate.ParseTimestamp(tr.EndDate)
				if err != nil {
					return fmt.Errorf("invalid end_date %q: %w", tr.EndDate, err)
				}
				intervals = append(intervals, aggregate.Interval{
					Start:         s,
					End:           e,
					WorkOrderID:   string(tr.WorkOrderID),
					WorkOrderCode: tr.WorkOrderCode,
				})
			}

			summary := aggregate.Summarize(intervals, len(notes.Notes))
			report := aggregate.BuildReport(memberID, start, end, summary)

			out, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	cmd.Flags().StringVar(&memberID, "member", "", "team member id (required)")
	cmd.Flags().IntVar(&days, "days", 30, "days back from today when no explicit range is given")
	cmd.Flags().StringVar(&startDate, "start", "", "range start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&endDate, "end", "", "range end (YYYY-MM-DD)")
	cmd.MarkFlagRequired("member")
	return cmd
}
