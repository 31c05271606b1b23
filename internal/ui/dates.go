package ui

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/slotbook/internal/dateutil"
)

func (a *App) datesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dates",
		Short: "List the days that have saved bookings",
		Long: `List every day with a saved snapshot, oldest first, with its booking
count, utilization and last save time. The day last opened in the grid is
marked with *.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			ws, err := a.open()
			if err != nil {
				return err
			}
			adapter := ws.book.Adapter()
			dates, err := adapter.Dates(ctx)
			if err != nil {
				return fmt.Errorf("listing dates: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(dates) == 0 {
				fmt.Fprintln(out, "No saved days.")
				return nil
			}
			last, hasLast := adapter.LastViewed(ctx)
			for _, d := range dates {
				records, _ := adapter.Load(ctx, d)
				s := NewStats(ws.clock, ws.dir, records)
				mark := " "
				if hasLast && dateutil.SameDay(d, last) {
					mark = "*"
				}
				saved := ""
				if at, ok := adapter.SavedAt(ctx, d); ok {
					saved = "  " + formatMuted("saved "+at.Local().Format("2006-01-02 15:04"))
				}
				fmt.Fprintf(out, "%s %s %s  %3d bookings  %2d blockouts  %s%s\n",
					mark, dateutil.DateKey(d), formatMuted(d.Format("Mon")),
					s.Bookings, s.Blockouts, formatStats(fmt.Sprintf("%3d%%", s.Utilization())), saved)
			}
			return nil
		},
	}
}
