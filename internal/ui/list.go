package ui

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/slotbook/internal/resource"
)

func (a *App) listCmd() *cobra.Command {
	var (
		date     string
		category string
		free     bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a day's bookings and blockouts by resource",
		Long: `List every appointment on one day, grouped by resource in directory
order, followed by the day's utilization.

If no date is specified, lists today.`,
		Example: `  slotbook list
  slotbook list --date=tomorrow
  slotbook list --date=2025-01-15 --category=room`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			day, err := a.parseDate(date)
			if err != nil {
				return err
			}
			ws, err := a.openDay(cmd.Context(), day)
			if err != nil {
				return err
			}

			dir := ws.dir
			if category != "" {
				c, err := resource.ParseCategory(category)
				if err != nil {
					return err
				}
				dir = dir.ByCategory(c)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\n  %s\n", formatHeader(day.Format("Monday, January 2, 2006")))
			fmt.Fprintln(out, strings.Repeat("─", 60))

			maxLabel := labelWidth(30)
			printed := 0
			for _, r := range dir.All() {
				records := ws.book.ListByResource(r.ID)
				if len(records) == 0 && !free {
					continue
				}
				if printed > 0 {
					fmt.Fprintln(out)
				}
				printed++
				fmt.Fprintf(out, "  %s %s\n", formatHeader(r.DisplayName()), formatMuted("("+r.ID+")"))
				if len(records) == 0 {
					fmt.Fprintf(out, "  %s\n", formatMuted("free all day"))
				}
				for _, rec := range records {
					PrintRecordRow(out, ws.clock, rec, maxLabel)
				}
			}

			stats := NewStats(ws.clock, dir, onResources(ws.book.All(), dir))
			fmt.Fprintln(out, strings.Repeat("─", 60))
			if stats.Bookings+stats.Blockouts == 0 {
				fmt.Fprintln(out, "  Nothing booked.")
				return nil
			}
			PrintStats(out, stats)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day (YYYY-MM-DD, today, tomorrow, +N, weekday; default today)")
	cmd.Flags().StringVar(&category, "category", "", "Only this category (room or practitioner)")
	cmd.Flags().BoolVar(&free, "free", false, "Include resources with nothing booked")
	return cmd
}
