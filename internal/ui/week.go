package ui

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/slotbook/internal/dateutil"
	"github.com/javiermolinar/slotbook/internal/summary"
)

func (a *App) weekCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "week",
		Short: "Summarize bookings for a week",
		Long: `Show one line per day from Monday to Sunday with booked, blocked and free
time across all resources, followed by totals for the week.

Days that were never opened count as fully free.`,
		Example: `  slotbook week
  slotbook week --date=2025-01-15
  slotbook week --date=+7`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ref, err := a.parseDate(date)
			if err != nil {
				return err
			}
			ws, err := a.open()
			if err != nil {
				return err
			}
			week, err := summary.BuildWeek(cmd.Context(), ws.book.Adapter(), ws.clock, ws.dir, ref)
			if err != nil {
				return fmt.Errorf("building week: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\n  %s\n", formatHeader(fmt.Sprintf("Week of %s - %s",
				week.Start.Format("Jan 2"), week.End.Format("Jan 2, 2006"))))
			fmt.Fprintln(out, strings.Repeat("─", 60))

			today := a.now()
			for _, d := range week.Days {
				label := d.Date.Format("Mon 01-02")
				if dateutil.SameDay(d.Date, today) {
					label = formatHeader(label)
				}
				if !d.Stored() && d.Bookings+d.Blockouts == 0 {
					fmt.Fprintf(out, "  %s  %s\n", label, formatMuted("-"))
					continue
				}
				fmt.Fprintf(out, "  %s  %3d bookings  %s booked  %s blocked  %s\n",
					label, d.Bookings,
					formatBooking(fmt.Sprintf("%6s", FormatDuration(d.BookedMinutes))),
					formatBlockout(fmt.Sprintf("%6s", FormatDuration(d.BlockedMinutes))),
					formatStats(fmt.Sprintf("%3d%%", week.DayUtilization(d))))
			}

			totals := week.Totals()
			fmt.Fprintln(out, strings.Repeat("─", 60))
			if totals.Bookings+totals.Blockouts == 0 {
				fmt.Fprintln(out, "  Nothing booked this week.")
				return nil
			}
			fmt.Fprintf(out, "  Bookings: %d  |  Blockouts: %d  |  Free: %s\n",
				totals.Bookings, totals.Blockouts, FormatDuration(totals.FreeMinutes))
			capacity := week.OpenMinutes*len(week.Days) - totals.BlockedMinutes
			fmt.Fprintf(out, "  Utilization: %s\n", UtilizationBar(totals.BookedMinutes, capacity, 20))
			if busiest, ok := week.Busiest(); ok {
				fmt.Fprintf(out, "  Busiest: %s (%s)\n", busiest.Date.Format("Monday"),
					formatStats(FormatDuration(busiest.BookedMinutes)))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Any day in the week (default this week)")
	return cmd
}
