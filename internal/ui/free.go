package ui

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/slotbook/internal/resource"
	"github.com/javiermolinar/slotbook/internal/scheduler"
)

func (a *App) freeCmd() *cobra.Command {
	var (
		date     string
		category string
		after    string
		slots    int
		first    bool
	)

	cmd := &cobra.Command{
		Use:   "free",
		Short: "Show open time per resource",
		Long: `Show the free ranges on each resource that are long enough for the
requested number of slots.

On today the search starts at the next slot that has not begun yet. On a
future day it starts when the day opens. Use --after to start elsewhere.`,
		Example: `  slotbook free
  slotbook free --slots=4 --category=room
  slotbook free --date=tomorrow --after=13:00 --first`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if slots < 1 {
				return fmt.Errorf("--slots must be at least 1, got %d", slots)
			}
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

			sched := scheduler.New(ws.clock)
			out := cmd.OutOrStdout()

			from, ok := sched.NextAvailableStart(day, a.now())
			if after != "" {
				if from, err = ws.clock.TimeToIndex(after); err != nil {
					return fmt.Errorf("--after: %w", err)
				}
				ok = true
			}
			if !ok {
				fmt.Fprintln(out, "No open time left on this day.")
				return nil
			}

			fmt.Fprintf(out, "\n  %s  %s\n", formatHeader(day.Format("Monday, January 2, 2006")),
				formatMuted(fmt.Sprintf("from %s, at least %s", ws.clock.IndexToTime(from), FormatDuration(slots*ws.clock.SlotMinutes()))))

			for _, r := range dir.All() {
				var fits []scheduler.Gap
				for _, g := range sched.Gaps(ws.book.ListByResource(r.ID), from) {
					if g.Duration >= slots {
						fits = append(fits, g)
					}
				}
				if first && len(fits) > 1 {
					fits = fits[:1]
				}

				fmt.Fprintf(out, "  %-20s", r.DisplayName())
				if len(fits) == 0 {
					fmt.Fprintf(out, " %s\n", formatWarn("no room"))
					continue
				}
				for i, g := range fits {
					if i > 0 {
						fmt.Fprintf(out, "  %-20s", "")
					}
					fmt.Fprintf(out, " %s-%s  %s\n",
						ws.clock.IndexToTime(g.Start), ws.clock.IndexToTime(g.End()),
						formatMuted(FormatDuration(g.Duration*ws.clock.SlotMinutes())))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day (YYYY-MM-DD, today, tomorrow, +N, weekday; default today)")
	cmd.Flags().StringVar(&category, "category", "", "Only this category (room or practitioner)")
	cmd.Flags().StringVar(&after, "after", "", "Search from this time (HH:MM)")
	cmd.Flags().IntVar(&slots, "slots", 1, "Minimum free length in slots")
	cmd.Flags().BoolVar(&first, "first", false, "Only the earliest fit per resource")
	return cmd
}
