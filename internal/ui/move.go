package ui

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/slotbook/internal/interaction"
)

func (a *App) moveCmd() *cobra.Command {
	var date, to, start string

	cmd := &cobra.Command{
		Use:   "move <id>",
		Short: "Move an appointment to another time or resource",
		Long: `Move an appointment within its day. The length is kept; a start that
would run past closing is pulled back so the appointment fits.

If --to is omitted the appointment stays on its resource.`,
		Example: `  slotbook move 3f2a --start=14:00
  slotbook move 3f2a --to=room-2 --start=09:15`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			day, err := a.parseDate(date)
			if err != nil {
				return err
			}
			ws, err := a.openDay(ctx, day)
			if err != nil {
				return err
			}
			rec, err := resolveID(ws.book, args[0])
			if err != nil {
				return err
			}
			if to == "" {
				to = rec.ResourceID
			}
			target := rec.StartIndex
			if start != "" {
				if target, err = ws.clock.TimeToIndex(start); err != nil {
					return fmt.Errorf("--start: %w", err)
				}
			}

			res := interaction.RequestMove(ws.book.Mover(ctx), ws.clock, rec.ID, to, target)
			a.logger.Debug().Str("source", "cli").Str("outcome", res.Outcome.String()).Str("id", rec.ID).Msg("move")

			out := cmd.OutOrStdout()
			switch res.Outcome {
			case interaction.Unchanged:
				fmt.Fprintln(out, "Already there, nothing to do.")
				return nil
			case interaction.Rejected, interaction.Missing:
				return explain(ws.clock, res.Err)
			}
			if ws.book.Dirty() {
				return errors.New("moved in memory but the day could not be saved")
			}
			moved := res.Appointment
			fmt.Fprintf(out, "Moved %s to %s %s-%s\n", formatBooking(moved.Label), moved.ResourceID,
				ws.clock.IndexToTime(moved.StartIndex), ws.clock.IndexToTime(moved.EndIndex()))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day the appointment is on (default today)")
	cmd.Flags().StringVar(&to, "to", "", "Target resource id")
	cmd.Flags().StringVar(&start, "start", "", "New start time (HH:MM)")
	return cmd
}
