package ui

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *App) cancelCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:     "cancel <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a booking or blockout",
		Long: `Delete an appointment by its id or a unique id prefix.

Example:
  slotbook cancel 3f2a --date=2025-01-15`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := a.parseDate(date)
			if err != nil {
				return err
			}
			ws, err := a.openDay(cmd.Context(), day)
			if err != nil {
				return err
			}
			rec, err := resolveID(ws.book, args[0])
			if err != nil {
				return err
			}
			if err := ws.book.Remove(cmd.Context(), rec.ID); err != nil {
				return fmt.Errorf("cancelling %s: %w", shortID(rec.ID), err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Cancelled %s on %s %s-%s\n", rec.Label, rec.ResourceID,
				ws.clock.IndexToTime(rec.StartIndex), ws.clock.IndexToTime(rec.EndIndex()))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day the appointment is on (default today)")
	return cmd
}
