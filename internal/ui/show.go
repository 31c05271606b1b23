package ui

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *App) showCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one appointment in full",
		Long: `Show every field of one appointment. The id may be shortened to any
unique prefix, as printed by 'slotbook list'.`,
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

			out := cmd.OutOrStdout()
			title := formatBooking(rec.Label)
			if rec.IsBlockout() {
				title = formatBlockout("Blocked: " + rec.Reason)
			}
			name := rec.ResourceID
			if r, err := ws.dir.Get(rec.ResourceID); err == nil {
				name = r.DisplayName()
			}

			fmt.Fprintf(out, "%s\n", title)
			fmt.Fprintf(out, "  id:       %s\n", rec.ID)
			fmt.Fprintf(out, "  resource: %s (%s)\n", name, rec.ResourceID)
			fmt.Fprintf(out, "  time:     %s %s-%s (%s)\n", day.Format("2006-01-02"),
				ws.clock.IndexToTime(rec.StartIndex), ws.clock.IndexToTime(rec.EndIndex()),
				FormatDuration(rec.DurationSlots*ws.clock.SlotMinutes()))
			if g := rec.GuestInfo; g != nil {
				fmt.Fprintf(out, "  guest:    %s %s %s\n", g.Name, g.Email, g.Phone)
			}
			for _, sl := range rec.ServiceLines {
				fmt.Fprintf(out, "  service:  %dx %s %.2f\n", sl.Quantity, sl.Name, sl.Price)
			}
			if rec.Notes != "" {
				fmt.Fprintf(out, "  notes:    %s\n", rec.Notes)
			}
			if rec.CreatedBy != "" {
				fmt.Fprintf(out, "  by:       %s\n", formatMuted(rec.CreatedBy))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day the appointment is on (default today)")
	return cmd
}
