package ui

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/slotbook/internal/appointment"
)

func (a *App) bookCmd() *cobra.Command {
	var (
		date, start, end string
		slots            int
		label, notes     string
		guest            appointment.GuestInfo
	)

	cmd := &cobra.Command{
		Use:   "book <resource-id>",
		Short: "Book a resource for a time range",
		Long: `Create a booking. The range must fall on slot boundaries inside opening
hours and must not overlap anything else on the resource.`,
		Example: `  slotbook book room-1 --start=10:00 --end=11:00 --label="Massage" --guest="Ana"
  slotbook book pr-ana --date=tomorrow --start=09:30 --slots=2 --label=Consult`,
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
			from, dur, err := slotRange(ws.clock, start, end, slots)
			if err != nil {
				return err
			}

			candidate := appointment.NewBooking(args[0], from, dur, label)
			candidate.Notes = notes
			if guest != (appointment.GuestInfo{}) {
				g := guest
				candidate.GuestInfo = &g
			}

			created, err := ws.book.Create(cmd.Context(), candidate)
			if err != nil {
				return explain(ws.clock, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Booked %s on %s %s %s-%s [%s]\n",
				formatBooking(created.Label), created.ResourceID, day.Format("2006-01-02"),
				ws.clock.IndexToTime(created.StartIndex), ws.clock.IndexToTime(created.EndIndex()), shortID(created.ID))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&date, "date", "", "Day (default today)")
	f.StringVar(&start, "start", "", "Start time (HH:MM, required)")
	f.StringVar(&end, "end", "", "End time (HH:MM)")
	f.IntVar(&slots, "slots", 0, "Length in slots instead of --end")
	f.StringVar(&label, "label", "", "Label shown on the grid")
	f.StringVar(&notes, "notes", "", "Free text notes")
	f.StringVar(&guest.Name, "guest", "", "Guest name")
	f.StringVar(&guest.Email, "email", "", "Guest email")
	f.StringVar(&guest.Phone, "phone", "", "Guest phone")
	_ = cmd.MarkFlagRequired("start")
	cmd.MarkFlagsMutuallyExclusive("end", "slots")

	return cmd
}
