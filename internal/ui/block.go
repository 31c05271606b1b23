package ui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/slotbook/internal/appointment"
	"github.com/javiermolinar/slotbook/internal/interaction"
)

func (a *App) blockCmd() *cobra.Command {
	var (
		date, start, end string
		slots            int
		reason, notes    string
	)

	cmd := &cobra.Command{
		Use:   "block <resource-id>",
		Short: "Block out a resource for a time range",
		Long: `Create a blockout: closed time that nothing can be booked over.

Reasons: ` + strings.Join(interaction.BlockoutReasons, ", "),
		Example: `  slotbook block room-2 --start=12:00 --end=13:00 --reason=Cleaning`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if i := slices.IndexFunc(interaction.BlockoutReasons, func(r string) bool {
				return strings.EqualFold(r, reason)
			}); i >= 0 {
				reason = interaction.BlockoutReasons[i]
			} else {
				return fmt.Errorf("unknown reason %q (choose from %s)", reason, strings.Join(interaction.BlockoutReasons, ", "))
			}

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

			created, err := ws.book.Create(cmd.Context(), appointment.NewBlockout(args[0], reason, from, dur, notes))
			if err != nil {
				return explain(ws.clock, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Blocked %s on %s %s-%s (%s) [%s]\n",
				created.ResourceID, day.Format("2006-01-02"),
				ws.clock.IndexToTime(created.StartIndex), ws.clock.IndexToTime(created.EndIndex()),
				formatBlockout(created.Reason), shortID(created.ID))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&date, "date", "", "Day (default today)")
	f.StringVar(&start, "start", "", "Start time (HH:MM, required)")
	f.StringVar(&end, "end", "", "End time (HH:MM)")
	f.IntVar(&slots, "slots", 0, "Length in slots instead of --end")
	f.StringVar(&reason, "reason", "Other", "Why the resource is unavailable")
	f.StringVar(&notes, "notes", "", "Free text notes")
	_ = cmd.MarkFlagRequired("start")
	cmd.MarkFlagsMutuallyExclusive("end", "slots")

	return cmd
}
