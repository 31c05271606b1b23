package ui

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *App) slotsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "slots",
		Short: "Print the slot grid for the configured opening hours",
		RunE: func(cmd *cobra.Command, _ []string) error {
			clock, err := a.config.Clock()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s  %d slots of %d minutes\n",
				formatHeader(fmt.Sprintf("%02d:00-%02d:00", a.config.Schedule.StartHour, a.config.Schedule.EndHour)),
				clock.TotalSlots(), clock.SlotMinutes())
			for opt := range clock.LabelOptions() {
				fmt.Fprintf(out, "  %3d  %s  %s\n", opt.Index, clock.IndexToTime(opt.Index), formatMuted(opt.Label))
			}
			return nil
		},
	}
}
