package ui

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/slotbook/internal/dateutil"
	"github.com/javiermolinar/slotbook/internal/export"
)

func (a *App) exportCmd() *cobra.Command {
	var date, out, format string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a day as iCalendar or a plain-text agenda",
		Example: `  slotbook export --date=tomorrow
  slotbook export --format=agenda --out=-`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			day, err := a.parseDate(date)
			if err != nil {
				return err
			}
			ws, err := a.openDay(cmd.Context(), day)
			if err != nil {
				return err
			}

			var data []byte
			switch format {
			case "ics":
				if data, err = export.ICS(day, ws.clock, ws.dir, ws.book.All(), time.Local); err != nil {
					return fmt.Errorf("building calendar: %w", err)
				}
			case "agenda":
				data = []byte(export.Agenda(day, ws.clock, ws.dir, ws.book.All()))
			default:
				return fmt.Errorf("unknown --format %q (ics or agenda)", format)
			}

			if out == "-" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if out == "" {
				ext := "ics"
				if format == "agenda" {
					ext = "txt"
				}
				out = fmt.Sprintf("slotbook-%s.%s", dateutil.DateKey(day), ext)
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("writing export: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d appointments to %s\n", len(ws.book.All()), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day to export (default today)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file, - for stdout (default slotbook-<date>.ics)")
	cmd.Flags().StringVar(&format, "format", "ics", "ics or agenda")
	return cmd
}
