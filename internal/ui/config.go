package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/slotbook/internal/config"
	"github.com/javiermolinar/slotbook/internal/resource"
	"github.com/javiermolinar/slotbook/internal/tui/theme"
)

func (a *App) configCmd() *cobra.Command {
	var edit bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "View or edit configuration",
		Long: `Show the configuration in effect.

If no config file exists, creates one with default values.
With --edit, prompts for each setting and saves the result.

Example:
  slotbook config --edit`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := a.configPath
			if path == "" {
				path = config.DefaultConfigPath()
			}
			return runConfig(cmd.InOrStdin(), cmd.OutOrStdout(), a.config, path, edit)
		},
	}
	cmd.Flags().BoolVar(&edit, "edit", false, "Edit settings interactively")
	return cmd
}

func runConfig(in io.Reader, out io.Writer, cfg *config.Config, path string, edit bool) error {
	fmt.Fprintf(out, "Config file: %s\n\n", path)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Fprintln(out, "No config file found. Creating with default values...")
		if err := cfg.SaveTo(path); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Fprintf(out, "Created %s\n\n", path)
	}

	printConfig(out, cfg)
	if !edit {
		return nil
	}

	reader := bufio.NewReader(in)
	fmt.Fprintln(out)
	cfg.Schedule.StartHour = promptInt(reader, out, "Opening hour (0-23)", cfg.Schedule.StartHour)
	cfg.Schedule.EndHour = promptInt(reader, out, "Closing hour (1-24)", cfg.Schedule.EndHour)
	cfg.Schedule.SlotMinutes = promptInt(reader, out, "Slot length in minutes", cfg.Schedule.SlotMinutes)
	cfg.Storage.DBPath = promptValue(reader, out, "Database path", cfg.Storage.DBPath)
	cfg.Directory.File = promptValue(reader, out, "Resource file (yaml/toml, empty for inline)", cfg.Directory.File)
	cfg.UI.Theme = promptTheme(reader, out, cfg.UI.Theme)
	cfg.UI.Category = promptCategory(reader, out, cfg.UI.Category)
	cfg.UI.Operator = promptValue(reader, out, "Operator name", cfg.UI.Operator)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := cfg.SaveTo(path); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Fprintln(out, "\nConfiguration saved!")
	return nil
}

func printConfig(out io.Writer, cfg *config.Config) {
	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintln(out, "──────────────────────")
	fmt.Fprintln(out, "[schedule]")
	fmt.Fprintf(out, "  start_hour   = %d\n", cfg.Schedule.StartHour)
	fmt.Fprintf(out, "  end_hour     = %d\n", cfg.Schedule.EndHour)
	fmt.Fprintf(out, "  slot_minutes = %d\n", cfg.Schedule.SlotMinutes)
	fmt.Fprintln(out, "\n[storage]")
	fmt.Fprintf(out, "  db_path      = %s\n", cfg.Storage.DBPath)
	fmt.Fprintln(out, "\n[ui]")
	fmt.Fprintf(out, "  theme        = %s\n", cfg.UI.Theme)
	fmt.Fprintf(out, "  category     = %s\n", cfg.UI.Category)
	fmt.Fprintf(out, "  operator     = %s\n", cfg.UI.Operator)
	if cfg.Directory.File != "" {
		fmt.Fprintln(out, "\n[directory]")
		fmt.Fprintf(out, "  file         = %s\n", cfg.Directory.File)
		return
	}
	fmt.Fprintf(out, "\n%d inline resources (see 'slotbook resources')\n", len(cfg.Resources))
}

func promptValue(reader *bufio.Reader, out io.Writer, label, current string) string {
	if current == "" {
		fmt.Fprintf(out, "  %s: ", label)
	} else {
		fmt.Fprintf(out, "  %s [%s]: ", label, current)
	}
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return current
	}
	return input
}

func promptInt(reader *bufio.Reader, out io.Writer, label string, current int) int {
	for {
		value := promptValue(reader, out, label, strconv.Itoa(current))
		n, err := strconv.Atoi(value)
		if err == nil {
			return n
		}
		fmt.Fprintf(out, "  Not a number: %q\n", value)
		if _, err := reader.Peek(1); err != nil {
			return current
		}
	}
}

func promptTheme(reader *bufio.Reader, out io.Writer, current string) string {
	options := strings.Join(theme.Available(), ", ")
	label := fmt.Sprintf("UI theme (%s)", options)
	for {
		value := strings.ToLower(promptValue(reader, out, label, current))
		if theme.IsAvailable(value) || strings.HasSuffix(value, ".toml") {
			return value
		}
		fmt.Fprintf(out, "  Invalid theme %q. Available: %s\n", value, options)
		if _, err := reader.Peek(1); err != nil {
			return current
		}
	}
}

func promptCategory(reader *bufio.Reader, out io.Writer, current string) string {
	for {
		value := promptValue(reader, out, "Start with (room, practitioner)", current)
		if c, err := resource.ParseCategory(value); err == nil {
			return string(c)
		}
		fmt.Fprintf(out, "  Invalid category %q\n", value)
		if _, err := reader.Peek(1); err != nil {
			return current
		}
	}
}
