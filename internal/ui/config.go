package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/wasabi/internal/config"
	"github.com/javiermolinar/wasabi/internal/tui/theme"
)

func (a *App) configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "View or edit configuration",
		Long: `Interactive configuration management.

If no config file exists, creates one with default values.
Otherwise, displays current config and allows editing.

Example:
  wasabi config`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runConfigInteractive(a.out, os.Stdin, config.DefaultConfigPath())
		},
	}
}

func runConfigInteractive(out io.Writer, in io.Reader, configPath string) error {
	fmt.Fprintf(out, "Config file: %s\n\n", configPath)

	// Load existing config or create defaults
	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Check if file exists
	_, fileErr := os.Stat(configPath)
	isNew := os.IsNotExist(fileErr)

	if isNew {
		fmt.Fprintln(out, "No config file found. Creating with default values...")
		if err := cfg.SaveTo(configPath); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Fprintf(out, "Created %s\n\n", configPath)
	}

	printConfig(out, cfg)

	reader := bufio.NewReader(in)
	if !promptYesNo(out, reader, "\nWould you like to edit the configuration?") {
		return nil
	}

	cfg.Schedule.SlotMinutes = promptInt(out, reader, "Slot length in minutes", cfg.Schedule.SlotMinutes)
	cfg.Schedule.MaxOverlap = promptInt(out, reader, "Max overlapping tasks per slot", cfg.Schedule.MaxOverlap)
	cfg.Schedule.DayStart = promptValue(out, reader, "Working day start (HH:MM)", cfg.Schedule.DayStart)
	cfg.Schedule.DayEnd = promptValue(out, reader, "Working day end (HH:MM)", cfg.Schedule.DayEnd)
	workdays := promptValue(out, reader, "Workdays (comma separated)", strings.Join(cfg.Schedule.Workdays, ","))
	cfg.Schedule.Workdays = splitList(workdays)
	cfg.Storage.DBPath = promptValue(out, reader, "Database path", cfg.Storage.DBPath)
	cfg.Log.Level = promptValue(out, reader, "Log level (debug, info, warn, error, off)", cfg.Log.Level)
	cfg.Log.Format = promptValue(out, reader, "Log format (console, json)", cfg.Log.Format)
	cfg.UI.Color = promptValue(out, reader, "Color (auto, always, never)", cfg.UI.Color)
	cfg.UI.Theme = promptValue(out, reader, "Board theme ("+strings.Join(theme.Available(), ", ")+")", cfg.UI.Theme)
	cfg.User.Name = promptValue(out, reader, "User name", cfg.User.Name)

	// Validate before saving
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if err := cfg.SaveTo(configPath); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Fprintln(out, "\nConfiguration saved!")
	return nil
}

func printConfig(out io.Writer, cfg *config.Config) {
	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintln(out, "──────────────────────")
	fmt.Fprintln(out, "[schedule]")
	fmt.Fprintf(out, "  slot_minutes = %d\n", cfg.Schedule.SlotMinutes)
	fmt.Fprintf(out, "  max_overlap  = %d\n", cfg.Schedule.MaxOverlap)
	fmt.Fprintf(out, "  workdays     = %s\n", strings.Join(cfg.Schedule.Workdays, ", "))
	fmt.Fprintf(out, "  day_start    = %s\n", cfg.Schedule.DayStart)
	fmt.Fprintf(out, "  day_end      = %s\n", cfg.Schedule.DayEnd)
	fmt.Fprintln(out, "\n[storage]")
	fmt.Fprintf(out, "  db_path      = %s\n", cfg.Storage.DBPath)
	fmt.Fprintln(out, "\n[log]")
	fmt.Fprintf(out, "  level        = %s\n", cfg.Log.Level)
	fmt.Fprintf(out, "  format       = %s\n", cfg.Log.Format)
	fmt.Fprintln(out, "\n[ui]")
	fmt.Fprintf(out, "  color        = %s\n", cfg.UI.Color)
	fmt.Fprintf(out, "  theme        = %s\n", cfg.UI.Theme)
	fmt.Fprintln(out, "\n[user]")
	fmt.Fprintf(out, "  name         = %s\n", cfg.User.Name)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func promptYesNo(out io.Writer, reader *bufio.Reader, question string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", question)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

func promptValue(out io.Writer, reader *bufio.Reader, label, current string) string {
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

func promptInt(out io.Writer, reader *bufio.Reader, label string, current int) int {
	for {
		value := promptValue(out, reader, label, strconv.Itoa(current))
		n, err := strconv.Atoi(value)
		if err == nil {
			return n
		}
		fmt.Fprintf(out, "  Invalid number %q.\n", value)
	}
}
