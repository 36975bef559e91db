package ui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/javiermolinar/wasabi/internal/config"
	"github.com/javiermolinar/wasabi/internal/db"
	"github.com/javiermolinar/wasabi/internal/schedule"
	"github.com/javiermolinar/wasabi/internal/task"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// App holds the CLI application state.
type App struct {
	store  task.Store
	engine *schedule.Engine
	config *config.Config
	log    *zap.Logger
	out    io.Writer
	root   *cobra.Command

	actor   string // who is making the change
	noColor bool
}

// NewApp creates a new CLI application. The store is opened on first use,
// so commands such as version and config work without a database.
func NewApp(cfg *config.Config, log *zap.Logger) *App {
	if log == nil {
		log = zap.NewNop()
	}
	a := &App{config: cfg, log: log, out: os.Stdout}

	a.root = &cobra.Command{
		Use:   "wasabi",
		Short: "A shared calendar for scheduling tasks",
		Long: `Wasabi keeps shared calendars of tasks.

Times snap to a fixed grid of slots (slot_minutes in the config), each
slot holds a limited number of overlapping tasks, and edits carry the version you last saw so that
concurrent changes by other users are never silently overwritten.`,
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if a.noColor {
				DisableColor()
				return
			}
			applyColorMode(a.config.UI.Color)
		},
	}

	a.root.PersistentFlags().StringVar(&a.actor, "as", cfg.User.Name, "User name recorded on changes")
	a.root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "Disable color output")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.calendarCmd())
	a.root.AddCommand(a.addCmd())
	a.root.AddCommand(a.editCmd())
	a.root.AddCommand(a.deleteCmd())
	a.root.AddCommand(a.listCmd())
	a.root.AddCommand(a.showCmd())
	a.root.AddCommand(a.slotsCmd())
	a.root.AddCommand(a.suggestCmd())
	a.root.AddCommand(a.boardCmd())
	a.root.AddCommand(a.exportCmd())

	return a
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(a.out, "wasabi %s (commit: %s)\n", Version, Commit)
		},
	}
}

// ensureEngine opens the store and builds the engine on first use.
func (a *App) ensureEngine() error {
	if a.engine != nil {
		return nil
	}

	if a.store == nil {
		path := a.config.Storage.DBPath
		if path != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return fmt.Errorf("creating data directory: %w", err)
			}
		}
		store, err := db.New(path)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		a.store = store
	}

	engine, err := schedule.New(a.store, schedule.Options{
		SlotMinutes: a.config.Schedule.SlotMinutes,
		MaxOverlap:  a.config.Schedule.MaxOverlap,
		Logger:      a.log,
	})
	if err != nil {
		return err
	}
	a.engine = engine
	return nil
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}

// Close releases the store if it was opened.
func (a *App) Close() error {
	_ = a.log.Sync()
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}
