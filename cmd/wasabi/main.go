package main

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/javiermolinar/wasabi/internal/config"
	"github.com/javiermolinar/wasabi/internal/logging"
	"github.com/javiermolinar/wasabi/internal/ui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	mode := strings.ToLower(cfg.UI.Color)
	colorLogs := mode == "always" || (mode == "auto" && term.IsTerminal(int(os.Stderr.Fd())))
	log, err := logging.New(cfg.Log, colorLogs)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}

	app := ui.NewApp(cfg, log)
	defer func() { _ = app.Close() }()
	return app.Execute()
}
