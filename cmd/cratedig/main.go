// Package main provides the interactive terminal UI entry point.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alecthomas/kingpin/v2"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/cratedig/internal/app/bootstrap"
	"github.com/osa030/cratedig/internal/infra/config"
	"github.com/osa030/cratedig/internal/infra/logger"
	"github.com/osa030/cratedig/internal/ui"
)

var (
	app        = kingpin.New("cratedig", "Find the producers behind a song and what else they made")
	configPath = app.Flag("config", "Path to config file (optional)").Envar("CRATEDIG_CONFIG").String()
	verbose    = app.Flag("verbose", "Enable verbose (DEBUG) logging").Short('v').Bool()
	logfile    = app.Flag("logfile", "Path to log file").Default("cratedig.log").String()
)

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	kingpin.MustParse(app.Parse(os.Args[1:]))

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Logs go to a file so they do not corrupt the TUI
	loggerConfig := logger.Config{
		Output: "file",
		Level:  "info",
		File:   *logfile,
	}
	if *verbose {
		loggerConfig.Level = "debug"
	}
	closer, err := logger.Init(loggerConfig)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer closer.Close()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	searcher, err := bootstrap.NewFinder(ctx, cfg)
	if err != nil {
		return err
	}

	zlog.Info().Msg("Starting TUI")
	model := ui.NewModel(ctx, searcher, cfg)
	p := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}
