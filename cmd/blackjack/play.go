package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/history"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/tui"
)

// PlayCmd runs a local game in the terminal
type PlayCmd struct {
	Seed    *int64 `kong:"help='Deterministic shuffle seed (optional)'"`
	Config  string `kong:"default='blackjack.hcl',type='path',help='HCL config file'"`
	History string `kong:"type='path',help='Write a JSON transcript of finished rounds on exit'"`
	NoColor bool   `kong:"help='Disable colours'"`
}

func (c *PlayCmd) Run() error {
	cfg, err := loadConfig(c.Config)
	if err != nil {
		return err
	}
	if c.Seed != nil {
		cfg.Game.Seed = *c.Seed
	}
	if c.History != "" {
		cfg.History.File = c.History
	}
	setColor(c.NoColor || cfg.UI.NoColor)

	logger, file, err := openLogFile(cfg, "play")
	if err != nil {
		return err
	}
	defer closeLog(file)

	recorder := history.NewRecorder(logger)
	session := game.NewSession(randutil.NewSeeded(cfg.Game.Seed),
		game.WithLogger(logger),
		game.WithEventHandler(recorder.Handle),
	)
	logger.Info("Starting local game", "session", session.ID(), "seed", cfg.Game.Seed)

	model := tui.NewModel(game.NewLocalController(session, logger), recorder, logger)
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}

	return exportHistory(recorder, cfg.History.File)
}

func exportHistory(recorder *history.Recorder, path string) error {
	if path == "" {
		return nil
	}
	if err := recorder.Export(path); err != nil {
		return err
	}
	fmt.Printf("%s written to %s\n", recorder.Transcript().Summary, path)
	return nil
}
