package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lox/blackjack/internal/client"
	"github.com/lox/blackjack/internal/history"
	"github.com/lox/blackjack/internal/tui"
)

// ConnectCmd plays a session hosted by a remote server
type ConnectCmd struct {
	Server  string        `kong:"default='ws://localhost:8080/ws',help='WebSocket server URL'"`
	Config  string        `kong:"default='blackjack.hcl',type='path',help='HCL config file'"`
	Timeout time.Duration `kong:"default='10s',help='Per-request timeout'"`
	NoColor bool          `kong:"help='Disable colours'"`
}

func (c *ConnectCmd) Run() error {
	cfg, err := loadConfig(c.Config)
	if err != nil {
		return err
	}
	setColor(c.NoColor || cfg.UI.NoColor)

	logger, file, err := openLogFile(cfg, "connect")
	if err != nil {
		return err
	}
	defer closeLog(file)

	serverURL := strings.TrimSpace(c.Server)
	ctx, cancel := context.WithTimeout(context.Background(), c.Timeout)
	remote, err := client.Dial(ctx, serverURL, logger, client.WithRequestTimeout(c.Timeout))
	cancel()
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", serverURL, err)
	}
	defer func() {
		if err := remote.Close(); err != nil {
			logger.Debug("Close failed", "error", err)
		}
	}()

	recorder := history.NewRecorder(logger)
	model := tui.NewModel(remote, recorder, logger,
		tui.WithDone(remote.Done()),
		tui.WithSubtitle(serverURL),
	)
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}

	return exportHistory(recorder, cfg.History.File)
}
