package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/history"
	"github.com/lox/blackjack/internal/server"
)

// ServeCmd hosts one game session per WebSocket connection
type ServeCmd struct {
	Addr    string `kong:"help='Server address (overrides config)'"`
	Config  string `kong:"default='blackjack.hcl',type='path',help='HCL config file'"`
	Seed    *int64 `kong:"help='Deterministic seed for session shuffles (optional)'"`
	History string `kong:"type='path',help='Write a JSON transcript of finished rounds on shutdown'"`
	Debug   bool   `kong:"help='Enable debug logging'"`
}

func (c *ServeCmd) Run() error {
	cfg, err := loadConfig(c.Config)
	if err != nil {
		return err
	}
	if c.Addr != "" {
		cfg.Server.Addr = c.Addr
	}
	if c.Seed != nil {
		cfg.Game.Seed = *c.Seed
	}
	if c.History != "" {
		cfg.History.File = c.History
	}

	level := cfg.Level()
	if c.Debug {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Level:           level,
	})

	recorder := history.NewRecorder(logger)
	s := server.NewServer(cfg.Server.Addr, logger,
		server.WithIdleTimeout(cfg.IdleTimeout()),
		server.WithMaxSessions(cfg.Server.MaxSessions),
		server.WithSeed(cfg.Game.Seed),
		server.WithRecorder(recorder),
	)

	logger.Info("Starting BlackJack server",
		"address", cfg.Server.Addr,
		"idle_timeout", cfg.IdleTimeout(),
		"max_sessions", cfg.Server.MaxSessions,
		"seed", cfg.Game.Seed)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := s.Run(ctx); err != nil {
		return err
	}

	if cfg.History.File != "" {
		if err := recorder.Export(cfg.History.File); err != nil {
			return err
		}
		logger.Info("Wrote round history", "file", cfg.History.File, "rounds", len(recorder.Rounds()))
	}
	return nil
}
