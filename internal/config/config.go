// Package config loads the HCL configuration shared by the play, serve and
// connect commands.
package config

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Config represents the complete configuration
type Config struct {
	Game    GameSettings
	UI      UISettings
	Server  ServerSettings
	History HistorySettings
}

// GameSettings contains settings for local games
type GameSettings struct {
	Seed int64 `hcl:"seed,optional"` // 0 seeds from the clock
}

// UISettings contains terminal interface settings
type UISettings struct {
	LogLevel string `hcl:"log_level,optional"`
	LogFile  string `hcl:"log_file,optional"`
	NoColor  bool   `hcl:"no_color,optional"`
}

// ServerSettings contains settings for the session server
type ServerSettings struct {
	Addr        string `hcl:"addr,optional"`
	IdleTimeout int    `hcl:"idle_timeout,optional"` // seconds
	MaxSessions int    `hcl:"max_sessions,optional"`
}

// HistorySettings controls the transcript export
type HistorySettings struct {
	File string `hcl:"file,optional"`
}

// fileConfig mirrors the file layout; every block is optional
type fileConfig struct {
	Game    *GameSettings    `hcl:"game,block"`
	UI      *UISettings      `hcl:"ui,block"`
	Server  *ServerSettings  `hcl:"server,block"`
	History *HistorySettings `hcl:"history,block"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		UI: UISettings{
			LogLevel: "info",
			LogFile:  "blackjack.log",
		},
		Server: ServerSettings{
			Addr:        ":8080",
			IdleTimeout: 300,
			MaxSessions: 64,
		},
	}
}

// Load reads configuration from an HCL file. A missing file yields the
// defaults; values absent from the file keep their default.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}
	return decode(file)
}

// Parse reads configuration from HCL source
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL: %s", diags.Error())
	}
	return decode(file)
}

func decode(file *hcl.File) (*Config, error) {
	var fc fileConfig
	if diags := gohcl.DecodeBody(file.Body, nil, &fc); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	config := Default()
	if fc.Game != nil {
		config.Game.Seed = fc.Game.Seed
	}
	if fc.UI != nil {
		if fc.UI.LogLevel != "" {
			config.UI.LogLevel = fc.UI.LogLevel
		}
		if fc.UI.LogFile != "" {
			config.UI.LogFile = fc.UI.LogFile
		}
		config.UI.NoColor = fc.UI.NoColor
	}
	if fc.Server != nil {
		if fc.Server.Addr != "" {
			config.Server.Addr = fc.Server.Addr
		}
		if fc.Server.IdleTimeout != 0 {
			config.Server.IdleTimeout = fc.Server.IdleTimeout
		}
		if fc.Server.MaxSessions != 0 {
			config.Server.MaxSessions = fc.Server.MaxSessions
		}
	}
	if fc.History != nil {
		config.History.File = fc.History.File
	}
	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if _, err := log.ParseLevel(c.UI.LogLevel); err != nil {
		return fmt.Errorf("invalid log level: %s", c.UI.LogLevel)
	}
	if c.UI.LogFile == "" {
		return fmt.Errorf("log file is required")
	}
	if _, _, err := net.SplitHostPort(c.Server.Addr); err != nil {
		return fmt.Errorf("invalid server address %q: %w", c.Server.Addr, err)
	}
	if c.Server.IdleTimeout <= 0 {
		return fmt.Errorf("idle timeout must be positive")
	}
	if c.Server.MaxSessions <= 0 {
		return fmt.Errorf("max sessions must be positive")
	}
	return nil
}

// Level returns the parsed log level, falling back to info
func (c *Config) Level() log.Level {
	level, err := log.ParseLevel(c.UI.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// IdleTimeout returns the server idle timeout as a duration
func (c *Config) IdleTimeout() time.Duration {
	return time.Duration(c.Server.IdleTimeout) * time.Second
}
