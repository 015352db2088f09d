package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFile(t *testing.T) {
	config, err := Load(filepath.Join(t.TempDir(), "missing.hcl"))
	require.NoError(t, err)
	assert.Equal(t, Default(), config)
	assert.NoError(t, config.Validate())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blackjack.hcl")
	src := `
game {
  seed = 42
}

ui {
  log_level = "debug"
  log_file  = "/tmp/bj.log"
  no_color  = true
}

server {
  addr         = "127.0.0.1:9000"
  idle_timeout = 60
  max_sessions = 8
}

history {
  file = "rounds.json"
}
`
	require.NoError(t, os.WriteFile(path, []byte(src), 0644))

	config, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, config.Validate())

	assert.Equal(t, int64(42), config.Game.Seed)
	assert.Equal(t, log.DebugLevel, config.Level())
	assert.Equal(t, "/tmp/bj.log", config.UI.LogFile)
	assert.True(t, config.UI.NoColor)
	assert.Equal(t, "127.0.0.1:9000", config.Server.Addr)
	assert.Equal(t, time.Minute, config.IdleTimeout())
	assert.Equal(t, 8, config.Server.MaxSessions)
	assert.Equal(t, "rounds.json", config.History.File)
}

func TestParsePartialKeepsDefaults(t *testing.T) {
	config, err := Parse([]byte(`
server {
  max_sessions = 2
}
`), "partial.hcl")
	require.NoError(t, err)

	defaults := Default()
	assert.Equal(t, 2, config.Server.MaxSessions)
	assert.Equal(t, defaults.Server.Addr, config.Server.Addr)
	assert.Equal(t, defaults.Server.IdleTimeout, config.Server.IdleTimeout)
	assert.Equal(t, defaults.UI, config.UI)
	assert.Zero(t, config.Game.Seed)
	assert.Empty(t, config.History.File)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"syntax", `game {`},
		{"unknown block", "dealer {\n  soft17 = true\n}\n"},
		{"wrong type", "server {\n  max_sessions = \"lots\"\n}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src), "bad.hcl")
			assert.Error(t, err)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		errMsg string
	}{
		{"log level", func(c *Config) { c.UI.LogLevel = "loud" }, "invalid log level"},
		{"log file", func(c *Config) { c.UI.LogFile = "" }, "log file is required"},
		{"addr", func(c *Config) { c.Server.Addr = "8080" }, "invalid server address"},
		{"idle timeout", func(c *Config) { c.Server.IdleTimeout = 0 }, "idle timeout"},
		{"max sessions", func(c *Config) { c.Server.MaxSessions = -1 }, "max sessions"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := Default()
			tt.modify(config)
			assert.ErrorContains(t, config.Validate(), tt.errMsg)
		})
	}
}

func TestLevelFallback(t *testing.T) {
	config := Default()
	config.UI.LogLevel = "nonsense"
	assert.Equal(t, log.InfoLevel, config.Level())
}
