package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pakt-dev/pakt/pkg/errors"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultHostCeiling, cfg.Settings.HostCeiling)
	assert.Equal(t, FatalOnStatus, cfg.Settings.FatalMode)
	assert.Equal(t, "partial", filepath.Base(cfg.GetPartialDir()))
	assert.Equal(t, cfg.GetArchiveDir(), filepath.Dir(cfg.GetPartialDir()))
	assert.Equal(t, "history.json", filepath.Base(cfg.GetHistoryPath()))
}

func TestLoadConfig(t *testing.T) {
	t.Run("missing file returns defaults", func(t *testing.T) {
		cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig().Settings.HostCeiling, cfg.Settings.HostCeiling)
	})

	t.Run("empty path rejected", func(t *testing.T) {
		_, err := LoadConfig("")
		assert.ErrorIs(t, err, errors.ErrEmptyConfigPath)
	})

	t.Run("values and defaults merge", func(t *testing.T) {
		yaml := `
settings:
  log_level: debug
  host_ceiling: 5
  assume_yes: true
  proxies:
    http: http://proxy.internal:3128
`
		cfg, err := LoadConfigFromReader(strings.NewReader(yaml))
		require.NoError(t, err)
		assert.Equal(t, "debug", cfg.Settings.LogLevel)
		assert.Equal(t, 5, cfg.Settings.HostCeiling)
		assert.True(t, cfg.Settings.AssumeYes)
		assert.Equal(t, "http://proxy.internal:3128", cfg.Settings.Proxies["http"])
		// untouched fields keep defaults
		assert.Equal(t, DefaultHTTPTimeout, cfg.Settings.HTTPTimeout)
		assert.Equal(t, FatalOnStatus, cfg.Settings.FatalMode)
	})

	t.Run("invalid yaml is a parse error", func(t *testing.T) {
		_, err := LoadConfigFromReader(strings.NewReader("settings: ["))
		assert.ErrorIs(t, err, errors.ErrConfigParse)
	})

	t.Run("invalid fatal mode rejected", func(t *testing.T) {
		_, err := LoadConfigFromReader(strings.NewReader("settings:\n  fatal_mode: sometimes\n"))
		assert.ErrorIs(t, err, errors.ErrConfigValidation)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{name: "defaults are valid", mutate: func(*Config) {}, ok: true},
		{name: "negative timeout", mutate: func(c *Config) { c.Settings.HTTPTimeout = -time.Second }},
		{name: "zero host ceiling", mutate: func(c *Config) { c.Settings.HostCeiling = 0 }},
		{name: "bad log level", mutate: func(c *Config) { c.Settings.LogLevel = "loud" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, errors.ErrConfigValidation)
			}
		})
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "etc", "pakt.yaml")

	cfg := DefaultConfig()
	cfg.Settings.AllowUnauthenticated = true
	cfg.Settings.HistoryFile = filepath.Join(dir, "history.json")
	require.NoError(t, cfg.SaveConfig(path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.True(t, loaded.Settings.AllowUnauthenticated)
	assert.Equal(t, cfg.GetHistoryPath(), loaded.GetHistoryPath())

	// No stray temp file left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
}
