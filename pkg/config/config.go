// Package config handles loading, validating and saving the pakt
// configuration file. The configuration carries the policy knobs the
// transaction engine is constructed with (allow-unauthenticated, purge mode,
// proxy settings, confirmation bypass) so that no package reads global
// mutable state.
package config

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pakt-dev/pakt/pkg/errors"
	"github.com/pakt-dev/pakt/pkg/fsutil"
)

// FatalMode selects how the downloader treats an exhausted HTTP status
// failure: abort the whole batch or only fail the candidate.
type FatalMode string

const (
	// FatalOnStatus aborts the transaction when a candidate exhausts its
	// mirrors on an HTTP status error; such errors likely await the native
	// installer's own fetch too.
	FatalOnStatus FatalMode = "abort-on-status"
	// FatalNever records the candidate as failed and lets the native
	// installer retry on its own.
	FatalNever FatalMode = "failed-only"
)

// Config represents the application configuration.
type Config struct {
	Settings Settings `yaml:"settings"`
}

// Settings represents general application settings.
type Settings struct {
	// Output settings
	LogLevel string `yaml:"log_level"` // error, warn, info, debug
	NoColor  bool   `yaml:"no_color"`

	// Network settings
	HTTPTimeout time.Duration     `yaml:"http_timeout"`
	HostCeiling int               `yaml:"host_ceiling"` // max in-flight downloads per host
	Proxies     map[string]string `yaml:"proxies,omitempty"`
	UserAgent   string            `yaml:"user_agent,omitempty"`

	// Transaction policy
	AllowUnauthenticated bool      `yaml:"allow_unauthenticated"`
	AssumeYes            bool      `yaml:"assume_yes"`
	DownloadOnly         bool      `yaml:"download_only"`
	Purge                bool      `yaml:"purge"`
	AutoRemove           bool      `yaml:"auto_remove"`
	FatalMode            FatalMode `yaml:"fatal_mode"`

	// Directories and files
	ArchiveDir  string `yaml:"archive_dir,omitempty"`
	StateDir    string `yaml:"state_dir,omitempty"`
	HookDir     string `yaml:"hook_dir,omitempty"`
	HistoryFile string `yaml:"history_file,omitempty"`

	// External collaborators
	ResolverCmd  []string `yaml:"resolver_cmd,omitempty"`
	InstallerCmd []string `yaml:"installer_cmd,omitempty"`
}

// Default configuration values.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 20 * time.Second

	// DefaultHostCeiling caps in-flight downloads against a single mirror.
	DefaultHostCeiling = 3

	// YAMLIndent is the number of spaces to use for YAML indentation.
	YAMLIndent = 2
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Settings: Settings{
			LogLevel:    "info",
			HTTPTimeout: DefaultHTTPTimeout,
			HostCeiling: DefaultHostCeiling,
			FatalMode:   FatalOnStatus,
			UserAgent:   "pakt/1.0",
			ArchiveDir:  "/var/cache/pakt/archives",
			StateDir:    "/var/lib/pakt",
			HookDir:     "/etc/pakt/hooks",
		},
	}
}

// LoadConfig loads configuration from a file. A missing file yields the
// default configuration.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, errors.ErrEmptyConfigPath
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidConfigPath, err.Error())
	}

	file, err := os.Open(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, errors.Wrapf(err, "failed to open config file: %s", path)
	}
	defer func() { _ = file.Close() }()

	return LoadConfigFromReader(file)
}

// LoadConfigFromReader loads configuration from an io.Reader.
func LoadConfigFromReader(reader io.Reader) (*Config, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config data")
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(errors.ErrConfigParse, err.Error())
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// SaveConfig saves configuration to a file via a temporary file and rename.
func (c *Config) SaveConfig(path string) error {
	if path == "" {
		return errors.ErrEmptyConfigPath
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrap(errors.ErrInvalidConfigPath, err.Error())
	}

	if err := os.MkdirAll(filepath.Dir(absPath), fsutil.DirModeDefault); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}

	// Proxy URLs may embed credentials, so the file is not world-readable.
	tempPath := absPath + ".tmp"
	file, err := os.OpenFile(tempPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, fsutil.FileModeSecure)
	if err != nil {
		return errors.Wrap(err, "failed to create config file")
	}

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(YAMLIndent)
	if err := encoder.Encode(c); err != nil {
		_ = file.Close()
		_ = os.Remove(tempPath)
		return errors.Wrap(err, "failed to encode config")
	}
	_ = encoder.Close()
	_ = file.Close()

	if err := os.Rename(tempPath, absPath); err != nil {
		_ = os.Remove(tempPath)
		return errors.Wrap(err, "failed to replace config file")
	}
	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c == nil {
		return errors.ErrConfigValidation
	}
	if c.Settings.HTTPTimeout < 0 {
		return errors.Wrap(errors.ErrConfigValidation, "http_timeout cannot be negative")
	}
	if c.Settings.HostCeiling < 1 {
		return errors.Wrap(errors.ErrConfigValidation, "host_ceiling must be at least 1")
	}
	switch c.Settings.FatalMode {
	case FatalOnStatus, FatalNever:
	default:
		return errors.Wrapf(errors.ErrConfigValidation,
			"fatal_mode must be %q or %q", FatalOnStatus, FatalNever)
	}
	switch strings.ToLower(c.Settings.LogLevel) {
	case "error", "warn", "warning", "info", "debug":
	default:
		return errors.Wrap(errors.ErrConfigValidation, "log_level must be one of: error, warn, info, debug")
	}
	return nil
}

// GetDefaultConfigPath returns the path the CLI loads when --config is not
// given. PAKT_CONFIG overrides it.
func GetDefaultConfigPath() string {
	if path := os.Getenv("PAKT_CONFIG"); path != "" {
		return path
	}
	return "/etc/pakt/pakt.yaml"
}

// GetArchiveDir returns the directory completed downloads are moved into.
func (c *Config) GetArchiveDir() string {
	return c.Settings.ArchiveDir
}

// GetPartialDir returns the staging directory for in-flight downloads.
func (c *Config) GetPartialDir() string {
	return filepath.Join(c.Settings.ArchiveDir, "partial")
}

// GetHistoryPath returns the path of the transaction ledger.
func (c *Config) GetHistoryPath() string {
	if c.Settings.HistoryFile != "" {
		return c.Settings.HistoryFile
	}
	return filepath.Join(c.Settings.StateDir, "history.json")
}

// GetHookDir returns the directory transaction hook scripts are loaded from.
func (c *Config) GetHookDir() string {
	return c.Settings.HookDir
}

func (c *Config) applyDefaults() {
	defaults := DefaultConfig()

	if c.Settings.LogLevel == "" {
		c.Settings.LogLevel = defaults.Settings.LogLevel
	}
	if c.Settings.HTTPTimeout == 0 {
		c.Settings.HTTPTimeout = defaults.Settings.HTTPTimeout
	}
	if c.Settings.HostCeiling == 0 {
		c.Settings.HostCeiling = defaults.Settings.HostCeiling
	}
	if c.Settings.FatalMode == "" {
		c.Settings.FatalMode = defaults.Settings.FatalMode
	}
	if c.Settings.UserAgent == "" {
		c.Settings.UserAgent = defaults.Settings.UserAgent
	}
	if c.Settings.ArchiveDir == "" {
		c.Settings.ArchiveDir = defaults.Settings.ArchiveDir
	}
	if c.Settings.StateDir == "" {
		c.Settings.StateDir = defaults.Settings.StateDir
	}
	if c.Settings.HookDir == "" {
		c.Settings.HookDir = defaults.Settings.HookDir
	}
}
