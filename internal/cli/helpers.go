package cli

import (
	"os"

	"github.com/pakt-dev/pakt/internal/logger"
	"github.com/pakt-dev/pakt/internal/summary"
	"github.com/pakt-dev/pakt/pkg/classify"
	"github.com/pakt-dev/pakt/pkg/config"
	"github.com/pakt-dev/pakt/pkg/download"
	"github.com/pakt-dev/pakt/pkg/engine"
	"github.com/pakt-dev/pakt/pkg/errors"
	"github.com/pakt-dev/pakt/pkg/history"
	"github.com/pakt-dev/pakt/pkg/hooks"
	"github.com/pakt-dev/pakt/pkg/installer"
	"github.com/pakt-dev/pakt/pkg/mirror"
	"github.com/pakt-dev/pakt/pkg/progress"
	"github.com/pakt-dev/pakt/pkg/sysdb"
)

// These variables are set by the main package from global flags.
var (
	ConfigPath *string
	Verbose    *bool
	NoColor    *bool
)

func loadConfig() (*config.Config, error) {
	path := ""
	if ConfigPath != nil {
		path = *ConfigPath
	}
	if path == "" {
		path = config.GetDefaultConfigPath()
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load config from %s", path)
	}

	if Verbose != nil && *Verbose {
		cfg.Settings.LogLevel = "debug"
	}
	if NoColor != nil && *NoColor {
		cfg.Settings.NoColor = true
	}
	if cfg.Settings.NoColor {
		summary.DisableColor()
	}
	logger.InitLogger(cfg.Settings.LogLevel)
	return cfg, nil
}

// buildEngine assembles a transaction engine from the configuration.
// command is the argument vector recorded in the history ledger.
func buildEngine(cfg *config.Config, command []string) (*engine.Engine, error) {
	client := download.NewClient(cfg.Settings.HTTPTimeout, cfg.Settings.Proxies)

	manager := download.NewManager(download.Options{
		Client:      client,
		ArchiveDir:  cfg.GetArchiveDir(),
		PartialDir:  cfg.GetPartialDir(),
		HostCeiling: cfg.Settings.HostCeiling,
		FatalOnHTTP: cfg.Settings.FatalMode == config.FatalOnStatus,
		UserAgent:   cfg.Settings.UserAgent,
	})

	runner := hooks.NewRunner()
	if err := runner.LoadDir(cfg.GetHookDir()); err != nil {
		return nil, err
	}

	return &engine.Engine{
		DB:         sysdb.New(cfg.Settings.ResolverCmd),
		Installer:  installer.New(cfg.Settings.InstallerCmd),
		Downloader: manager,
		Mirrors:    mirror.NewResolver(client),
		History:    history.NewStore(cfg.GetHistoryPath()),
		Hooks:      runner,
		Confirmer:  engine.PromptConfirmer{},
		SinkFactory: func(total int64) progress.Sink {
			return progress.NewBar(total, "Downloading packages")
		},
		RenderSummary: func(s *classify.Summary) {
			summary.Render(os.Stdout, s)
		},
		ArchiveDir: cfg.GetArchiveDir(),
		Policy:     engine.PolicyFromConfig(cfg),
		Command:    command,
	}, nil
}
