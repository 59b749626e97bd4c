//go:generate mockgen -destination=./mocks/engine.go . PackageDB,Installer,Downloader,MirrorResolver,HistoryStore,Confirmer

// Package engine is the composition root of a transaction: it reads marked
// state from the package database, classifies it, asks for confirmation,
// downloads the archives and hands them to the native installer, then
// records the outcome in the history ledger.
package engine

import (
	"context"

	"github.com/pakt-dev/pakt/pkg/config"
	"github.com/pakt-dev/pakt/pkg/download"
	"github.com/pakt-dev/pakt/pkg/history"
	"github.com/pakt-dev/pakt/pkg/model"
	"github.com/pakt-dev/pakt/pkg/progress"
)

// PackageDB is the subset of the native resolver the engine depends on.
// Marking never changes the system; it only computes the pending state.
type PackageDB interface {
	MarkInstall(ctx context.Context, names []string) ([]*model.MarkedPackage, error)
	MarkRemove(ctx context.Context, names []string, autoRemove bool) ([]*model.MarkedPackage, error)
	// MarkUpgrade with no names marks every upgradable package.
	MarkUpgrade(ctx context.Context, names []string) ([]*model.MarkedPackage, error)
	MarkAutoRemove(ctx context.Context) ([]*model.MarkedPackage, error)
}

// Installer applies a computed transaction using the native tool.
type Installer interface {
	Apply(ctx context.Context, op model.OpKind, names []string, archives []string, purge bool) error
}

// Downloader fetches candidate archives into the archive directory.
type Downloader interface {
	Download(ctx context.Context, candidates []*model.Candidate, sink progress.Sink) (*download.Result, error)
}

// MirrorResolver expands mirror indirection URIs into concrete URLs.
type MirrorResolver interface {
	Resolve(ctx context.Context, uris []string, relPath string) ([]string, error)
}

// HistoryStore is the subset of the ledger the engine writes and replays.
type HistoryStore interface {
	Append(entry *history.Entry) (int, error)
	Get(id int) (*history.Entry, error)
	ResolveID(arg string) (int, error)
}

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(prompt string) (bool, error)
}

// Policy carries the per-run decision knobs, assembled from configuration
// and command-line flags. The engine never reads globals.
type Policy struct {
	AssumeYes            bool
	AllowUnauthenticated bool
	DownloadOnly         bool
	Purge                bool
	AutoRemove           bool
	AllowEssential       bool
	AllowProtected       bool
	FatalMode            config.FatalMode
}

// PolicyFromConfig seeds a policy from the configuration file; command
// flags override individual fields afterwards.
func PolicyFromConfig(cfg *config.Config) Policy {
	return Policy{
		AssumeYes:            cfg.Settings.AssumeYes,
		AllowUnauthenticated: cfg.Settings.AllowUnauthenticated,
		DownloadOnly:         cfg.Settings.DownloadOnly,
		Purge:                cfg.Settings.Purge,
		AutoRemove:           cfg.Settings.AutoRemove,
		FatalMode:            cfg.Settings.FatalMode,
	}
}
