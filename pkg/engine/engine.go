package engine

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/pakt-dev/pakt/internal/logger"
	"github.com/pakt-dev/pakt/pkg/classify"
	"github.com/pakt-dev/pakt/pkg/errors"
	"github.com/pakt-dev/pakt/pkg/history"
	"github.com/pakt-dev/pakt/pkg/hooks"
	"github.com/pakt-dev/pakt/pkg/model"
	"github.com/pakt-dev/pakt/pkg/pkgfile"
	"github.com/pakt-dev/pakt/pkg/progress"
)

// Engine ties the package database, mirror resolver, downloader, installer,
// hooks and history together for one transaction at a time. Collaborators
// are exported fields so callers wire only what a command needs.
type Engine struct {
	DB         PackageDB
	Installer  Installer
	Downloader Downloader
	Mirrors    MirrorResolver
	History    HistoryStore
	Hooks      *hooks.Runner
	Confirmer  Confirmer

	// Sink receives progress events. SinkFactory, when set, builds a fresh
	// sink per download batch with the total byte count known up front.
	Sink        progress.Sink
	SinkFactory func(total int64) progress.Sink

	// RenderSummary prints the pending transaction before confirmation.
	RenderSummary func(*classify.Summary)

	ArchiveDir string
	Policy     Policy
	// Command is the argument vector recorded in history entries.
	Command []string
}

// Install marks the named packages (or local archive files) for
// installation and drives the transaction to completion.
func (e *Engine) Install(ctx context.Context, args []string) error {
	names, locals, err := e.splitLocalFiles(ctx, args)
	if err != nil {
		return err
	}

	var marked []*model.MarkedPackage
	if len(names) > 0 {
		marked, err = e.DB.MarkInstall(ctx, names)
		if err != nil {
			return err
		}
	}
	for _, cand := range locals {
		marked = append(marked, &model.MarkedPackage{
			Ref:           cand.Ref,
			Marked:        model.MarkInstall,
			DownloadSize:  cand.Size,
			InstalledSize: cand.InstalledSize,
			Candidate:     cand,
		})
	}
	return e.run(ctx, marked, model.OpInstall)
}

// Remove marks the named packages for removal.
func (e *Engine) Remove(ctx context.Context, names []string) error {
	marked, err := e.DB.MarkRemove(ctx, names, e.Policy.AutoRemove)
	if err != nil {
		return err
	}
	return e.run(ctx, marked, model.OpRemove)
}

// Upgrade marks the named packages for upgrade, or everything upgradable
// when names is empty. Upgrade entries are recorded but cannot be undone.
func (e *Engine) Upgrade(ctx context.Context, names []string) error {
	marked, err := e.DB.MarkUpgrade(ctx, names)
	if err != nil {
		return err
	}
	return e.run(ctx, marked, model.OpUpgrade)
}

// Autoremove removes every package that was installed as a dependency and
// is no longer required.
func (e *Engine) Autoremove(ctx context.Context) error {
	marked, err := e.DB.MarkAutoRemove(ctx)
	if err != nil {
		return err
	}
	return e.run(ctx, marked, model.OpRemove)
}

// Undo replays the inverse of a recorded transaction.
func (e *Engine) Undo(ctx context.Context, idArg string) error {
	return e.replay(ctx, idArg, true)
}

// Redo repeats a recorded transaction in its original direction.
func (e *Engine) Redo(ctx context.Context, idArg string) error {
	return e.replay(ctx, idArg, false)
}

func (e *Engine) replay(ctx context.Context, idArg string, inverse bool) error {
	id, err := e.History.ResolveID(idArg)
	if err != nil {
		return err
	}
	entry, err := e.History.Get(id)
	if err != nil {
		return err
	}

	var op model.Operation
	if inverse {
		op, err = entry.Undo()
	} else {
		op, err = entry.Redo()
	}
	if err != nil {
		return err
	}

	// An entry recorded with purge warns before re-running with purge
	// enabled; the user can opt out.
	if op.Purge && !e.Policy.Purge {
		logger.Warnf("transaction %d was a purge", id)
		keep, err := e.confirm("Do you want to continue with purge enabled?")
		if err != nil {
			return err
		}
		op.Purge = keep
	}

	saved := e.Policy.Purge
	e.Policy.Purge = op.Purge
	defer func() { e.Policy.Purge = saved }()

	switch op.Kind {
	case model.OpInstall:
		return e.Install(ctx, op.Packages)
	case model.OpRemove:
		return e.Remove(ctx, op.Packages)
	default:
		return errors.Wrapf(errors.ErrUnsupportedOperation,
			"cannot replay operation %q", op.Kind)
	}
}

// run drives a marked transaction through classify, confirm, download,
// install and record. Nothing is committed before the confirmation; the
// history ledger is only written after the installer reports success.
func (e *Engine) run(ctx context.Context, marked []*model.MarkedPackage, op model.OpKind) error {
	summary, err := classify.Classify(marked, classify.Options{
		AllowEssential: e.Policy.AllowEssential,
		AllowProtected: e.Policy.AllowProtected,
	})
	if err != nil {
		return err
	}
	if summary.Empty() {
		return errors.ErrNothingToDo
	}

	candidates := collectCandidates(marked)
	if err := e.checkTrust(candidates); err != nil {
		return err
	}

	if e.RenderSummary != nil {
		e.RenderSummary(summary)
	}
	ok, err := e.confirm("Do you want to continue?")
	if err != nil {
		return err
	}
	if !ok {
		return errors.ErrConfirmDeclined
	}

	names := summaryNames(summary)
	if e.Hooks != nil {
		err := e.Hooks.Run(hooks.PreTransaction, hooks.Context{
			Operation:    applyKind(op),
			Packages:     names,
			Purge:        e.Policy.Purge,
			DownloadSize: summary.DownloadSize,
		})
		if err != nil {
			return err
		}
	}

	archives, err := e.fetch(ctx, candidates)
	if err != nil {
		return err
	}
	if e.Policy.DownloadOnly {
		logger.Infof("download complete, %d archive(s) in %s", len(archives), e.ArchiveDir)
		return nil
	}

	if err := e.Installer.Apply(ctx, applyKind(op), names, archives, e.Policy.Purge); err != nil {
		return errors.Wrap(err, "native installer failed")
	}

	if e.Hooks != nil {
		err := e.Hooks.Run(hooks.PostTransaction, hooks.Context{
			Operation:    applyKind(op),
			Packages:     names,
			Purge:        e.Policy.Purge,
			DownloadSize: summary.DownloadSize,
		})
		if err != nil {
			// The transaction is already committed; a post hook failure
			// cannot roll it back.
			logger.Errorf("post-transaction hook failed: %v", err)
		}
	}

	if e.History != nil {
		entry := history.NewEntry(e.Command, op, e.Policy.Purge, summary)
		if _, err := e.History.Append(entry); err != nil {
			return errors.Wrap(err, "transaction applied but could not be recorded")
		}
	}
	return nil
}

// fetch expands mirror indirections, downloads every remote candidate and
// returns the local paths of all available archives. A fatal download
// session aborts instead of falling back to the installer's own fetch.
func (e *Engine) fetch(ctx context.Context, candidates []*model.Candidate) ([]string, error) {
	var archives []string
	remote := make([]*model.Candidate, 0, len(candidates))
	for _, cand := range candidates {
		if path, ok := localPath(cand); ok {
			archives = append(archives, path)
			continue
		}
		urls, err := e.Mirrors.Resolve(ctx, cand.URIs, relPath(cand))
		if err != nil {
			return nil, err
		}
		cand.URIs = urls
		remote = append(remote, cand)
	}

	if len(remote) == 0 {
		return archives, nil
	}

	sink := e.Sink
	if e.SinkFactory != nil {
		var total int64
		for _, cand := range remote {
			total += cand.Size
		}
		sink = e.SinkFactory(total)
	}
	if sink == nil {
		sink = progress.Nop{}
	}
	result, err := e.Downloader.Download(ctx, remote, sink)
	if err != nil {
		return nil, err
	}
	if result.Fatal {
		return nil, errors.Wrap(errors.ErrDownloadFailed,
			"a mirror rejected the request outright, the native tool would hit the same wall; try another mirror")
	}
	if len(result.Failed) > 0 {
		failed := make([]string, len(result.Failed))
		for i, ref := range result.Failed {
			failed[i] = ref.Name
		}
		logger.Warnf("could not fetch %s, the native tool will fetch it during install",
			strings.Join(failed, ", "))
	}

	byRef := make(map[model.PackageRef]*model.Candidate, len(remote))
	for _, cand := range remote {
		byRef[cand.Ref] = cand
	}
	for _, ref := range result.Succeeded {
		if cand, ok := byRef[ref]; ok {
			archives = append(archives, filepath.Join(e.ArchiveDir, cand.Filename))
		}
	}
	return archives, nil
}

// checkTrust rejects the transaction when any candidate's archive is not
// cryptographically signed, unless policy explicitly allows it. Local files
// without a digest already warned at inspection time.
func (e *Engine) checkTrust(candidates []*model.Candidate) error {
	var untrusted []string
	for _, cand := range candidates {
		if !cand.Trusted && !cand.NoHash {
			untrusted = append(untrusted, cand.Ref.Name)
		}
	}
	if len(untrusted) == 0 {
		return nil
	}
	if !e.Policy.AllowUnauthenticated {
		return errors.Wrapf(errors.ErrUnauthenticated,
			"refusing to install untrusted packages: %s", strings.Join(untrusted, ", "))
	}
	logger.Warnf("installing untrusted packages: %s", strings.Join(untrusted, ", "))
	return nil
}

func (e *Engine) confirm(prompt string) (bool, error) {
	if e.Policy.AssumeYes || e.Confirmer == nil {
		return true, nil
	}
	return e.Confirmer.Confirm(prompt)
}

// splitLocalFiles partitions install arguments into package names and local
// archive files, inspecting the latter for metadata.
func (e *Engine) splitLocalFiles(ctx context.Context, args []string) ([]string, []*model.Candidate, error) {
	var names []string
	var locals []*model.Candidate
	for _, arg := range args {
		if !pkgfile.IsPackageFile(arg) {
			names = append(names, arg)
			continue
		}
		cand, err := pkgfile.Candidate(ctx, arg)
		if err != nil {
			return nil, nil, err
		}
		locals = append(locals, cand)
	}
	return names, locals, nil
}

func collectCandidates(marked []*model.MarkedPackage) []*model.Candidate {
	var out []*model.Candidate
	for _, pkg := range marked {
		if pkg.Marked == model.MarkInstall && pkg.Candidate != nil {
			out = append(out, pkg.Candidate)
		}
	}
	return out
}

func summaryNames(summary *classify.Summary) []string {
	var out []string
	for _, bucket := range [][]model.PackageChange{
		summary.Installed, summary.Reinstalled, summary.Upgraded,
		summary.Downgraded, summary.Removed, summary.AutoRemoved,
	} {
		for _, change := range bucket {
			out = append(out, change.Name)
		}
	}
	return out
}

// applyKind is the direction handed to the installer and the hooks: an
// upgrade applies in the install direction.
func applyKind(op model.OpKind) model.OpKind {
	if op == model.OpRemove {
		return model.OpRemove
	}
	return model.OpInstall
}

func localPath(cand *model.Candidate) (string, bool) {
	if len(cand.URIs) == 1 && strings.HasPrefix(cand.URIs[0], "file://") {
		return strings.TrimPrefix(cand.URIs[0], "file://"), true
	}
	return "", false
}

func relPath(cand *model.Candidate) string {
	if cand.RelPath != "" {
		return cand.RelPath
	}
	return cand.Filename
}
