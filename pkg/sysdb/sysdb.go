// Package sysdb adapts the native package manager's resolver to the
// engine's PackageDB interface. The resolver is a separate executable
// speaking a one-shot JSON protocol: one request on stdin, one response on
// stdout. Marking never mutates the system; the resolver only reports what
// a transaction would change.
package sysdb

import (
	"bytes"
	"context"
	"encoding/json"
	"os/exec"
	"strings"

	"github.com/pakt-dev/pakt/internal/logger"
	"github.com/pakt-dev/pakt/pkg/errors"
	"github.com/pakt-dev/pakt/pkg/hash"
	"github.com/pakt-dev/pakt/pkg/model"
)

// DB shells out to the configured resolver command.
type DB struct {
	command []string
}

// New creates an adapter running the given resolver command. The first
// element is the executable, the rest are fixed arguments.
func New(command []string) *DB {
	return &DB{command: command}
}

type request struct {
	Action     string   `json:"action"`
	Packages   []string `json:"packages,omitempty"`
	AutoRemove bool     `json:"auto_remove,omitempty"`
}

type response struct {
	Error    string        `json:"error,omitempty"`
	Packages []wirePackage `json:"packages"`
}

type wirePackage struct {
	Name             string        `json:"name"`
	Arch             string        `json:"arch"`
	Version          string        `json:"version"`
	Marked           string        `json:"marked"` // "install" or "delete"
	InstalledVersion string        `json:"installed_version,omitempty"`
	DownloadSize     int64         `json:"download_size,omitempty"`
	InstalledSize    int64         `json:"installed_size,omitempty"`
	AutoOrphaned     bool          `json:"auto_orphaned,omitempty"`
	Essential        bool          `json:"essential,omitempty"`
	Protected        bool          `json:"protected,omitempty"`
	Candidate        *wireCandidate `json:"candidate,omitempty"`
}

type wireCandidate struct {
	Filename string            `json:"filename"`
	Size     int64             `json:"size"`
	Hashes   map[string]string `json:"hashes,omitempty"`
	URIs     []string          `json:"uris"`
	RelPath  string            `json:"relpath,omitempty"`
	Trusted  bool              `json:"trusted"`
}

// MarkInstall asks the resolver what installing the named packages changes.
func (d *DB) MarkInstall(ctx context.Context, names []string) ([]*model.MarkedPackage, error) {
	return d.mark(ctx, request{Action: "install", Packages: names})
}

// MarkRemove asks the resolver what removing the named packages changes.
func (d *DB) MarkRemove(ctx context.Context, names []string, autoRemove bool) ([]*model.MarkedPackage, error) {
	return d.mark(ctx, request{Action: "remove", Packages: names, AutoRemove: autoRemove})
}

// MarkUpgrade asks the resolver what upgrading changes; no names means a
// full upgrade.
func (d *DB) MarkUpgrade(ctx context.Context, names []string) ([]*model.MarkedPackage, error) {
	return d.mark(ctx, request{Action: "upgrade", Packages: names})
}

// MarkAutoRemove asks the resolver for the orphaned dependency set.
func (d *DB) MarkAutoRemove(ctx context.Context) ([]*model.MarkedPackage, error) {
	return d.mark(ctx, request{Action: "autoremove"})
}

func (d *DB) mark(ctx context.Context, req request) ([]*model.MarkedPackage, error) {
	if len(d.command) == 0 {
		return nil, errors.Wrap(errors.ErrConfigValidation, "no resolver command configured")
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, errors.Wrap(err, "could not encode resolver request")
	}

	cmd := exec.CommandContext(ctx, d.command[0], d.command[1:]...)
	cmd.Stdin = bytes.NewReader(payload)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger.Debug("invoking resolver", logger.Fields{
		"command": strings.Join(d.command, " "), "action": req.Action})
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.Wrapf(err, "resolver failed: %s",
			strings.TrimSpace(stderr.String()))
	}

	var resp response
	if err := json.Unmarshal(stdout.Bytes(), &resp); err != nil {
		return nil, errors.Wrapf(err, "resolver returned unparseable output")
	}
	if resp.Error != "" {
		if strings.Contains(strings.ToLower(resp.Error), "not found") {
			return nil, errors.Wrap(errors.ErrPackageNotFound, resp.Error)
		}
		return nil, errors.Wrapf(errors.ErrResolverFailed, "%s", resp.Error)
	}

	marked := make([]*model.MarkedPackage, 0, len(resp.Packages))
	for _, pkg := range resp.Packages {
		converted, err := convert(pkg)
		if err != nil {
			return nil, err
		}
		marked = append(marked, converted)
	}
	return marked, nil
}

func convert(pkg wirePackage) (*model.MarkedPackage, error) {
	ref := model.PackageRef{Name: pkg.Name, Arch: pkg.Arch, Version: pkg.Version}
	out := &model.MarkedPackage{
		Ref:              ref,
		InstalledVersion: pkg.InstalledVersion,
		DownloadSize:     pkg.DownloadSize,
		InstalledSize:    pkg.InstalledSize,
		AutoOrphaned:     pkg.AutoOrphaned,
		Essential:        pkg.Essential,
		Protected:        pkg.Protected,
	}

	switch pkg.Marked {
	case "install":
		out.Marked = model.MarkInstall
	case "delete":
		out.Marked = model.MarkDelete
	default:
		return nil, errors.Wrapf(errors.ErrUnsupportedOperation,
			"resolver marked %s as %q", pkg.Name, pkg.Marked)
	}

	if pkg.Candidate != nil {
		selected, err := hash.Select(pkg.Candidate.Hashes)
		if err != nil {
			return nil, errors.Wrapf(err, "package %s", pkg.Name)
		}
		out.Candidate = &model.Candidate{
			Ref:           ref,
			Filename:      pkg.Candidate.Filename,
			Size:          pkg.Candidate.Size,
			InstalledSize: pkg.InstalledSize,
			Hash:          selected,
			URIs:          pkg.Candidate.URIs,
			RelPath:       pkg.Candidate.RelPath,
			Trusted:       pkg.Candidate.Trusted,
		}
	}
	return out, nil
}
