// Package installer applies a computed transaction by invoking the native
// package tool. Archives fetched by the downloader are passed along so the
// native tool does not fetch them again; anything missing it fetches itself.
package installer

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strings"

	"github.com/pakt-dev/pakt/internal/logger"
	"github.com/pakt-dev/pakt/pkg/errors"
	"github.com/pakt-dev/pakt/pkg/model"
)

// Exec runs the configured native installer command.
type Exec struct {
	command []string
}

// New creates an installer adapter. The first element of command is the
// executable, the rest are fixed leading arguments.
func New(command []string) *Exec {
	return &Exec{command: command}
}

// Apply invokes the native tool for the given operation. The command line
// is <cmd> <install|remove> [--purge] [--archive <path>]... <name>...
// Output streams through to the user's terminal; this is the one phase
// where the native tool owns the screen.
func (e *Exec) Apply(ctx context.Context, op model.OpKind, names, archives []string, purge bool) error {
	if len(e.command) == 0 {
		return errors.Wrap(errors.ErrConfigValidation, "no installer command configured")
	}

	args := append([]string{}, e.command[1:]...)
	args = append(args, string(op))
	if purge {
		args = append(args, "--purge")
	}
	for _, archive := range archives {
		args = append(args, "--archive", archive)
	}
	args = append(args, names...)

	cmd := exec.CommandContext(ctx, e.command[0], args...)
	cmd.Stdout = os.Stdout
	cmd.Stdin = os.Stdin
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	logger.Debug("invoking installer", logger.Fields{
		"command": e.command[0], "operation": string(op), "packages": len(names)})
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = err.Error()
		}
		return errors.Wrapf(errors.ErrInstallerFailed, "%s", detail)
	}
	return nil
}
