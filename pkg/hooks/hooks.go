// Package hooks runs administrator-provided Tengo scripts around committed
// transactions. Scripts live in the hook directory as
// <hook-type>.tengo; a missing script is simply skipped.
package hooks

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"

	"github.com/pakt-dev/pakt/pkg/errors"
	"github.com/pakt-dev/pakt/pkg/model"
)

// Type names a hook point in the transaction lifecycle.
type Type string

const (
	// PreTransaction runs after confirmation, before any download.
	PreTransaction Type = "pre-transaction"
	// PostTransaction runs after the installer reports success.
	PostTransaction Type = "post-transaction"
)

const scriptExtension = ".tengo"

// Context is the data bound into a hook script.
type Context struct {
	// Operation is "install" or "remove".
	Operation model.OpKind
	// Packages are the names the transaction touches.
	Packages []string
	// Purge reports whether configuration files are removed too.
	Purge bool
	// DownloadSize is the total archive size in bytes.
	DownloadSize int64
	// Vars are extra variables bound by the caller.
	Vars map[string]interface{}
}

// Runner holds loaded hook scripts and executes them on demand.
type Runner struct {
	mu      sync.RWMutex
	scripts map[Type]string
}

// NewRunner creates an empty hook runner.
func NewRunner() *Runner {
	return &Runner{scripts: make(map[Type]string)}
}

// LoadDir reads every recognized hook script from dir. A missing directory
// is not an error; a front-end without hooks is the common case.
func (r *Runner) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, "failed to read hook directory %s", dir)
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != scriptExtension {
			continue
		}
		hookType := Type(strings.TrimSuffix(entry.Name(), scriptExtension))
		switch hookType {
		case PreTransaction, PostTransaction:
		default:
			continue
		}
		content, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return errors.Wrapf(err, "failed to read hook file %s", entry.Name())
		}
		r.Add(hookType, string(content))
	}
	return nil
}

// Add registers or replaces the script for a hook point.
func (r *Runner) Add(hookType Type, script string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scripts[hookType] = script
}

// Has reports whether a script is registered for the hook point.
func (r *Runner) Has(hookType Type) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.scripts[hookType]
	return ok
}

// Run executes the script for hookType with the context bound in. A script
// signals failure by assigning a non-empty string or error to "err"; a
// pre-transaction failure aborts the transaction.
func (r *Runner) Run(hookType Type, ctx Context) error {
	r.mu.RLock()
	script, ok := r.scripts[hookType]
	r.mu.RUnlock()
	if !ok {
		return nil
	}

	instance := tengo.NewScript([]byte(script))
	instance.SetImports(stdlib.GetModuleMap("fmt", "os", "text", "times"))

	packages := make([]interface{}, len(ctx.Packages))
	for i, name := range ctx.Packages {
		packages[i] = name
	}
	_ = instance.Add("operation", string(ctx.Operation))
	_ = instance.Add("packages", packages)
	_ = instance.Add("purge", ctx.Purge)
	_ = instance.Add("downloadSize", ctx.DownloadSize)
	for k, v := range ctx.Vars {
		_ = instance.Add(k, v)
	}

	compiled, err := instance.Run()
	if err != nil {
		return errors.Wrapf(errors.ErrHookExecution, "%s: %v", hookType, err)
	}

	if errVar := compiled.Get("err"); errVar != nil {
		switch v := errVar.Value().(type) {
		case error:
			return errors.Wrapf(errors.ErrHookScript, "%s: %s", hookType, v.Error())
		case string:
			if v != "" {
				return errors.Wrapf(errors.ErrHookScript, "%s: %s", hookType, v)
			}
		}
	}
	return nil
}
