//go:build integration

package main

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

// testEnv is one self-contained pakt installation: a config file, cache and
// state directories, and shell-script fakes standing in for the native
// resolver and installer.
type testEnv struct {
	root       string
	configPath string
	archiveDir string
	stateDir   string
	requestLog string
	applyLog   string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("integration fixtures use shell scripts")
	}

	root := t.TempDir()
	env := &testEnv{
		root:       root,
		configPath: filepath.Join(root, "pakt.yaml"),
		archiveDir: filepath.Join(root, "archives"),
		stateDir:   filepath.Join(root, "state"),
		requestLog: filepath.Join(root, "resolver-requests.json"),
		applyLog:   filepath.Join(root, "installer.log"),
	}

	// The resolver fake replays a canned response per action and keeps the
	// last request for assertions.
	resolver := filepath.Join(root, "resolver.sh")
	writeScript(t, resolver, fmt.Sprintf(`#!/bin/sh
cat > %q
if grep -q '"action":"remove"' %q; then
  cat %q
else
  cat %q
fi
`, env.requestLog, env.requestLog, filepath.Join(root, "resp_remove.json"), filepath.Join(root, "resp_install.json")))

	installer := filepath.Join(root, "installer.sh")
	writeScript(t, installer, fmt.Sprintf("#!/bin/sh\necho \"$@\" >> %q\n", env.applyLog))

	config := fmt.Sprintf(`settings:
  log_level: error
  assume_yes: true
  archive_dir: %s
  state_dir: %s
  hook_dir: %s
  resolver_cmd: ["/bin/sh", %q]
  installer_cmd: ["/bin/sh", %q]
`, env.archiveDir, env.stateDir, filepath.Join(root, "hooks"), resolver, installer)
	require.NoError(t, os.WriteFile(env.configPath, []byte(config), 0o644))

	return env
}

func writeScript(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o755))
}

// seedResponses writes the canned resolver responses: an install transaction
// for one package served from baseURL, and the matching removal.
func (e *testEnv) seedResponses(t *testing.T, name, version, baseURL string, payload []byte) {
	t.Helper()

	sum := sha256.Sum256(payload)
	install := map[string]any{
		"packages": []map[string]any{{
			"name":           name,
			"arch":           "amd64",
			"version":        version,
			"marked":         "install",
			"download_size":  len(payload),
			"installed_size": 4 * len(payload),
			"candidate": map[string]any{
				"filename": fmt.Sprintf("%s_%s.deb", name, version),
				"size":     len(payload),
				"hashes":   map[string]string{"sha256": hex.EncodeToString(sum[:])},
				"uris":     []string{baseURL + "/pool/" + name + ".deb"},
				"trusted":  true,
			},
		}},
	}
	remove := map[string]any{
		"packages": []map[string]any{{
			"name":              name,
			"arch":              "amd64",
			"version":           version,
			"marked":            "delete",
			"installed_version": version,
			"installed_size":    4 * len(payload),
		}},
	}

	writeJSON(t, filepath.Join(e.root, "resp_install.json"), install)
	writeJSON(t, filepath.Join(e.root, "resp_remove.json"), remove)
}

func writeJSON(t *testing.T, path string, v any) {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

// runCommand executes one pakt invocation against the environment's config
// and returns captured stdout.
func (e *testEnv) runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	cmd := newRootCmd()
	cmd.SetArgs(append([]string{"--config", e.configPath}, args...))
	runErr := cmd.ExecuteContext(context.Background())

	_ = w.Close()
	os.Stdout = oldStdout

	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	return buf.String(), runErr
}
