package sysdb

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pakt-dev/pakt/pkg/errors"
	"github.com/pakt-dev/pakt/pkg/model"
)

// fakeResolver writes a shell script that captures its stdin and prints a
// canned JSON response.
func fakeResolver(t *testing.T, response string) (cmd []string, stdinFile string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fixture")
	}
	dir := t.TempDir()
	stdinFile = filepath.Join(dir, "stdin.json")
	script := filepath.Join(dir, "resolver.sh")
	body := "#!/bin/sh\ncat > " + stdinFile + "\ncat <<'EOF'\n" + response + "\nEOF\n"
	require.NoError(t, os.WriteFile(script, []byte(body), 0o755))
	return []string{script}, stdinFile
}

func TestMarkInstall(t *testing.T) {
	cmd, stdinFile := fakeResolver(t, `{
	  "packages": [{
	    "name": "htop", "arch": "amd64", "version": "3.2.2-2",
	    "marked": "install", "download_size": 1200, "installed_size": 3500,
	    "candidate": {
	      "filename": "htop_3.2.2-2_amd64.deb", "size": 1200,
	      "hashes": {"sha256": "aa", "md5": "bb"},
	      "uris": ["http://deb.example.org/pool/h/htop.deb"],
	      "relpath": "pool/h/htop.deb", "trusted": true
	    }
	  }]
	}`)

	db := New(cmd)
	marked, err := db.MarkInstall(context.Background(), []string{"htop"})
	require.NoError(t, err)
	require.Len(t, marked, 1)

	pkg := marked[0]
	assert.Equal(t, model.MarkInstall, pkg.Marked)
	assert.Equal(t, model.PackageRef{Name: "htop", Arch: "amd64", Version: "3.2.2-2"}, pkg.Ref)
	require.NotNil(t, pkg.Candidate)
	assert.Equal(t, "sha256", pkg.Candidate.Hash.Algo, "md5 is never selected")
	assert.Equal(t, "pool/h/htop.deb", pkg.Candidate.RelPath)
	assert.True(t, pkg.Candidate.Trusted)

	// The request went out as JSON on stdin.
	sent, err := os.ReadFile(stdinFile)
	require.NoError(t, err)
	assert.JSONEq(t, `{"action":"install","packages":["htop"]}`, string(sent))
}

func TestMarkRemoveRequest(t *testing.T) {
	cmd, stdinFile := fakeResolver(t, `{
	  "packages": [{
	    "name": "mc", "arch": "amd64", "version": "",
	    "marked": "delete", "installed_version": "4.8.29-2", "installed_size": 1000
	  }]
	}`)

	db := New(cmd)
	marked, err := db.MarkRemove(context.Background(), []string{"mc"}, true)
	require.NoError(t, err)
	require.Len(t, marked, 1)
	assert.Equal(t, model.MarkDelete, marked[0].Marked)
	assert.Equal(t, "4.8.29-2", marked[0].InstalledVersion)
	assert.Nil(t, marked[0].Candidate, "removals carry no download candidate")

	sent, err := os.ReadFile(stdinFile)
	require.NoError(t, err)
	assert.JSONEq(t, `{"action":"remove","packages":["mc"],"auto_remove":true}`, string(sent))
}

func TestMarkAutoRemoveRequest(t *testing.T) {
	cmd, stdinFile := fakeResolver(t, `{"packages": []}`)

	db := New(cmd)
	marked, err := db.MarkAutoRemove(context.Background())
	require.NoError(t, err)
	assert.Empty(t, marked)

	sent, err := os.ReadFile(stdinFile)
	require.NoError(t, err)
	assert.JSONEq(t, `{"action":"autoremove"}`, string(sent))
}

func TestResolverErrors(t *testing.T) {
	t.Run("package not found", func(t *testing.T) {
		cmd, _ := fakeResolver(t, `{"error": "package nonexistent not found"}`)
		_, err := New(cmd).MarkInstall(context.Background(), []string{"nonexistent"})
		assert.ErrorIs(t, err, errors.ErrPackageNotFound)
	})

	t.Run("generic resolver error", func(t *testing.T) {
		cmd, _ := fakeResolver(t, `{"error": "broken packages"}`)
		_, err := New(cmd).MarkInstall(context.Background(), []string{"x"})
		assert.ErrorIs(t, err, errors.ErrResolverFailed)
	})

	t.Run("weak hash only", func(t *testing.T) {
		cmd, _ := fakeResolver(t, `{
		  "packages": [{
		    "name": "x", "arch": "amd64", "version": "1", "marked": "install",
		    "candidate": {"filename": "x.deb", "size": 1,
		      "hashes": {"md5": "aa"}, "uris": ["http://e/x.deb"], "trusted": true}
		  }]
		}`)
		_, err := New(cmd).MarkInstall(context.Background(), []string{"x"})
		assert.ErrorIs(t, err, errors.ErrNoTrustedHash)
	})

	t.Run("unparseable output", func(t *testing.T) {
		cmd, _ := fakeResolver(t, `not json`)
		_, err := New(cmd).MarkInstall(context.Background(), []string{"x"})
		assert.Error(t, err)
	})

	t.Run("no command configured", func(t *testing.T) {
		_, err := New(nil).MarkInstall(context.Background(), []string{"x"})
		assert.ErrorIs(t, err, errors.ErrConfigValidation)
	})
}
