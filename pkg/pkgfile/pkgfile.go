// Package pkgfile inspects local package archive files passed directly on
// the command line, extracting the metadata needed to treat them like
// repository candidates. No digest is available for a local file, so hash
// checking is skipped with a visible notice.
package pkgfile

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mholt/archives"

	"github.com/pakt-dev/pakt/internal/logger"
	"github.com/pakt-dev/pakt/pkg/errors"
	"github.com/pakt-dev/pakt/pkg/model"
)

const metadataPath = "meta/package.json"

var packageExtensions = []string{".pakt", ".tar.gz", ".tgz", ".tar.zst", ".tar.xz"}

// Metadata is the descriptor stored inside a package archive.
type Metadata struct {
	Name          string `json:"name"`
	Version       string `json:"version"`
	Architecture  string `json:"architecture"`
	InstalledSize int64  `json:"installed_size,omitempty"`
	Description   string `json:"description,omitempty"`
}

// Ref returns the package identity the metadata describes.
func (m *Metadata) Ref() model.PackageRef {
	return model.PackageRef{Name: m.Name, Arch: m.Architecture, Version: m.Version}
}

// IsPackageFile reports whether arg names an existing local package archive
// rather than a package name to resolve.
func IsPackageFile(arg string) bool {
	lower := strings.ToLower(arg)
	matched := false
	for _, ext := range packageExtensions {
		if strings.HasSuffix(lower, ext) {
			matched = true
			break
		}
	}
	if !matched {
		return false
	}
	info, err := os.Stat(arg)
	return err == nil && info.Mode().IsRegular()
}

// Inspect opens the archive and reads its embedded metadata.
func Inspect(ctx context.Context, path string) (*Metadata, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errors.Wrapf(errors.ErrFileMissing, "cannot read %s", path)
	}

	fsys, err := archives.FileSystem(ctx, path, nil)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNotAPackageFile, "%s is not a package archive: %v", path, err)
	}
	if closer, ok := fsys.(io.Closer); ok {
		defer closer.Close()
	}

	file, err := fsys.Open(metadataPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNoMetadata, "%s contains no package metadata", path)
	}
	defer file.Close()

	meta := &Metadata{}
	if err := json.NewDecoder(file).Decode(meta); err != nil {
		return nil, errors.Wrapf(errors.ErrNoMetadata, "%s has unreadable metadata: %v", path, err)
	}
	if meta.Name == "" || meta.Version == "" {
		return nil, errors.Wrapf(errors.ErrNoMetadata, "%s metadata is missing name or version", path)
	}
	return meta, nil
}

// Candidate turns a local archive into a download candidate whose only
// source is the file itself. The candidate carries no digest; the download
// layer accepts it without hash verification.
func Candidate(ctx context.Context, path string) (*model.Candidate, error) {
	meta, err := Inspect(ctx, path)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNotAPackageFile, "cannot read %s", path)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(err, "could not resolve package file path")
	}

	logger.Warnf("no digest available for local file %s, hash check will be skipped", filepath.Base(path))
	return &model.Candidate{
		Ref:           meta.Ref(),
		Filename:      filepath.Base(abs),
		Size:          info.Size(),
		InstalledSize: meta.InstalledSize,
		NoHash:        true,
		URIs:          []string{"file://" + abs},
		Trusted:       false,
	}, nil
}
