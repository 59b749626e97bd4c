// Package cache manages the local archive cache where downloaded
// package files are kept between transactions.
package cache

import (
	"os"
	"path/filepath"

	"github.com/pakt-dev/pakt/pkg/errors"
)

// Manager cleans and inspects the archive cache.
type Manager struct {
	archiveDir string
	partialDir string
}

// NewManager creates a cache manager over the archive directory and its
// partial-download staging area.
func NewManager(archiveDir, partialDir string) *Manager {
	return &Manager{
		archiveDir: archiveDir,
		partialDir: partialDir,
	}
}

// CleanResult reports what a Clean call removed.
type CleanResult struct {
	ArchiveFreed int64
	PartialFreed int64
	FilesRemoved int
}

// TotalFreed returns the combined number of bytes freed.
func (r *CleanResult) TotalFreed() int64 {
	return r.ArchiveFreed + r.PartialFreed
}

// Info describes the current state of the archive cache.
type Info struct {
	Directory    string
	TotalSize    int64
	Files        int
	PartialSize  int64
	PartialFiles int
}

// Clean removes every cached archive and every leftover partial
// download. The directories themselves are kept. Subdirectories are
// left alone, so cleaning the archive dir does not descend into the
// partial dir nested inside it.
func (m *Manager) Clean() (*CleanResult, error) {
	result := &CleanResult{}

	freed, removed, err := cleanDir(m.archiveDir)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to clean archive cache")
	}
	result.ArchiveFreed = freed
	result.FilesRemoved += removed

	freed, removed, err = cleanDir(m.partialDir)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to clean partial downloads")
	}
	result.PartialFreed = freed
	result.FilesRemoved += removed

	return result, nil
}

// Info returns size and file counts for the cache.
func (m *Manager) Info() (*Info, error) {
	info := &Info{Directory: m.archiveDir}

	size, files, err := dirSize(m.archiveDir)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to inspect archive cache")
	}
	info.TotalSize = size
	info.Files = files

	size, files, err = dirSize(m.partialDir)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to inspect partial downloads")
	}
	info.PartialSize = size
	info.PartialFiles = files

	return info, nil
}

// cleanDir removes the regular files directly under dir and returns
// bytes freed and files removed. A missing directory is not an error.
func cleanDir(dir string) (int64, int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, 0, nil
		}
		return 0, 0, err
	}

	var freed int64
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		fi, err := entry.Info()
		if err != nil {
			return freed, removed, err
		}
		if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
			return freed, removed, err
		}
		freed += fi.Size()
		removed++
	}
	return freed, removed, nil
}

func dirSize(dir string) (int64, int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, 0, nil
		}
		return 0, 0, err
	}

	var size int64
	files := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		fi, err := entry.Info()
		if err != nil {
			return size, files, err
		}
		size += fi.Size()
		files++
	}
	return size, files, nil
}
