// Package classify turns the resolver's marked package state into a
// transaction summary: every touched package lands in exactly one bucket,
// with aggregate size figures for the confirmation prompt and the history
// ledger.
package classify

import (
	"strings"

	goversion "github.com/hashicorp/go-version"

	"github.com/pakt-dev/pakt/internal/logger"
	"github.com/pakt-dev/pakt/pkg/errors"
	"github.com/pakt-dev/pakt/pkg/model"
)

// Options gate the hard-stop paths.
type Options struct {
	// AllowEssential permits removal of essential packages. Off by default;
	// the whole transaction is rejected when an essential package is marked
	// for deletion without it.
	AllowEssential bool
	// AllowProtected permits removal of packages the administrator pinned as
	// protected.
	AllowProtected bool
}

// Summary is the classified outcome of one pending transaction.
type Summary struct {
	Installed   []model.PackageChange
	Reinstalled []model.PackageChange
	Upgraded    []model.PackageChange
	Downgraded  []model.PackageChange
	Removed     []model.PackageChange
	AutoRemoved []model.PackageChange

	// DownloadSize is the total archive size of everything to fetch.
	DownloadSize int64
	// SpaceChange is the net change in installed size; negative frees space.
	SpaceChange int64
}

// Altered is the total number of packages the transaction touches.
func (s *Summary) Altered() int {
	return len(s.Installed) + len(s.Reinstalled) + len(s.Upgraded) +
		len(s.Downgraded) + len(s.Removed) + len(s.AutoRemoved)
}

// Empty reports whether the transaction would change nothing.
func (s *Summary) Empty() bool {
	return s.Altered() == 0
}

// Classify places every marked package into exactly one bucket. Essential or
// protected packages marked for deletion reject the whole transaction before
// any bucket is filled; nothing is silently filtered.
func Classify(marked []*model.MarkedPackage, opts Options) (*Summary, error) {
	for _, pkg := range marked {
		if pkg.Marked != model.MarkDelete {
			continue
		}
		if pkg.Essential && !opts.AllowEssential {
			return nil, errors.Wrapf(errors.ErrEssentialRemoval,
				"refusing to remove essential package %s", pkg.Ref.Name)
		}
		if pkg.Protected && !opts.AllowProtected {
			return nil, errors.Wrapf(errors.ErrProtectedRemoval,
				"refusing to remove protected package %s", pkg.Ref.Name)
		}
	}

	summary := &Summary{}
	for _, pkg := range marked {
		switch pkg.Marked {
		case model.MarkDelete:
			change := model.PackageChange{
				Name:    pkg.Ref.Name,
				Version: pkg.InstalledVersion,
				Size:    pkg.InstalledSize,
			}
			if pkg.AutoOrphaned {
				summary.AutoRemoved = append(summary.AutoRemoved, change)
			} else {
				summary.Removed = append(summary.Removed, change)
			}
			summary.SpaceChange -= pkg.InstalledSize

		case model.MarkInstall:
			change := model.PackageChange{
				Name:    pkg.Ref.Name,
				Version: pkg.Ref.Version,
				Size:    pkg.DownloadSize,
			}
			summary.DownloadSize += pkg.DownloadSize

			switch {
			case pkg.InstalledVersion == "":
				summary.Installed = append(summary.Installed, change)
				summary.SpaceChange += pkg.InstalledSize
			case pkg.InstalledVersion == pkg.Ref.Version:
				summary.Reinstalled = append(summary.Reinstalled, change)
			default:
				change.OldVersion = pkg.InstalledVersion
				if CompareVersions(pkg.Ref.Version, pkg.InstalledVersion) >= 0 {
					summary.Upgraded = append(summary.Upgraded, change)
				} else {
					summary.Downgraded = append(summary.Downgraded, change)
				}
				summary.SpaceChange += pkg.InstalledSize
			}
		}
	}
	return summary, nil
}

// CompareVersions orders two package version strings by their semantic
// content, never by plain string comparison. Returns -1, 0 or 1 as a is
// less than, equal to or greater than b.
func CompareVersions(a, b string) int {
	va, errA := goversion.NewVersion(normalizeVersion(a))
	vb, errB := goversion.NewVersion(normalizeVersion(b))
	if errA != nil || errB != nil {
		// Unparseable vendor versions are rare; fall back to lexical order
		// of the normalized strings.
		logger.Debug("falling back to loose version comparison",
			logger.Fields{"a": a, "b": b})
		return strings.Compare(normalizeVersion(a), normalizeVersion(b))
	}
	return va.Compare(vb)
}

// normalizeVersion strips distribution decorations (epoch prefix, packaging
// revision, tilde pre-release marker) so the remainder parses as a plain
// dotted version.
func normalizeVersion(v string) string {
	if idx := strings.Index(v, ":"); idx >= 0 {
		v = v[idx+1:]
	}
	if idx := strings.Index(v, "-"); idx >= 0 {
		v = v[:idx]
	}
	if idx := strings.Index(v, "~"); idx >= 0 {
		v = v[:idx]
	}
	if idx := strings.Index(v, "+"); idx >= 0 {
		v = v[:idx]
	}
	return v
}
