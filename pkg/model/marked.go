package model

// MarkKind is the state the external resolver left a package in.
type MarkKind string

const (
	// MarkInstall covers new installs, upgrades, downgrades and reinstalls;
	// the classifier tells them apart by comparing versions.
	MarkInstall MarkKind = "install"
	// MarkDelete covers removals and autoremovals.
	MarkDelete MarkKind = "delete"
)

// MarkedPackage is one package whose state the external resolver changed,
// together with the candidate metadata the transaction needs.
type MarkedPackage struct {
	Ref              PackageRef // candidate identity (name, arch, candidate version)
	Marked           MarkKind
	InstalledVersion string // empty when the package was not previously installed
	DownloadSize     int64
	InstalledSize    int64
	AutoOrphaned     bool // installed as a dependency and no longer required
	Essential        bool
	Protected        bool
	Candidate        *Candidate // nil for removals
}

// PackageChange is one row of a transaction summary or history record.
type PackageChange struct {
	Name       string
	Version    string // the new version, or the removed version for removals
	OldVersion string // set for upgrades and downgrades only
	Size       int64
}
