// Package model provides the data structures shared between the transaction
// engine, the downloader, the classifier and the history store.
package model

import "fmt"

// PackageRef is the immutable identity of a package. Equality is
// name+version+arch, so it is usable as a map key.
type PackageRef struct {
	Name    string `json:"name"`
	Arch    string `json:"arch"`
	Version string `json:"version"`
}

// String renders the reference in the name:arch=version form used in
// user-facing error messages.
func (r PackageRef) String() string {
	if r.Arch == "" {
		return fmt.Sprintf("%s=%s", r.Name, r.Version)
	}
	return fmt.Sprintf("%s:%s=%s", r.Name, r.Arch, r.Version)
}

// Hash pairs a digest algorithm name with its expected hex value. Algorithm
// selection and verification live in pkg/hash.
type Hash struct {
	Algo  string `json:"algo"`
	Value string `json:"value"`
}

// Candidate is the download unit for one PackageRef: where the archive may be
// fetched from and how to verify it. Created when a transaction is computed
// and discarded after the install completes or fails.
type Candidate struct {
	Ref           PackageRef
	Filename      string   // target file name inside the archive directory
	Size          int64    // expected byte size of the archive
	InstalledSize int64    // on-disk size hint after installation
	Hash          Hash     // expected digest; ignored when NoHash is set
	NoHash        bool     // local files installed without a digest
	URIs          []string // candidate source URIs in preference order, pre mirror expansion
	RelPath       string   // repository-relative archive path, appended to mirror bases
	Trusted       bool     // backing archive is cryptographically signed
}
