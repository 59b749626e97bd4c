// Package hash implements streaming digest verification for downloaded
// archives. Only SHA-512 and SHA-256 are accepted for integrity checking;
// weaker digests are reported as untrustworthy rather than used.
package hash

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
	"strings"

	"github.com/pakt-dev/pakt/pkg/errors"
	"github.com/pakt-dev/pakt/pkg/model"
)

// chunkSize keeps memory use constant regardless of archive size.
const chunkSize = 4096

// acceptanceOrder lists the algorithms usable for acceptance, strongest
// first. MD5 and SHA-1 must never be used for security checking.
var acceptanceOrder = []string{"sha512", "sha256"}

// Select picks the strongest trustworthy digest out of the hash list the
// package metadata provides (algorithm name, case-insensitive, to hex value).
// When only weaker digests are available it returns ErrNoTrustedHash, which
// is fatal for the artifact.
func Select(available map[string]string) (model.Hash, error) {
	for _, algo := range acceptanceOrder {
		for name, value := range available {
			if strings.EqualFold(name, algo) && value != "" {
				return model.Hash{Algo: algo, Value: strings.ToLower(value)}, nil
			}
		}
	}
	return model.Hash{}, errors.ErrNoTrustedHash
}

func newHasher(algo string) (hash.Hash, error) {
	switch strings.ToLower(algo) {
	case "sha512":
		return sha512.New(), nil
	case "sha256":
		return sha256.New(), nil
	default:
		return nil, fmt.Errorf("%w: %s", errors.ErrNoTrustedHash, algo)
	}
}

// Verifier accumulates a digest and a byte count as data streams through it.
// It implements io.Writer so the downloader can hash while writing the
// partial file.
type Verifier struct {
	hasher   hash.Hash
	expected model.Hash
	written  int64
}

// NewVerifier returns a Verifier for the expected digest. The expected
// value must be a hex string of the algorithm's digest length.
func NewVerifier(expected model.Hash) (*Verifier, error) {
	hasher, err := newHasher(expected.Algo)
	if err != nil {
		return nil, err
	}
	decoded, err := hex.DecodeString(strings.ToLower(expected.Value))
	if err != nil || len(decoded) != hasher.Size() {
		return nil, fmt.Errorf("%w: %q is not a %s digest",
			errors.ErrImproperHashField, expected.Value, expected.Algo)
	}
	return &Verifier{hasher: hasher, expected: expected}, nil
}

// Write feeds data into the running digest.
func (v *Verifier) Write(p []byte) (int, error) {
	n, err := v.hasher.Write(p)
	v.written += int64(n)
	return n, err
}

// Sum returns the hex digest of everything written so far.
func (v *Verifier) Sum() string {
	return hex.EncodeToString(v.hasher.Sum(nil))
}

// OK reports whether the accumulated digest matches the expected value. The
// result is only meaningful after the full byte stream has been consumed;
// partial files must never be accepted.
func (v *Verifier) OK() bool {
	return v.Sum() == strings.ToLower(v.expected.Value)
}

// Written returns the number of bytes hashed.
func (v *Verifier) Written() int64 {
	return v.written
}

// Verify consumes r in fixed-size chunks and compares the digest against
// expected. It returns false on a mismatch; an error indicates an I/O
// failure or an untrustworthy algorithm, never a normal mismatch.
func Verify(r io.Reader, expected model.Hash) (bool, error) {
	v, err := NewVerifier(expected)
	if err != nil {
		return false, err
	}
	buf := make([]byte, chunkSize)
	if _, err := io.CopyBuffer(v, r, buf); err != nil {
		return false, fmt.Errorf("failed to read stream for hashing: %w", err)
	}
	return v.OK(), nil
}

// VerifyFile opens path and verifies its contents against expected.
func VerifyFile(path string, expected model.Hash) (bool, error) {
	file, err := os.Open(path)
	if err != nil {
		return false, fmt.Errorf("failed to open %s for hashing: %w", path, err)
	}
	defer func() { _ = file.Close() }()
	return Verify(file, expected)
}
