package download

import (
	"fmt"

	"github.com/pakt-dev/pakt/pkg/errors"
	"github.com/pakt-dev/pakt/pkg/model"
)

// ErrorKind classifies a download failure. The kind decides retry behavior:
// transport errors advance to the next mirror, a connection reset retries the
// same URL once first, integrity errors never retry the same URL, and status
// errors may escalate to a session-wide fatal failure.
type ErrorKind string

const (
	// KindTransport covers connect errors, timeouts, DNS failures and
	// protocol errors below the HTTP status level.
	KindTransport ErrorKind = "transport"
	// KindReset is a connection reset mid-stream; mirrors sometimes close
	// the connection without sending the complete body.
	KindReset ErrorKind = "reset"
	// KindStatus is a non-2xx HTTP response.
	KindStatus ErrorKind = "status"
	// KindHash is a digest mismatch after the full body was consumed.
	KindHash ErrorKind = "hash"
	// KindSize is a byte-count mismatch after the full body was consumed.
	KindSize ErrorKind = "size"
	// KindFile is a local filesystem failure while staging or committing.
	KindFile ErrorKind = "file"
)

// Error is a structured download failure for one URL of one candidate.
type Error struct {
	Kind     ErrorKind
	Ref      model.PackageRef
	URL      string
	Status   int    // HTTP status code, for KindStatus
	Expected string // for KindHash and KindSize
	Received string
	Err      error
}

// Error implements the error interface with the package name and an
// actionable message.
func (e *Error) Error() string {
	switch e.Kind {
	case KindHash:
		return fmt.Sprintf("hash sum does not match for %s\n  Expected: %s\n  Received: %s",
			e.Ref.Name, e.Expected, e.Received)
	case KindSize:
		return fmt.Sprintf("%s has unexpected size\n  Expected: %s\n  Received: %s",
			e.Ref.Name, e.Expected, e.Received)
	case KindStatus:
		return fmt.Sprintf("%s: %s returned status %d", e.Ref.Name, e.URL, e.Status)
	default:
		return fmt.Sprintf("%s: %s: %v", e.Ref.Name, e.URL, e.Err)
	}
}

// Unwrap maps the kind onto the shared sentinel errors so callers can use
// errors.Is without knowing this package's taxonomy.
func (e *Error) Unwrap() error {
	switch e.Kind {
	case KindHash:
		return errors.ErrFileHashMismatch
	case KindSize:
		return errors.ErrFileSizeMismatch
	default:
		if e.Err != nil {
			return e.Err
		}
		return errors.ErrDownloadFailed
	}
}

// Result is the outcome of one download session.
type Result struct {
	// Succeeded lists candidates whose archive is now present and verified,
	// including those satisfied by the pre-flight check.
	Succeeded []model.PackageRef
	// Failed lists candidates that exhausted every mirror.
	Failed []model.PackageRef
	// Fatal is set when a failure pattern indicates the native installer's
	// own fetch would hit the same wall, so falling back is pointless.
	Fatal bool
}
