// Package errors defines the sentinel errors shared across pakt and small
// helpers for wrapping them with context. Callers compare with errors.Is.
package errors

import "fmt"

// Common error types.
var (
	// Config errors.
	ErrEmptyConfigPath   = fmt.Errorf("config file path cannot be empty")
	ErrInvalidConfigPath = fmt.Errorf("invalid config file path")
	ErrConfigParse       = fmt.Errorf("failed to parse config")
	ErrConfigValidation  = fmt.Errorf("invalid configuration")

	// Download errors.
	ErrDownloadFailed    = fmt.Errorf("download failed")
	ErrFileHashMismatch  = fmt.Errorf("file hash mismatch")
	ErrFileSizeMismatch  = fmt.Errorf("file has unexpected size")
	ErrFileMissing       = fmt.Errorf("downloaded file does not exist")
	ErrNoTrustedHash     = fmt.Errorf("no trustworthy hash available")
	ErrInvalidPath       = fmt.Errorf("invalid path")
	ErrMirrorListFetch   = fmt.Errorf("unable to fetch mirror list")
	ErrUnauthenticated   = fmt.Errorf("some packages could not be authenticated")
	ErrImproperHashField = fmt.Errorf("improper hash syntax")

	// Transaction errors.
	ErrEssentialRemoval = fmt.Errorf("removal of an essential package was requested")
	ErrProtectedRemoval = fmt.Errorf("removal of a protected package was requested")
	ErrNothingToDo      = fmt.Errorf("nothing to do")
	ErrPackageNotFound  = fmt.Errorf("package not found")
	ErrConfirmDeclined  = fmt.Errorf("transaction aborted by user")
	ErrInstallerFailed  = fmt.Errorf("installer reported failure")
	ErrResolverFailed   = fmt.Errorf("resolver reported failure")

	// History errors.
	ErrNoHistory            = fmt.Errorf("no history exists")
	ErrHistoryCorrupt       = fmt.Errorf("history file seems corrupt")
	ErrHistoryEntryNotFound = fmt.Errorf("transaction does not exist in the history")
	ErrUnsupportedOperation = fmt.Errorf("operations other than install or remove are not supported")

	// Hook errors.
	ErrHookScript    = fmt.Errorf("hook script error")
	ErrHookExecution = fmt.Errorf("error executing hook")

	// Package file errors.
	ErrNotAPackageFile = fmt.Errorf("file is not a package archive")
	ErrNoMetadata      = fmt.Errorf("package archive has no metadata")
)

// Wrap wraps an error with additional context.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf wraps an error with additional formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
