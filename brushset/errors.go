package brushset

import (
	"errors"
	"fmt"
)

// Sentinel errors for package brushset.
// These errors can be checked with errors.Is() through a *PathError.
var (
	// Source errors
	ErrNotFound          = errors.New("not found")
	ErrExpectedDirectory = errors.New("expected directory but got file")
	ErrExpectedFile      = errors.New("expected file but got directory")

	// Nothing to package. Callers treat this as a skip, not a failure.
	ErrEmpty = errors.New("nothing to package")

	// Archive and metadata errors
	ErrIO              = errors.New("i/o failure")
	ErrExists          = errors.New("archive already exists")
	ErrInvalidMetadata = errors.New("invalid metadata")
)

// PathError records the operation and the path an error happened on.
type PathError struct {
	Op   string
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PathError) Unwrap() error { return e.Err }

// ioError wraps cause so that it matches both ErrIO and the original error.
func ioError(op, path string, cause error) error {
	return &PathError{Op: op, Path: path, Err: fmt.Errorf("%w: %w", ErrIO, cause)}
}

// IsEmpty reports whether err means a folder had no files to package.
func IsEmpty(err error) bool {
	return errors.Is(err, ErrEmpty)
}
