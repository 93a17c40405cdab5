package quarantine

import (
	"errors"
	"fmt"
	"os"
	"syscall"
)

// ErrorReason categorizes why a path could not be quarantined
type ErrorReason int

const (
	ErrorNotFound ErrorReason = iota
	ErrorPermissionDenied
	ErrorOutOfScope
	ErrorTrashFailure
)

// String returns a human-readable error reason
func (e ErrorReason) String() string {
	switch e {
	case ErrorNotFound:
		return "Not found"
	case ErrorPermissionDenied:
		return "Permission denied"
	case ErrorOutOfScope:
		return "Out of scope"
	case ErrorTrashFailure:
		return "Trash failure"
	default:
		return "Unspecified error"
	}
}

// QuarantineError is the per-path failure attached to a batch outcome.
type QuarantineError struct {
	Path     string
	Reason   ErrorReason
	Original error
}

// Error implements the error interface
func (e *QuarantineError) Error() string {
	if e.Original == nil {
		return fmt.Sprintf("%s: %s", e.Path, e.Reason)
	}
	return fmt.Sprintf("%s: %s (%v)", e.Path, e.Reason, e.Original)
}

// UserMessage returns a user-friendly error message
func (e *QuarantineError) UserMessage() string {
	switch e.Reason {
	case ErrorNotFound:
		return fmt.Sprintf("ℹ️  Already gone: %s", e.Path)
	case ErrorPermissionDenied:
		return fmt.Sprintf("⚠️  Permission denied: %s", e.Path)
	case ErrorOutOfScope:
		return fmt.Sprintf("❌ Not a reclaimable candidate from the last scan: %s", e.Path)
	case ErrorTrashFailure:
		return fmt.Sprintf("⚠️  Could not move to trash: %s (%v)", e.Path, e.Original)
	default:
		return fmt.Sprintf("❌ Error quarantining %s: %v", e.Path, e.Original)
	}
}

// CategorizeError analyzes a filesystem error for path and returns a
// categorized QuarantineError. Anything that is neither a missing file nor
// a permission problem counts as a trash failure.
func CategorizeError(path string, err error) *QuarantineError {
	if err == nil {
		return nil
	}

	qErr := &QuarantineError{
		Path:     path,
		Original: err,
		Reason:   ErrorTrashFailure,
	}

	if os.IsNotExist(err) {
		qErr.Reason = ErrorNotFound
		return qErr
	}
	if os.IsPermission(err) {
		qErr.Reason = ErrorPermissionDenied
		return qErr
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.ENOENT:
			qErr.Reason = ErrorNotFound
		case syscall.EACCES, syscall.EPERM:
			qErr.Reason = ErrorPermissionDenied
		}
	}

	return qErr
}
