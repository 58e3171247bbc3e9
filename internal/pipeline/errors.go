package pipeline

import (
	"errors"

	"github.com/tmfelwu/obsidian-file-rename/internal/policy"
)

var (
	ErrNoActiveTarget = errors.New("no active file")
	ErrFilteredOut    = errors.New("file type excluded by settings")
	ErrAlreadyDated   = errors.New("date already present")
	ErrConflictSkip   = errors.New("target already exists")
	ErrBusy           = errors.New("rename already running")

	// ErrResolutionExhausted is re-exported so callers only need this package.
	ErrResolutionExhausted = policy.ErrResolutionExhausted

	ErrRenameIO = errors.New("rename failed")
)

// RenameIOError wraps a failure of the host rename with its underlying reason.
type RenameIOError struct {
	Path string
	Err  error
}

func (e *RenameIOError) Error() string {
	return "rename to " + e.Path + " failed: " + e.Err.Error()
}

func (e *RenameIOError) Unwrap() error { return e.Err }

func (e *RenameIOError) Is(target error) bool { return target == ErrRenameIO }

// IsNoop reports whether err means the file was deliberately left unchanged.
func IsNoop(err error) bool {
	return errors.Is(err, ErrFilteredOut) ||
		errors.Is(err, ErrAlreadyDated) ||
		errors.Is(err, ErrConflictSkip)
}
