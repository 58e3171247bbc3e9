package policy

import (
	"errors"
	"fmt"

	"github.com/tmfelwu/obsidian-file-rename/internal/planner"
	"github.com/tmfelwu/obsidian-file-rename/pkg/types"
)

// MaxCounter is the highest " (n)" suffix tried before giving up. Together
// with the unsuffixed candidate this bounds a resolution to MaxCounter
// existence checks.
const MaxCounter = 5000

// ErrResolutionExhausted is returned when every candidate up to MaxCounter is taken.
var ErrResolutionExhausted = errors.New("too many conflicting files when generating a unique name")

// ExistsFunc reports whether a vault path is already occupied.
type ExistsFunc func(path string) bool

type ConflictResolver struct {
	strategy types.ConflictStrategy
}

func NewConflictResolver(strategy types.ConflictStrategy) *ConflictResolver {
	return &ConflictResolver{strategy: strategy}
}

type Resolution struct {
	Action   types.RenameAction
	BaseName string
	Path     string
	// Counter is the " (n)" suffix that was applied, 0 for a direct hit.
	Counter int
	Skip    bool
}

// Resolve finds a free name for candidate inside dir. The unsuffixed name is
// checked once; on a collision the append-counter strategy tries
// "candidate (2)", "candidate (3)", ... and returns the first free one.
func (c *ConflictResolver) Resolve(dir, ext, candidate string, exists ExistsFunc) (Resolution, error) {
	path := planner.BuildPath(dir, candidate, ext)
	if !exists(path) {
		return Resolution{Action: types.RenameActionRenamed, BaseName: candidate, Path: path}, nil
	}

	switch c.strategy {
	case types.ConflictAppendCounter:
		for n := 2; n <= MaxCounter; n++ {
			base := fmt.Sprintf("%s (%d)", candidate, n)
			path := planner.BuildPath(dir, base, ext)
			if !exists(path) {
				return Resolution{
					Action:   types.RenameActionResolved,
					BaseName: base,
					Path:     path,
					Counter:  n,
				}, nil
			}
		}
		return Resolution{}, fmt.Errorf("%w: %q", ErrResolutionExhausted, path)

	case types.ConflictSkip:
		return Resolution{Action: types.RenameActionSkipped, BaseName: candidate, Path: path, Skip: true}, nil

	default:
		return Resolution{Action: types.RenameActionSkipped, BaseName: candidate, Path: path, Skip: true}, nil
	}
}
