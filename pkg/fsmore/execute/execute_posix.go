//go:build !windows

package execute

import (
	"os"

	"github.com/fsmore/fsmore/pkg/fsmore/fserrors"
	"github.com/fsmore/fsmore/pkg/fsmore/plan"
)

// executeCreateSymlink creates a symbolic link. POSIX has a single,
// kindless symlink primitive, so op.LinkKind is ignored.
func executeCreateSymlink(op plan.QueuedOperation) error {
	if err := os.Symlink(op.LinkTarget, op.DestinationPath); err != nil {
		if os.IsExist(err) {
			return nil
		}
		return &fserrors.SymlinkCreationError{LinkPath: op.DestinationPath, Err: err}
	}
	return nil
}
