//go:build windows

package execute

import (
	"golang.org/x/sys/windows"

	"github.com/fsmore/fsmore/pkg/fsmore/fserrors"
	"github.com/fsmore/fsmore/pkg/fsmore/plan"
)

// executeCreateSymlink creates a symbolic link. Windows' CreateSymbolicLink
// primitive requires the caller to declare up front whether the link
// targets a file or a directory — this is exactly why QueuedOperation
// carries LinkKind, computed by the planner from the source entry's type
// rather than inferred from the (possibly nonexistent, for a dangling link)
// target at link-creation time.
func executeCreateSymlink(op plan.QueuedOperation) error {
	flags := uint32(windows.SYMBOLIC_LINK_FLAG_ALLOW_UNPRIVILEGED_CREATE)
	if op.LinkKind == plan.SymlinkKindDirectory {
		flags |= windows.SYMBOLIC_LINK_FLAG_DIRECTORY
	}

	linkPath, err := windows.UTF16PtrFromString(op.DestinationPath)
	if err != nil {
		return &fserrors.SymlinkCreationError{LinkPath: op.DestinationPath, Err: err}
	}
	targetPath, err := windows.UTF16PtrFromString(op.LinkTarget)
	if err != nil {
		return &fserrors.SymlinkCreationError{LinkPath: op.DestinationPath, Err: err}
	}

	if err := windows.CreateSymbolicLink(linkPath, targetPath, flags); err != nil {
		return &fserrors.SymlinkCreationError{LinkPath: op.DestinationPath, Err: err}
	}
	return nil
}
