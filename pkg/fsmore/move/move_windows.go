//go:build windows

package move

import (
	"os"

	"golang.org/x/sys/windows"

	"github.com/fsmore/fsmore/pkg/fsmore/pathtype"
)

// renamePreconditionsMet reports whether destinationPath is in a state from
// which os.Rename can succeed on Windows: MoveFileEx fails outright when
// the destination already exists, so unlike POSIX there is no empty-
// directory exception.
func renamePreconditionsMet(destinationPath string) (bool, error) {
	typ, err := pathtype.Classify(destinationPath)
	if err != nil {
		return false, err
	}
	return typ == pathtype.NotFound, nil
}

// isCrossDeviceError reports whether err is the result of attempting a
// rename across filesystem volumes.
func isCrossDeviceError(err error) bool {
	linkErr, ok := err.(*os.LinkError)
	if !ok {
		return false
	}
	errno, ok := linkErr.Err.(windows.Errno)
	if !ok {
		return false
	}
	return errno == windows.ERROR_NOT_SAME_DEVICE
}
