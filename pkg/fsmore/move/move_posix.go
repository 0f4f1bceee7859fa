//go:build !windows

package move

import (
	"os"
	"syscall"

	"github.com/fsmore/fsmore/pkg/fsmore/pathtype"
	"github.com/fsmore/fsmore/pkg/fsmore/scan"
)

// renamePreconditionsMet reports whether destinationPath is in a state from
// which a POSIX rename(2) onto it can succeed: either absent, or an empty
// directory (rename atomically replaces an empty directory but fails with
// ENOTEMPTY otherwise).
func renamePreconditionsMet(destinationPath string) (bool, error) {
	typ, err := pathtype.Classify(destinationPath)
	if err != nil {
		return false, err
	}
	switch typ {
	case pathtype.NotFound:
		return true, nil
	case pathtype.BareDirectory:
		return scan.IsEmpty(destinationPath)
	default:
		return false, nil
	}
}

// isCrossDeviceError reports whether err is the result of attempting a
// rename across filesystem devices.
func isCrossDeviceError(err error) bool {
	linkErr, ok := err.(*os.LinkError)
	if !ok {
		return false
	}
	return linkErr.Err == syscall.EXDEV
}
