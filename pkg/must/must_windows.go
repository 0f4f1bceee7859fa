//go:build windows

package must

import (
	"github.com/fsmore/fsmore/pkg/logging"
	"golang.org/x/sys/windows"
)

// CloseWindowsHandle closes a raw Windows handle, logging a warning if the
// close fails.
func CloseWindowsHandle(wh windows.Handle, logger *logging.Logger) {
	if err := windows.CloseHandle(wh); err != nil {
		logger.Warnf("Unable to close handle %d: %s", wh, err.Error())
	}
}
