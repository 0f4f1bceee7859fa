// Package must provides wrappers around operations that return errors which
// are safe to ignore in practice but which should still be logged when they
// occur (e.g. cleanup calls in defer statements).
package must

import (
	"io"
	"os"

	"github.com/fsmore/fsmore/pkg/logging"
)

// Close closes c, logging a warning if the close fails.
func Close(c io.Closer, logger *logging.Logger) {
	if err := c.Close(); err != nil {
		logger.Warnf("Unable to close: %s", err.Error())
	}
}

// OSRemove removes the named file, logging a warning if the removal fails.
func OSRemove(name string, logger *logging.Logger) {
	if err := os.Remove(name); err != nil {
		logger.Warnf("Unable to remove '%s': %s", name, err.Error())
	}
}

// IOCopy copies from src to dst, logging a warning if the copy fails.
func IOCopy(dst io.Writer, src io.Reader, logger *logging.Logger) {
	if _, err := io.Copy(dst, src); err != nil {
		logger.Warnf("Unable to copy from source to destination: %s", err.Error())
	}
}

// Succeed logs a warning if err is non-nil, describing the task that failed.
func Succeed(err error, task string, logger *logging.Logger) {
	if err != nil {
		logger.Warnf("Unable to succeed at %s: %s", task, err.Error())
	}
}
