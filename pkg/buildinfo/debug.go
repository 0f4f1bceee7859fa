package buildinfo

import "os"

// DebugEnabled controls whether or not verbose debugging output is enabled.
// It is set automatically based on the FSMORE_DEBUG environment variable.
var DebugEnabled bool

func init() {
	DebugEnabled = os.Getenv("FSMORE_DEBUG") == "1"
}
