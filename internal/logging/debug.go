package logging

import (
	"fmt"
	"os"
)

// DebugEnabled returns true if debug mode is enabled via DASH_DEBUG environment variable
func DebugEnabled() bool {
	return os.Getenv("DASH_DEBUG") != ""
}

// Debugf prints a formatted debug message to stderr only if debug mode is enabled
func Debugf(format string, args ...interface{}) {
	if DebugEnabled() {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}

