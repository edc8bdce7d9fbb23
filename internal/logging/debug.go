package logging

import (
	"fmt"
	"os"
	"strings"
)

// DebugEnabled returns true if debug mode is enabled via PMTIME_DEBUG environment variable
func DebugEnabled() bool {
	return os.Getenv("PMTIME_DEBUG") != ""
}

// Debugf logs a formatted debug trace only if debug mode is enabled
func Debugf(format string, args ...interface{}) {
	if DebugEnabled() {
		Logger().Debug(strings.TrimRight(fmt.Sprintf(format, args...), "\n"))
	}
}

// Debugln logs a debug trace only if debug mode is enabled
func Debugln(args ...interface{}) {
	if DebugEnabled() {
		Logger().Debug(strings.TrimRight(fmt.Sprintln(args...), "\n"))
	}
}
