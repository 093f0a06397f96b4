package errors

import (
	"fmt"
	"io"
	"os"

	"github.com/julianstephens/silentstreak/internal/logger"
)

var (
	osExit = os.Exit
	// exit is swapped out in tests.
	exit = osExit
)

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Report logs err and writes it to w. It returns false for a nil error.
func Report(w io.Writer, err error) bool {
	if err == nil {
		return false
	}
	logger.Error("Command execution failed", "error", err)
	fmt.Fprintln(w, Format(err))
	return true
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if Report(os.Stderr, err) {
		exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	Fatal(fmt.Errorf(format, args...))
}
