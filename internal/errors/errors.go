// Package errors renders failures for the terminal. Every fatal path in the
// CLI funnels through Fatal so the message reaches both the user (stderr)
// and the log file.
package errors

import (
	"fmt"
	"os"

	"github.com/tandemhq/tandem/internal/logger"
)

// Format renders an error with the CLI's "Error: " prefix; empty for nil.
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf is Format over a format string.
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal records the failure, prints it to stderr, and exits 1. A nil error
// returns without side effects so callers can pass errors through unchecked.
func Fatal(err error) {
	if err == nil {
		return
	}
	logger.Error("Command failed", "error", err)
	fmt.Fprintln(os.Stderr, Format(err))
	os.Exit(1)
}

// Fatalf is Fatal over a format string.
func Fatalf(format string, args ...interface{}) {
	logger.Error("Command failed", "error", fmt.Sprintf(format, args...))
	fmt.Fprintln(os.Stderr, Formatf(format, args...))
	os.Exit(1)
}
