// Package logger provides levelled logging for sercha-rag.
// Debug and Info messages are printed only in verbose mode (--verbose);
// warnings and errors always reach stderr so ingestion problems are visible.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
	now               = time.Now
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for all log levels.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

func write(level string, always bool, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if always || verbose {
		fmt.Fprintf(output, "["+level+"] "+format+"\n", args...)
	}
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	write("DEBUG", false, format, args...)
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	write("INFO", false, format, args...)
}

// Warn prints a warning. Warnings are always printed.
func Warn(format string, args ...any) {
	write("WARN", true, format, args...)
}

// Error prints an error message. Errors are always printed.
func Error(format string, args ...any) {
	write("ERROR", true, format, args...)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

// Timer starts timing a pipeline stage. Calling the returned function logs
// the elapsed time at debug level.
//
//	done := logger.Timer("embed %s", name)
//	defer done()
func Timer(format string, args ...any) func() {
	start := now()
	label := fmt.Sprintf(format, args...)
	return func() {
		Debug("%s took %s", label, now().Sub(start).Round(time.Millisecond))
	}
}
