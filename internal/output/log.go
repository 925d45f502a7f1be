// Package output provides terminal output utilities for the osgimod CLI.
package output

import (
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/log"
)

var logger = log.NewWithOptions(os.Stderr, log.Options{})

// LogConfig configures SetupLogging.
type LogConfig struct {
	// Verbose enables debug level, timestamps and caller information.
	Verbose bool

	// Timestamps overrides timestamp reporting when not verbose.
	// nil means off.
	Timestamps *bool

	// Writer receives the log output. nil means os.Stderr.
	Writer io.Writer
}

// BoolPtr returns a pointer to b.
func BoolPtr(b bool) *bool {
	return &b
}

// SetupLogging replaces the CLI logger.
func SetupLogging(cfg LogConfig) {
	level := log.InfoLevel
	if cfg.Verbose {
		level = log.DebugLevel
	}
	timestamps := cfg.Verbose
	if !cfg.Verbose && cfg.Timestamps != nil {
		timestamps = *cfg.Timestamps
	}
	w := cfg.Writer
	if w == nil {
		w = os.Stderr
	}

	logger = log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: timestamps,
		ReportCaller:    cfg.Verbose,
		TimeFormat:      "15:04:05",
	})
}

// Logger returns the CLI logger.
func Logger() *log.Logger {
	return logger
}

// Slog returns a slog.Logger writing through the CLI logger, for handing
// to library code.
func Slog() *slog.Logger {
	return slog.New(logger)
}

// Debug logs a debug message.
func Debug(msg string, keyvals ...any) {
	logger.Debug(msg, keyvals...)
}

// Info logs an info message.
func Info(msg string, keyvals ...any) {
	logger.Info(msg, keyvals...)
}

// Warn logs a warning message.
func Warn(msg string, keyvals ...any) {
	logger.Warn(msg, keyvals...)
}

// Error logs an error message.
func Error(msg string, keyvals ...any) {
	logger.Error(msg, keyvals...)
}
