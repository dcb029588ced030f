// Package logging builds the leveled console logger.
package logging

import (
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/mslade/todos/internal/config"
)

// New creates a console logger on stderr configured from cfg. Command
// output goes to stdout; diagnostics stay on stderr so they can be
// redirected independently.
func New(cfg *config.Config) *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		Level:           parseLevel(cfg.LogLevel),
		Formatter:       parseFormat(cfg.LogFormat),
		ReportTimestamp: cfg.LogTimestamps,
		Prefix:          "todos",
	})
}

// Discard returns a logger that swallows everything. Useful where a
// logger is required but output is unwanted, such as the TUI refresh.
func Discard() *log.Logger {
	return log.New(io.Discard)
}

// parseLevel maps a config string to a log level, defaulting to warn.
func parseLevel(s string) log.Level {
	level, err := log.ParseLevel(s)
	if err != nil {
		return log.WarnLevel
	}
	return level
}

// parseFormat maps a config string to a log formatter, defaulting to text.
func parseFormat(s string) log.Formatter {
	switch s {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}
