// Package logging builds the diagnostic logger used by the CLI.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options holds configuration for diagnostic logging.
type Options struct {
	Level  string
	Format string
	// File, when set, receives logs through a size-rotated writer instead of Output.
	File   string
	Output io.Writer
	Prefix string
}

// New returns a logger and a close func for any file it opened.
func New(opts Options) (*log.Logger, func() error) {
	w := opts.Output
	if w == nil {
		w = os.Stderr
	}
	closer := func() error { return nil }
	if opts.File != "" {
		rotating := &lumberjack.Logger{
			Filename:   filepath.Clean(opts.File),
			MaxSize:    5, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		}
		w, closer = rotating, rotating.Close
	}

	prefix := opts.Prefix
	if prefix == "" {
		prefix = "todo"
	}
	logger := log.NewWithOptions(w, log.Options{
		Level:           ParseLevel(opts.Level),
		Formatter:       ParseFormatter(opts.Format),
		ReportTimestamp: opts.File != "",
		Prefix:          prefix,
	})
	return logger, closer
}

// ParseLevel maps a level name to a log.Level, defaulting to warn.
func ParseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.WarnLevel
	}
}

// ParseFormatter maps a formatter name to a log.Formatter.
func ParseFormatter(format string) log.Formatter {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}
