package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

const (
	FormatJSON = "json"
	FormatText = "text"
)

// ParseLevel maps LOG_LEVEL values to charmbracelet levels, defaulting to info.
func ParseLevel(level string) log.Level {
	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// New builds the process logger. Application code logs through log/slog; the handler
// underneath is a charmbracelet logger.
func New(w io.Writer, level, format string) *slog.Logger {
	if w == nil {
		w = os.Stdout
	}
	opts := log.Options{
		Level:           ParseLevel(level),
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Formatter:       log.JSONFormatter,
	}
	if strings.EqualFold(format, FormatText) {
		opts.Formatter = log.TextFormatter
	}
	return slog.New(log.NewWithOptions(w, opts))
}
