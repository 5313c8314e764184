package config

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// ParseLevel maps a level name to a log level
func ParseLevel(name string) (log.Level, error) {
	level, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	if err != nil {
		return log.InfoLevel, fmt.Errorf("unknown log level %q", name)
	}
	return level, nil
}

// NewLogger creates a logger writing to w at the configured level
func NewLogger(cfg *Config, w io.Writer, prefix string) *log.Logger {
	level := log.InfoLevel
	if cfg != nil {
		if l, err := ParseLevel(cfg.LogLevel); err == nil {
			level = l
		}
	}
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Prefix:          prefix,
	})
}

// NewFileLogger opens path for appending and returns a logger writing to it.
// The terminal belongs to the TUI, so interactive sessions log here. An empty path discards logs.
func NewFileLogger(cfg *Config, path, prefix string) (*log.Logger, io.Closer, error) {
	if path == "" {
		return NewLogger(cfg, io.Discard, prefix), nopCloser{}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return NewLogger(cfg, f, prefix), f, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
