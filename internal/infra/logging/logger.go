// Package logging provides file-based logging for skillbeads.
// Records go to a single log file (<log dir>/skillbeads.log) and never to the terminal,
// so callers embedding the library keep their stdout and stderr clean.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/runoshun/skillbeads/internal/domain"
)

// Ensure Logger implements domain.Logger interface.
var _ domain.Logger = (*Logger)(nil)

// Logger writes levelled records to a log file.
// Fields are ordered to minimize memory padding.
type Logger struct {
	file   *os.File
	now    func() time.Time
	dir    string
	mu     sync.Mutex
	level  slog.Level
	failed bool // Opening the file failed once; stay silent afterwards
}

// New creates a Logger that writes into dir.
// If dir is empty, logging is disabled.
func New(dir string, level slog.Level) *Logger {
	return &Logger{
		dir:   dir,
		level: level,
		now:   time.Now,
	}
}

// ParseLevel parses a log level string into slog.Level.
func ParseLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ensureFile opens or returns the log file. Caller must hold l.mu.
func (l *Logger) ensureFile() (*os.File, error) {
	if l.file != nil {
		return l.file, nil
	}
	if l.failed {
		return nil, fmt.Errorf("log file unavailable")
	}

	if err := os.MkdirAll(l.dir, 0o750); err != nil {
		l.failed = true
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	// G302: Log files are append-only and need read access by the owning group
	f, err := os.OpenFile(domain.LogPath(l.dir), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o640) //nolint:gosec // Log file readable by owner and group
	if err != nil {
		l.failed = true
		return nil, fmt.Errorf("open log file: %w", err)
	}
	l.file = f
	return f, nil
}

// Close closes the log file.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// formatLog formats a log entry.
// Format: [2025-12-30 09:32:51] [INFO] [category] message
func formatLog(t time.Time, level slog.Level, category, msg string) string {
	return fmt.Sprintf("[%s] [%s] [%s] %s\n",
		t.Format("2006-01-02 15:04:05"),
		levelToString(level),
		category,
		msg,
	)
}

func levelToString(level slog.Level) string {
	switch level {
	case slog.LevelDebug:
		return "DEBUG"
	case slog.LevelInfo:
		return "INFO"
	case slog.LevelWarn:
		return "WARN"
	case slog.LevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

func (l *Logger) log(level slog.Level, category, msg string) {
	if l.dir == "" {
		return // Logging disabled
	}
	if level < l.level {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := l.ensureFile()
	if err != nil {
		return
	}
	_, _ = io.WriteString(f, formatLog(l.now(), level, category, msg))
}

// Debug logs a debug message.
func (l *Logger) Debug(category, msg string) {
	l.log(slog.LevelDebug, category, msg)
}

// Info logs an info message.
func (l *Logger) Info(category, msg string) {
	l.log(slog.LevelInfo, category, msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(category, msg string) {
	l.log(slog.LevelWarn, category, msg)
}

// Error logs an error message.
func (l *Logger) Error(category, msg string) {
	l.log(slog.LevelError, category, msg)
}
