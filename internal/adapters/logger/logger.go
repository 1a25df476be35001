// Package logger implements a logging adapter using log/slog.
package logger

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.trai.ch/xtc/internal/ui/style"
	"go.trai.ch/zerr"
)

// messager describes an error that can report its own message without the chain.
// zerr errors and the domain command/stage errors implement it.
type messager interface {
	Message() string
}

// Logger implements ports.Logger. Console output goes through a PrettyHandler;
// an attached log file receives every record from debug level up.
type Logger struct {
	mu      sync.RWMutex
	logger  *slog.Logger
	console *slog.LevelVar
	output  io.Writer
	file    *os.File
	now     func() time.Time
}

// New creates a Logger writing to os.Stderr at info level.
func New() *Logger {
	return NewWithWriter(os.Stderr)
}

// NewWithWriter creates a Logger writing console output to w.
func NewWithWriter(w io.Writer) *Logger {
	if w == nil {
		w = os.Stderr
	}
	level := &slog.LevelVar{}
	level.Set(slog.LevelInfo)

	l := &Logger{
		console: level,
		output:  w,
		now:     time.Now,
	}
	l.rebuild()
	return l
}

// rebuild must be called with mu held for writing, or before l is shared.
func (l *Logger) rebuild() {
	handlers := fanout{NewPrettyHandler(l.output, &slog.HandlerOptions{Level: l.console})}
	if l.file != nil {
		handlers = append(handlers, NewFileHandler(l.file, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	l.logger = slog.New(handlers)
}

// SetOutput updates the console destination. If w is nil, os.Stderr is used.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if w == nil {
		w = os.Stderr
	}
	l.output = w
	l.rebuild()
}

// SetVerbose switches the console between info and debug level.
func (l *Logger) SetVerbose(verbose bool) {
	if verbose {
		l.console.Set(slog.LevelDebug)
		return
	}
	l.console.Set(slog.LevelInfo)
}

// Attach opens <dir>/<prefix>-YYYY-MM-DD-HHMMSS.log and mirrors all records into it.
// A previously attached file is closed first.
func (l *Logger) Attach(dir, prefix string) (string, error) {
	name := prefix + "-" + l.now().Format("2006-01-02-150405") + ".log"
	path := filepath.Join(dir, name)

	//nolint:gosec // log path is derived from user configuration
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to open log file"), "path", path)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		_ = l.file.Close()
	}
	l.file = f
	l.rebuild()

	return path, nil
}

// Close detaches and closes the log file.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	l.rebuild()
	if err != nil {
		return zerr.Wrap(err, "failed to close log file")
	}
	return nil
}

// Debug logs a diagnostic message. It reaches the console only in verbose mode.
func (l *Logger) Debug(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Debug(msg)
}

// Info logs an informational message.
func (l *Logger) Info(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Info(msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Warn(msg)
}

// Error logs an error together with its chain of causes.
func (l *Logger) Error(err error) {
	if err == nil {
		return
	}

	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Error(FormatError(err))
}

// FormatError renders an error chain as a headline followed by its causes.
func FormatError(err error) string {
	var messages []string
	current := err

	for current != nil {
		if m, ok := current.(messager); ok {
			if msg := m.Message(); msg != "" {
				messages = append(messages, msg)
			}
			current = errors.Unwrap(current)
			continue
		}
		messages = append(messages, current.Error())
		break
	}

	var formattedLines []string
	for i, msg := range messages {
		lines := strings.Split(msg, "\n")

		if i == 0 {
			formattedLines = append(formattedLines, "Error: "+lines[0])
			for _, line := range lines[1:] {
				formattedLines = append(formattedLines, "       "+line)
			}
			continue
		}

		if i == 1 {
			formattedLines = append(formattedLines, "", "  Caused by:")
		}
		formattedLines = append(formattedLines, "    "+style.Arrow+" "+lines[0])
		for _, line := range lines[1:] {
			formattedLines = append(formattedLines, "      "+line)
		}
	}

	return strings.Join(formattedLines, "\n")
}
