// Package logging provides the CLI's structured logging: bare messages on
// the console (stderr) plus an optional rolling file sink with timestamps
// and a per-invocation run ID. Subprocess output (virtualenv, pip, the
// interpreter) never goes through here; it flows to the user unmodified.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
	"gopkg.in/natefinch/lumberjack.v2"
)

// consoleHandler is a custom slog handler that writes messages without
// timestamps or level prefixes. Debug records are gated behind verbose mode.
type consoleHandler struct {
	writer  io.Writer
	verbose bool
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	if level == slog.LevelDebug {
		return h.verbose
	}
	return true
}

func (h *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	_, err := fmt.Fprintln(h.writer, record.Message)
	return err
}

// WithAttrs drops attributes: console output stays bare, attributes only
// matter for the file sink.
func (h *consoleHandler) WithAttrs(_ []slog.Attr) slog.Handler {
	return h
}

func (h *consoleHandler) WithGroup(_ string) slog.Handler {
	return h
}

// multiHandler fans out log records to multiple handlers.
type multiHandler struct {
	handlers []slog.Handler
}

func (h *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *multiHandler) Handle(ctx context.Context, record slog.Record) error {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, record.Level) {
			if err := handler.Handle(ctx, record); err != nil {
				return err
			}
		}
	}
	return nil
}

func (h *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newHandlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		newHandlers[i] = handler.WithAttrs(attrs)
	}
	return &multiHandler{handlers: newHandlers}
}

func (h *multiHandler) WithGroup(name string) slog.Handler {
	newHandlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		newHandlers[i] = handler.WithGroup(name)
	}
	return &multiHandler{handlers: newHandlers}
}

// newLumberjackLogger creates the rolling file writer. Rotation limits can
// be tuned via BOOTSTRAP_LOG_MAX_SIZE (MB), BOOTSTRAP_LOG_MAX_BACKUPS and
// BOOTSTRAP_LOG_MAX_AGE (days).
func newLumberjackLogger(logFilePath string) *lumberjack.Logger {
	config := &lumberjack.Logger{
		Filename:   logFilePath,
		MaxSize:    1,
		MaxBackups: 2,
		MaxAge:     30,
		Compress:   false,
	}

	if maxSizeStr := os.Getenv("BOOTSTRAP_LOG_MAX_SIZE"); maxSizeStr != "" {
		if maxSize, err := strconv.Atoi(maxSizeStr); err == nil && maxSize > 0 {
			config.MaxSize = maxSize
		}
	}

	if maxBackupsStr := os.Getenv("BOOTSTRAP_LOG_MAX_BACKUPS"); maxBackupsStr != "" {
		if maxBackups, err := strconv.Atoi(maxBackupsStr); err == nil && maxBackups >= 0 {
			config.MaxBackups = maxBackups
		}
	}

	if maxAgeStr := os.Getenv("BOOTSTRAP_LOG_MAX_AGE"); maxAgeStr != "" {
		if maxAge, err := strconv.Atoi(maxAgeStr); err == nil && maxAge > 0 {
			config.MaxAge = maxAge
		}
	}

	return config
}

// Options configures a Logger.
type Options struct {
	// Verbose enables debug messages on the console.
	Verbose bool

	// FilePath is the rolling log file location. Empty disables the file
	// sink entirely.
	FilePath string

	// ConsoleWriter receives console messages. Defaults to os.Stderr,
	// keeping stdout clean for structured command output.
	ConsoleWriter io.Writer
}

// Logger wraps slog with the two-sink setup used across the CLI.
type Logger struct {
	logger    *slog.Logger
	logWriter io.WriteCloser
	runID     string
}

// New builds a Logger. A file sink that cannot be set up is skipped rather
// than treated as fatal: a bootstrap must not fail because a log directory
// is unwritable.
func New(opts Options) *Logger {
	writer := opts.ConsoleWriter
	if writer == nil {
		writer = os.Stderr
	}

	l := &Logger{runID: uuid.NewString()}

	handlers := []slog.Handler{
		&consoleHandler{writer: writer, verbose: opts.Verbose},
	}

	if opts.FilePath != "" {
		logDir := filepath.Dir(opts.FilePath)
		if err := os.MkdirAll(logDir, 0o750); err == nil {
			lumberjackLogger := newLumberjackLogger(opts.FilePath)
			l.logWriter = lumberjackLogger

			fileHandler := slog.NewTextHandler(lumberjackLogger, &slog.HandlerOptions{
				Level: slog.LevelDebug,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					if a.Key == slog.TimeKey {
						return slog.Attr{Key: a.Key, Value: slog.StringValue(a.Value.Time().Format("2006-01-02 15:04:05.000"))}
					}
					return a
				},
			})
			handlers = append(handlers, fileHandler)
		} else {
			fmt.Fprintf(writer, "warning: log file disabled: %v\n", err)
		}
	}

	l.logger = slog.New(&multiHandler{handlers: handlers}).With("run", l.runID)
	return l
}

// RunID returns the identifier attached to this invocation's file log lines.
func (l *Logger) RunID() string {
	return l.runID
}

// Debug writes a debug message. Visible on the console only in verbose
// mode; always written to the file sink.
func (l *Logger) Debug(format string, args ...interface{}) {
	l.log(slog.LevelDebug, format, args...)
}

// Info writes an info message.
func (l *Logger) Info(format string, args ...interface{}) {
	l.log(slog.LevelInfo, format, args...)
}

// Warn writes a warning message.
func (l *Logger) Warn(format string, args ...interface{}) {
	l.log(slog.LevelWarn, format, args...)
}

// Error writes an error message.
func (l *Logger) Error(format string, args ...interface{}) {
	l.log(slog.LevelError, format, args...)
}

func (l *Logger) log(level slog.Level, format string, args ...interface{}) {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	l.logger.Log(context.Background(), level, msg)
}

// Close closes the file sink if one was opened.
func (l *Logger) Close() error {
	if l.logWriter != nil {
		return l.logWriter.Close()
	}
	return nil
}

// DefaultFilePath returns the default rolling log location under the user
// cache directory. Empty when the cache directory cannot be determined, in
// which case the file sink stays off.
func DefaultFilePath() string {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(cacheDir, "init-python-project", "bootstrap.log")
}
