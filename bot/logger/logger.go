package logger

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/liuran001/tunebot/bot"
)

// Options configures the logger output.
type Options struct {
	Level     string
	Format    string
	AddSource bool
	// Dir receives one file per day. Empty disables file output.
	Dir string
}

// Logger wraps slog.Logger to satisfy bot.Logger.
type Logger struct {
	logger  *slog.Logger
	logFile *os.File // Keep reference to close on shutdown
}

// New creates a new Logger with configurable output format.
func New(opts Options) (*Logger, error) {
	logFile, output, err := logOutput(opts.Dir, time.Now())
	if err != nil {
		return nil, err
	}
	return &Logger{logger: slog.New(newHandler(output, opts)), logFile: logFile}, nil
}

// NewWithWriter creates a Logger writing only to w.
func NewWithWriter(w io.Writer, opts Options) *Logger {
	if w == nil {
		w = io.Discard
	}
	return &Logger{logger: slog.New(newHandler(w, opts))}
}

// Discard returns a Logger that drops everything.
func Discard() *Logger {
	return NewWithWriter(io.Discard, Options{Level: "error"})
}

func newHandler(w io.Writer, opts Options) slog.Handler {
	options := &slog.HandlerOptions{
		Level:     parseLevel(opts.Level),
		AddSource: opts.AddSource,
	}

	if strings.ToLower(strings.TrimSpace(opts.Format)) == "json" {
		return slog.NewJSONHandler(w, options)
	}
	return slog.NewTextHandler(w, options)
}

// With returns a child logger with additional fields.
// The child shares the parent's file; only the parent closes it.
func (l *Logger) With(args ...any) bot.Logger {
	return &Logger{logger: l.logger.With(args...)}
}

func (l *Logger) Debug(msg string, args ...any) { l.logger.Debug(msg, args...) }
func (l *Logger) Info(msg string, args ...any)  { l.logger.Info(msg, args...) }
func (l *Logger) Warn(msg string, args ...any)  { l.logger.Warn(msg, args...) }
func (l *Logger) Error(msg string, args ...any) { l.logger.Error(msg, args...) }

// Slog returns the underlying slog.Logger.
func (l *Logger) Slog() *slog.Logger {
	return l.logger
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "info":
		fallthrough
	default:
		return slog.LevelInfo
	}
}

func logOutput(dir string, now time.Time) (*os.File, io.Writer, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, os.Stdout, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, nil, err
	}

	fileName := now.Local().Format("2006-01-02") + ".log"
	filePath := filepath.Join(dir, fileName)

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return nil, nil, err
	}

	if file == nil {
		return nil, nil, errors.New("log file handle is nil")
	}

	return file, io.MultiWriter(os.Stdout, file), nil
}

// Close closes the log file handle.
func (l *Logger) Close() error {
	if l == nil || l.logFile == nil {
		return nil
	}
	return l.logFile.Close()
}
