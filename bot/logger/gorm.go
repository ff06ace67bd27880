package logger

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	gormlogger "gorm.io/gorm/logger"
)

const defaultSlowQuery = 200 * time.Millisecond

// GormLogger routes gorm's query log through slog.
type GormLogger struct {
	logger        *slog.Logger
	level         gormlogger.LogLevel
	slowThreshold time.Duration
}

// NewGormLogger creates a GORM logger. level uses the application's level names.
func NewGormLogger(base *slog.Logger, level string) *GormLogger {
	if base == nil {
		base = slog.Default()
	}
	return &GormLogger{
		logger:        base.With("component", "db"),
		level:         GormLevel(level),
		slowThreshold: defaultSlowQuery,
	}
}

// GormLevel maps an application log level to gorm's scale.
// Info-level application logging keeps gorm at Warn so queries are not echoed.
func GormLevel(level string) gormlogger.LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug", "trace":
		return gormlogger.Info
	case "error", "fatal", "panic":
		return gormlogger.Error
	case "silent", "off":
		return gormlogger.Silent
	default:
		return gormlogger.Warn
	}
}

func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= gormlogger.Info {
		l.logger.InfoContext(ctx, msg, "data", data)
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= gormlogger.Warn {
		l.logger.WarnContext(ctx, msg, "data", data)
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= gormlogger.Error {
		l.logger.ErrorContext(ctx, msg, "data", data)
	}
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level == gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	switch {
	case err != nil && l.level >= gormlogger.Error && !errors.Is(err, gormlogger.ErrRecordNotFound):
		sql, rows := fc()
		l.logger.ErrorContext(ctx, "query failed", "error", err, "elapsed", elapsed, "rows", rows, "sql", sql)
	case l.slowThreshold > 0 && elapsed > l.slowThreshold && l.level >= gormlogger.Warn:
		sql, rows := fc()
		l.logger.WarnContext(ctx, "slow query", "elapsed", elapsed, "rows", rows, "sql", sql)
	case l.level == gormlogger.Info:
		sql, rows := fc()
		l.logger.DebugContext(ctx, "query", "elapsed", elapsed, "rows", rows, "sql", sql)
	}
}
