package logger

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

const defaultSlowThreshold = 200 * time.Millisecond

// GormLogger routes GORM's query and message logging through zap.
type GormLogger struct {
	zl             *zap.Logger
	level          gormlogger.LogLevel
	slowThreshold  time.Duration
	ignoreNotFound bool
}

type GormLoggerOption func(*GormLogger)

// WithSlowThreshold sets the latency above which queries log as slow.
func WithSlowThreshold(threshold time.Duration) GormLoggerOption {
	return func(gl *GormLogger) { gl.slowThreshold = threshold }
}

// WithIgnoreRecordNotFoundError controls whether not-found results are
// logged as SQL errors.
func WithIgnoreRecordNotFoundError(ignore bool) GormLoggerOption {
	return func(gl *GormLogger) { gl.ignoreNotFound = ignore }
}

// NewGormLogger wraps zapLogger in an adapter satisfying
// gormlogger.Interface. Record-not-found results are suppressed by
// default since the repositories treat them as domain conditions.
func NewGormLogger(zapLogger *zap.Logger, level gormlogger.LogLevel, opts ...GormLoggerOption) *GormLogger {
	gl := &GormLogger{
		zl:             zapLogger.Named("gorm"),
		level:          level,
		slowThreshold:  defaultSlowThreshold,
		ignoreNotFound: true,
	}
	for _, opt := range opts {
		opt(gl)
	}
	return gl
}

// LogMode returns a copy at the requested level.
func (gl *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *gl
	clone.level = level
	return &clone
}

func (gl *GormLogger) Info(ctx context.Context, msg string, data ...any) {
	if gl.level >= gormlogger.Info {
		gl.zl.Sugar().Infof(msg, data...)
	}
}

func (gl *GormLogger) Warn(ctx context.Context, msg string, data ...any) {
	if gl.level >= gormlogger.Warn {
		gl.zl.Sugar().Warnf(msg, data...)
	}
}

func (gl *GormLogger) Error(ctx context.Context, msg string, data ...any) {
	if gl.level >= gormlogger.Error {
		gl.zl.Sugar().Errorf(msg, data...)
	}
}

// Trace logs one executed statement with its latency, the affected row
// count when known, and the request id when the HTTP middleware put one
// in the context.
func (gl *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if gl.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()
	fields := gl.traceFields(ctx, elapsed, sql, rows)

	switch {
	case err != nil && gl.level >= gormlogger.Error:
		if gl.ignoreNotFound && errors.Is(err, gormlogger.ErrRecordNotFound) {
			return
		}
		gl.zl.Error("sql error", append(fields, zap.Error(err))...)
	case gl.slowThreshold > 0 && elapsed > gl.slowThreshold && gl.level >= gormlogger.Warn:
		gl.zl.Warn("slow sql", append(fields, zap.Duration("threshold", gl.slowThreshold))...)
	case gl.level >= gormlogger.Info:
		gl.zl.Debug("sql trace", fields...)
	}
}

func (gl *GormLogger) traceFields(ctx context.Context, elapsed time.Duration, sql string, rows int64) []zap.Field {
	fields := make([]zap.Field, 0, 4)
	fields = append(fields,
		zap.Duration("elapsed", elapsed),
		zap.String("sql", sql),
	)
	if rows >= 0 {
		fields = append(fields, zap.Int64("rows", rows))
	}
	if requestID := GetRequestID(ctx); requestID != "" {
		fields = append(fields, zap.String("request_id", requestID))
	}
	return fields
}

// MapGormLogLevel translates the service log level into GORM's scale.
func MapGormLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "warn":
		return gormlogger.Warn
	case "info", "debug":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}
