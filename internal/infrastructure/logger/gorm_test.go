package logger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func newObservedGormLogger(level gormlogger.LogLevel, opts ...GormLoggerOption) (*GormLogger, *observer.ObservedLogs) {
	core, recorded := observer.New(zapcore.DebugLevel)
	return NewGormLogger(zap.New(core), level, opts...), recorded
}

func TestGormLoggerTrace(t *testing.T) {
	gl, recorded := newObservedGormLogger(gormlogger.Info)

	gl.Trace(context.Background(), time.Now(), func() (string, int64) {
		return "SELECT * FROM departments", 3
	}, nil)

	entries := recorded.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "sql trace", entries[0].Message)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)

	fields := fieldMap(&entries[0])
	assert.Equal(t, "SELECT * FROM departments", fields["sql"].String)
	assert.Equal(t, int64(3), fields["rows"].Integer)
}

func TestGormLoggerTraceOmitsUnknownRows(t *testing.T) {
	gl, recorded := newObservedGormLogger(gormlogger.Info)

	gl.Trace(context.Background(), time.Now(), func() (string, int64) {
		return "SELECT 1", -1
	}, nil)

	entries := recorded.All()
	require.Len(t, entries, 1)
	assert.NotContains(t, fieldMap(&entries[0]), "rows")
}

func TestGormLoggerTraceError(t *testing.T) {
	gl, recorded := newObservedGormLogger(gormlogger.Error)

	gl.Trace(context.Background(), time.Now(), func() (string, int64) {
		return "INSERT INTO departments", 0
	}, assert.AnError)

	entries := recorded.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "sql error", entries[0].Message)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
}

func TestGormLoggerTraceIgnoresRecordNotFound(t *testing.T) {
	gl, recorded := newObservedGormLogger(gormlogger.Error)

	gl.Trace(context.Background(), time.Now(), func() (string, int64) {
		return "SELECT * FROM departments WHERE id = 42", 0
	}, gormlogger.ErrRecordNotFound)

	assert.Zero(t, recorded.Len())
}

func TestGormLoggerTraceReportsNotFoundWhenConfigured(t *testing.T) {
	gl, recorded := newObservedGormLogger(gormlogger.Error, WithIgnoreRecordNotFoundError(false))

	gl.Trace(context.Background(), time.Now(), func() (string, int64) {
		return "SELECT * FROM departments WHERE id = 42", 0
	}, gormlogger.ErrRecordNotFound)

	entries := recorded.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "sql error", entries[0].Message)
}

func TestGormLoggerTraceSlowQuery(t *testing.T) {
	gl, recorded := newObservedGormLogger(gormlogger.Warn, WithSlowThreshold(time.Millisecond))

	gl.Trace(context.Background(), time.Now().Add(-10*time.Millisecond), func() (string, int64) {
		return "SELECT * FROM departments ORDER BY name", 100
	}, nil)

	entries := recorded.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "slow sql", entries[0].Message)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
}

func TestGormLoggerTraceSilent(t *testing.T) {
	gl, recorded := newObservedGormLogger(gormlogger.Silent)

	gl.Trace(context.Background(), time.Now(), func() (string, int64) {
		return "SELECT 1", 1
	}, assert.AnError)

	assert.Zero(t, recorded.Len())
}

func TestGormLoggerTraceIncludesRequestID(t *testing.T) {
	gl, recorded := newObservedGormLogger(gormlogger.Info)

	ctx, _ := WithRequestID(context.Background(), zap.NewNop(), "req-7")
	gl.Trace(ctx, time.Now(), func() (string, int64) {
		return "SELECT 1", 1
	}, nil)

	entries := recorded.All()
	require.Len(t, entries, 1)
	requestID, ok := fieldMap(&entries[0])["request_id"]
	require.True(t, ok)
	assert.Equal(t, "req-7", requestID.String)
}

func TestGormLoggerLogMode(t *testing.T) {
	gl, _ := newObservedGormLogger(gormlogger.Warn)

	clone := gl.LogMode(gormlogger.Silent)
	require.NotSame(t, gl, clone)

	// The original keeps its level.
	assert.Equal(t, gormlogger.Warn, gl.level)
}

func TestMapGormLogLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected gormlogger.LogLevel
	}{
		{"silent", gormlogger.Silent},
		{"error", gormlogger.Error},
		{"warn", gormlogger.Warn},
		{"info", gormlogger.Info},
		{"debug", gormlogger.Info},
		{"bogus", gormlogger.Warn},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.expected, MapGormLogLevel(tt.level))
		})
	}
}

func TestGormLoggerLeveledMessages(t *testing.T) {
	gl, recorded := newObservedGormLogger(gormlogger.Info)

	gl.Info(context.Background(), "info %s", "message")
	gl.Warn(context.Background(), "warn %s", "message")
	gl.Error(context.Background(), "error %s", "message")

	assert.Equal(t, 3, recorded.Len())

	silent, silentLogs := newObservedGormLogger(gormlogger.Silent)
	silent.Info(context.Background(), "dropped")
	silent.Warn(context.Background(), "dropped")
	silent.Error(context.Background(), "dropped")
	assert.Zero(t, silentLogs.Len())
}
