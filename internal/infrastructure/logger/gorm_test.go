package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

var _ gormlogger.Interface = (*GormLogger)(nil)

func newObservedGormLogger(level gormlogger.LogLevel, opts ...GormLoggerOption) (*GormLogger, *observer.ObservedLogs) {
	core, recorded := observer.New(zapcore.DebugLevel)
	return NewGormLogger(zap.New(core), level, opts...), recorded
}

func traceQuery(sql string, rows int64) func() (string, int64) {
	return func() (string, int64) { return sql, rows }
}

func TestNewGormLoggerDefaults(t *testing.T) {
	gl, _ := newObservedGormLogger(gormlogger.Info)

	assert.Equal(t, gormlogger.Info, gl.level)
	assert.Equal(t, 200*time.Millisecond, gl.slowThreshold)
	assert.True(t, gl.skipNotFoundError)
}

func TestNewGormLoggerOptions(t *testing.T) {
	gl, _ := newObservedGormLogger(gormlogger.Info,
		WithSlowThreshold(500*time.Millisecond),
		WithIgnoreRecordNotFoundError(false),
	)

	assert.Equal(t, 500*time.Millisecond, gl.slowThreshold)
	assert.False(t, gl.skipNotFoundError)
}

func TestGormLoggerLogMode(t *testing.T) {
	gl, _ := newObservedGormLogger(gormlogger.Info)

	lowered := gl.LogMode(gormlogger.Warn)

	assert.Equal(t, gormlogger.Info, gl.level, "original must not change")
	clone, ok := lowered.(*GormLogger)
	require.True(t, ok)
	assert.Equal(t, gormlogger.Warn, clone.level)
}

func TestGormLoggerLevelGating(t *testing.T) {
	t.Run("info passes at Info level", func(t *testing.T) {
		gl, recorded := newObservedGormLogger(gormlogger.Info)
		gl.Info(context.Background(), "migrating %s", "return_units")

		entries := recorded.All()
		require.Len(t, entries, 1)
		assert.Contains(t, entries[0].Message, "migrating return_units")
	})

	t.Run("info suppressed at Silent level", func(t *testing.T) {
		gl, recorded := newObservedGormLogger(gormlogger.Silent)
		gl.Info(context.Background(), "migrating")
		assert.Empty(t, recorded.All())
	})

	t.Run("warn and error pass at their levels", func(t *testing.T) {
		gl, recorded := newObservedGormLogger(gormlogger.Warn)
		gl.Warn(context.Background(), "pool near limit %d", 24)
		require.Len(t, recorded.All(), 1)
		assert.Equal(t, zapcore.WarnLevel, recorded.All()[0].Level)

		gl, recorded = newObservedGormLogger(gormlogger.Error)
		gl.Error(context.Background(), "connection lost")
		require.Len(t, recorded.All(), 1)
		assert.Equal(t, zapcore.ErrorLevel, recorded.All()[0].Level)
	})
}

func TestGormLoggerTrace(t *testing.T) {
	t.Run("query error logs SQL Error", func(t *testing.T) {
		gl, recorded := newObservedGormLogger(gormlogger.Error)
		gl.Trace(context.Background(), time.Now(), traceQuery("SELECT * FROM return_units", 0), errors.New("broken pipe"))

		entries := recorded.All()
		require.Len(t, entries, 1)
		assert.Equal(t, "SQL Error", entries[0].Message)
	})

	t.Run("record not found is skipped by default", func(t *testing.T) {
		gl, recorded := newObservedGormLogger(gormlogger.Error)
		gl.Trace(context.Background(), time.Now(), traceQuery("SELECT * FROM return_units WHERE id = ?", 0), gormlogger.ErrRecordNotFound)
		assert.Empty(t, recorded.All())
	})

	t.Run("slow query logs warning", func(t *testing.T) {
		gl, recorded := newObservedGormLogger(gormlogger.Warn, WithSlowThreshold(time.Nanosecond))
		gl.Trace(context.Background(), time.Now().Add(-time.Second), traceQuery("SELECT * FROM return_units", 10), nil)

		entries := recorded.All()
		require.Len(t, entries, 1)
		assert.Equal(t, "SLOW SQL", entries[0].Message)
	})

	t.Run("normal query logs debug", func(t *testing.T) {
		gl, recorded := newObservedGormLogger(gormlogger.Info)
		gl.Trace(context.Background(), time.Now(), traceQuery("SELECT * FROM return_units", 5), nil)

		entries := recorded.All()
		require.Len(t, entries, 1)
		assert.Equal(t, "SQL Query", entries[0].Message)
		assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	})

	t.Run("silent logs nothing", func(t *testing.T) {
		gl, recorded := newObservedGormLogger(gormlogger.Silent)
		gl.Trace(context.Background(), time.Now(), traceQuery("SELECT 1", 1), nil)
		assert.Empty(t, recorded.All())
	})

	t.Run("request id from context is attached", func(t *testing.T) {
		gl, recorded := newObservedGormLogger(gormlogger.Info)
		ctx := context.WithValue(context.Background(), RequestIDKey, "req-42")

		gl.Trace(ctx, time.Now(), traceQuery("SELECT * FROM return_units", 5), nil)

		entries := recorded.All()
		require.Len(t, entries, 1)
		found := false
		for _, f := range entries[0].Context {
			if f.Key == "request_id" {
				found = true
				assert.Equal(t, "req-42", f.String)
			}
		}
		assert.True(t, found)
	})
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
		{"unknown", gormlogger.Warn},
		{"", gormlogger.Warn},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, MapGormLogLevel(tt.level), "level %q", tt.level)
	}
}
