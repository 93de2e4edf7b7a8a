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
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newObservedGormLogger(level gormlogger.LogLevel) (*GormLogger, *observer.ObservedLogs) {
	core, recorded := observer.New(zapcore.DebugLevel)
	return NewGormLogger(zap.New(core), level), recorded
}

func TestGormLogger_LogMode(t *testing.T) {
	gormLog, _ := newObservedGormLogger(gormlogger.Info)
	newLogger := gormLog.LogMode(gormlogger.Warn)

	// original is unchanged
	assert.Equal(t, gormlogger.Info, gormLog.logLevel)

	newGormLog, ok := newLogger.(*GormLogger)
	require.True(t, ok)
	assert.Equal(t, gormlogger.Warn, newGormLog.logLevel)
}

func TestGormLogger_InfoSuppressedBelowLevel(t *testing.T) {
	gormLog, recorded := newObservedGormLogger(gormlogger.Warn)

	gormLog.Info(context.Background(), "details %s", "x")
	assert.Equal(t, 0, recorded.Len())

	gormLog.Warn(context.Background(), "warning %s", "y")
	assert.Equal(t, 1, recorded.Len())
}

func TestGormLogger_Trace(t *testing.T) {
	queryFunc := func() (string, int64) {
		return "SELECT * FROM products", 3
	}

	t.Run("silent level logs nothing", func(t *testing.T) {
		gormLog, recorded := newObservedGormLogger(gormlogger.Silent)
		gormLog.Trace(context.Background(), time.Now(), queryFunc, nil)
		assert.Equal(t, 0, recorded.Len())
	})

	t.Run("error is logged with the statement", func(t *testing.T) {
		gormLog, recorded := newObservedGormLogger(gormlogger.Error)
		gormLog.Trace(context.Background(), time.Now(), queryFunc, assert.AnError)

		entries := recorded.All()
		require.Len(t, entries, 1)
		assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
		assert.Equal(t, "SQL Error", entries[0].Message)
	})

	t.Run("record not found is ignored", func(t *testing.T) {
		gormLog, recorded := newObservedGormLogger(gormlogger.Error)
		gormLog.Trace(context.Background(), time.Now(), queryFunc, gorm.ErrRecordNotFound)
		assert.Equal(t, 0, recorded.Len())
	})

	t.Run("slow query is warned", func(t *testing.T) {
		gormLog, recorded := newObservedGormLogger(gormlogger.Warn)
		gormLog.Trace(context.Background(), time.Now().Add(-time.Second), queryFunc, nil)

		entries := recorded.All()
		require.Len(t, entries, 1)
		assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	})

	t.Run("normal query logs at debug under info level", func(t *testing.T) {
		gormLog, recorded := newObservedGormLogger(gormlogger.Info)
		gormLog.Trace(context.Background(), time.Now(), queryFunc, nil)

		entries := recorded.All()
		require.Len(t, entries, 1)
		assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	})

	t.Run("request ID from the context is attached", func(t *testing.T) {
		gormLog, recorded := newObservedGormLogger(gormlogger.Info)
		ctx := WithRequestID(context.Background(), "req-42")
		gormLog.Trace(ctx, time.Now(), queryFunc, nil)

		entries := recorded.All()
		require.Len(t, entries, 1)
		assert.Equal(t, "req-42", entries[0].ContextMap()["request_id"])
	})
}

func TestMapGormLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected gormlogger.LogLevel
	}{
		{"debug", gormlogger.Info},
		{"info", gormlogger.Warn},
		{"warn", gormlogger.Warn},
		{"error", gormlogger.Error},
		{"", gormlogger.Warn},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, MapGormLogLevel(tt.input), "level %q", tt.input)
	}
}

func TestGormLoggerImplementsInterface(t *testing.T) {
	var _ gormlogger.Interface = (*GormLogger)(nil)
}
