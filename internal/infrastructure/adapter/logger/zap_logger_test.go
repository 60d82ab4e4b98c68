package logger

import (
	"errors"
	"testing"

	"github.com/amirhossein-jamali/class-booking/internal/domain/port/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLogger(t *testing.T) {
	t.Run("Writes structured fields", func(t *testing.T) {
		obsCore, logs := observer.New(zap.DebugLevel)
		log := NewFromCore(obsCore, core.LogLevelDebug)

		log.Info("Enrollment completed", map[string]any{
			"user_id":  uint64(7),
			"class_id": uint64(3),
		})

		require.Equal(t, 1, logs.Len())
		entry := logs.All()[0]
		assert.Equal(t, "Enrollment completed", entry.Message)
		assert.Equal(t, uint64(7), entry.ContextMap()["user_id"])
		assert.Equal(t, uint64(3), entry.ContextMap()["class_id"])
	})

	t.Run("Respects level changes", func(t *testing.T) {
		obsCore, logs := observer.New(zap.DebugLevel)
		log := NewFromCore(obsCore, core.LogLevelWarn)

		log.Debug("hidden", nil)
		log.Info("hidden", nil)
		log.Warn("shown", nil)
		assert.Equal(t, 1, logs.Len())
		assert.Equal(t, core.LogLevelWarn, log.GetLevel())

		log.SetLevel(core.LogLevelDebug)
		log.Debug("now shown", nil)
		assert.Equal(t, 2, logs.Len())
		assert.Equal(t, core.LogLevelDebug, log.GetLevel())
	})

	t.Run("Child logger carries bound fields", func(t *testing.T) {
		obsCore, logs := observer.New(zap.DebugLevel)
		log := NewFromCore(obsCore, core.LogLevelInfo)
		child := log.With(map[string]any{"component": "session"})

		child.Info("Session created", map[string]any{"ttl": "24h"})
		child.Debug("hidden", nil)

		require.Equal(t, 1, logs.Len())
		assert.Equal(t, "session", logs.All()[0].ContextMap()["component"])
		assert.Equal(t, "24h", logs.All()[0].ContextMap()["ttl"])

		log.SetLevel(core.LogLevelDebug)
		child.Debug("shown", nil)
		assert.Equal(t, 2, logs.Len())
	})

	t.Run("Encodes errors as named errors", func(t *testing.T) {
		obsCore, logs := observer.New(zap.DebugLevel)
		log := NewFromCore(obsCore, core.LogLevelDebug)

		log.Error("Store failure", map[string]any{"error": errors.New("connection reset")})

		require.Equal(t, 1, logs.Len())
		assert.Equal(t, "connection reset", logs.All()[0].ContextMap()["error"])
	})
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, core.LogLevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, core.LogLevelWarn, ParseLevel("warning"))
	assert.Equal(t, core.LogLevelError, ParseLevel(" error "))
	assert.Equal(t, core.LogLevelInfo, ParseLevel("verbose"))
}

func TestNewZapLogger(t *testing.T) {
	log, err := NewZapLogger(Options{Level: "warn", Format: "json", ServiceName: "class-booking"})
	require.NoError(t, err)
	assert.Equal(t, core.LogLevelWarn, log.GetLevel())
}
