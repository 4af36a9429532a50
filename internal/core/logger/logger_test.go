package logger

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"account-service/internal/core/config"
)

func TestToWriter(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := zap.New(core)

	w := ToWriter(l, zapcore.WarnLevel)
	n, err := w.Write([]byte("slow query\n"))
	require.NoError(t, err)
	assert.Equal(t, len("slow query\n"), n)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "slow query", entries[0].Message)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
}

func TestFromConfig_Rotate(t *testing.T) {
	file := filepath.Join(t.TempDir(), "app.log")
	l, cleanup := FromConfig(config.Log{
		Level:  "debug",
		JSON:   true,
		Rotate: config.Rotate{Enable: true, Filename: file, MaxSizeMB: 1},
	})
	defer cleanup()
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))
	l.Info("hello")
	assert.FileExists(t, file)
}

func TestNew_BadLevelFallsBackToInfo(t *testing.T) {
	l, cleanup := New("loud", false)
	defer cleanup()
	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
}
