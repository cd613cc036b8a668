package logger

import (
	"os"
	"path/filepath"
	"testing"

	"skinsight/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew_FileOutput(t *testing.T) {
	dir := t.TempDir()
	l, err := New(config.LogConfig{Level: "debug", Format: "json", Directory: dir, MaxSize: 1})
	require.NoError(t, err)

	l.Info("report generated")
	_ = l.Sync()

	data, err := os.ReadFile(filepath.Join(dir, "skinsight.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "report generated")
}

func TestNew_InvalidLevelFallsBackToInfo(t *testing.T) {
	l, err := New(config.LogConfig{Level: "verbose"})
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
}

func TestGet_DefaultsWhenUninitialised(t *testing.T) {
	log = nil
	assert.NotNil(t, Get())
}
