package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"DEBUG", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"unknown", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
		{"  debug  ", zapcore.DebugLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.input))
		})
	}
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: "info", Output: &buf})

	l.Debug("hidden")
	assert.Zero(t, buf.Len())

	l.Info("shown", zap.String("model", "Ridge"))
	assert.Contains(t, buf.String(), `"msg":"shown"`)
	assert.Contains(t, buf.String(), `"model":"Ridge"`)
}

func TestLoggerSetLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: "error", Output: &buf})
	child := l.Named("ensemble")

	child.Warn("before")
	assert.Zero(t, buf.Len())

	l.SetLevel("debug")
	assert.Equal(t, zapcore.DebugLevel, l.Level())
	child.Debug("after")
	assert.Contains(t, buf.String(), "after")
	assert.Contains(t, buf.String(), `"logger":"ensemble"`)
}

func TestLoggerWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scorecast.log")
	l := New(Options{Level: "info", File: path})
	l.Info("to file")
	require.NoError(t, l.Close())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "to file")
}
