package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"docchat/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInitialize_WritesCategoriesToFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "logs", "docchat.log")
	t.Cleanup(CloseAll)

	_, err := Initialize(config.LoggingConfig{Level: "debug", File: logPath}, Options{})
	require.NoError(t, err)

	Get(CategoryAPI).Info("query sent", zap.String("question", "what is x"))
	Get(CategoryUpload).Debug("upload started")
	CloseAll()

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	content := string(data)

	assert.Contains(t, content, "api")
	assert.Contains(t, content, "query sent")
	assert.Contains(t, content, "upload started")
}

func TestInitialize_LevelFiltersDebug(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "docchat.log")
	t.Cleanup(CloseAll)

	_, err := Initialize(config.LoggingConfig{Level: "warn", File: logPath}, Options{})
	require.NoError(t, err)

	Get(CategoryUI).Info("hidden")
	Get(CategoryUI).Warn("shown")
	CloseAll()

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), "shown")
}

func TestInitialize_VerboseOverridesLevel(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "docchat.log")
	t.Cleanup(CloseAll)

	_, err := Initialize(config.LoggingConfig{Level: "error", File: logPath}, Options{Verbose: true})
	require.NoError(t, err)

	Get(CategoryBoot).Debug("debug visible")
	CloseAll()

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "debug visible")
}

func TestInitialize_JSONFormat(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "docchat.log")
	t.Cleanup(CloseAll)

	_, err := Initialize(config.LoggingConfig{Level: "info", Format: "json", File: logPath}, Options{})
	require.NoError(t, err)

	Get(CategoryWatch).Info("watching")
	CloseAll()

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	line := strings.TrimSpace(string(data))
	assert.True(t, strings.HasPrefix(line, "{"), "expected JSON line, got %q", line)
	assert.Contains(t, line, `"logger":"watch"`)
}

func TestBuild_InvalidLevel(t *testing.T) {
	_, _, err := Build(config.LoggingConfig{Level: "loud"}, Options{})
	assert.Error(t, err)
}

func TestBuild_NoSinksIsNop(t *testing.T) {
	l, closeFn, err := Build(config.LoggingConfig{Level: "info"}, Options{})
	require.NoError(t, err)
	defer closeFn()
	assert.False(t, l.Core().Enabled(zapcore.ErrorLevel))
}

func TestGet_DefaultsToNop(t *testing.T) {
	CloseAll()
	l := Get(CategoryAPI)
	require.NotNil(t, l)
	l.Error("dropped")
}

func TestSetLogger_NamesCategories(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(nil) })

	Get(CategoryUpload).Error("upload failed")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "upload", entries[0].LoggerName)
	assert.Equal(t, "upload failed", entries[0].Message)
}
