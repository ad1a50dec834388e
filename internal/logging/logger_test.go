package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"clonectl/internal/config"
)

func TestNew_LevelFromConfig(t *testing.T) {
	logger, err := New(config.LoggingConfig{Level: "error"}, false)
	require.NoError(t, err)
	defer func() { _ = logger.Sync() }()

	assert.False(t, logger.Core().Enabled(zapcore.WarnLevel))
	assert.True(t, logger.Core().Enabled(zapcore.ErrorLevel))
}

func TestNew_VerboseForcesDebug(t *testing.T) {
	logger, err := New(config.LoggingConfig{Level: "error"}, true)
	require.NoError(t, err)
	defer func() { _ = logger.Sync() }()

	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestGet_NamesCategory(t *testing.T) {
	var buf bytes.Buffer
	parent := NewWriter(&buf, zapcore.DebugLevel)

	Get(parent, CategoryTransport).Debug("request sent")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "transport", entry["logger"])
	assert.Equal(t, "request sent", entry["msg"])
}

func TestGet_NilParentIsNop(t *testing.T) {
	l := Get(nil, CategoryCLI)
	require.NotNil(t, l)
	l.Info("discarded")
	assert.False(t, l.Core().Enabled(zapcore.ErrorLevel))
}
