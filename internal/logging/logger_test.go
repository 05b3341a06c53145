package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := newLogger("debug", "json", &buf)
	require.NoError(t, err)

	log.Debug("plan processed", zap.Int("items", 5))
	require.NoError(t, log.Sync())

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "plan processed", line["msg"])
	assert.Equal(t, float64(5), line["items"])
	assert.Equal(t, "debug", line["level"])
}

func TestNewLoggerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log, err := newLogger("WARN", "console", &buf)
	require.NoError(t, err)

	log.Info("hidden")
	log.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestNewLoggerRejectsBadInput(t *testing.T) {
	_, err := New("loud", "json")
	assert.Error(t, err)
	_, err = New("info", "xml")
	assert.Error(t, err)
}
