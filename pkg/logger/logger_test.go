package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel(" WARN "))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestComponentTagsRecords(t *testing.T) {
	var buf bytes.Buffer
	log := newJSON(&buf, slog.LevelInfo).Component("http")

	log.Info("request served", "status", 200)

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "http", record["component"])
	assert.Equal(t, "request served", record["msg"])
}

func TestLevelFiltersBelowThreshold(t *testing.T) {
	var buf bytes.Buffer
	log := newJSON(&buf, slog.LevelInfo)

	log.Debug("noisy")
	assert.Zero(t, buf.Len())
}
