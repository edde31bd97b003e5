package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SHETTYKSIDDHARTH/summarizer-backend/internal/config"
)

func TestNewWithOutputJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithOutput(config.LogConfig{Level: "debug", Format: "json"}, &buf)

	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())

	logger.WithField("session_id", "1700000000000").Debug("Session created")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Session created", entry["msg"])
	assert.Equal(t, "1700000000000", entry["session_id"])
}

func TestNewWithOutputUnknownLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithOutput(config.LogConfig{Level: "chatty", Format: "text"}, &buf)

	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
	assert.Contains(t, buf.String(), "Unknown log level")
}

func TestNewWithOutputDefaults(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithOutput(config.LogConfig{}, &buf)

	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
	assert.Empty(t, buf.String())
}
