package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_LevelAndFormat(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("LOG_FORMAT", "")

	l := New(Options{Level: "debug", Format: "json"})
	assert.Equal(t, logrus.DebugLevel, l.entry.Logger.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, l.entry.Logger.Formatter)

	l = New(Options{Level: "nonsense"})
	assert.Equal(t, logrus.InfoLevel, l.entry.Logger.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, l.entry.Logger.Formatter)
}

func TestNew_EnvironmentFallback(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("LOG_FORMAT", "JSON")

	l := New(Options{})
	assert.Equal(t, logrus.WarnLevel, l.entry.Logger.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, l.entry.Logger.Formatter)
}

func TestEvent_CarriesFields(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Format: "json"})
	l.entry.Logger.SetOutput(&buf)

	l.WithFields(map[string]interface{}{"tick": 7}).Event("SALE", "market", "sold 40 units")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "SALE", line["event"])
	assert.Equal(t, "market", line["actor"])
	assert.Equal(t, "sold 40 units", line["msg"])
	assert.EqualValues(t, 7, line["tick"])
}
