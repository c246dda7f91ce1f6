package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/investo/pkg/config"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"DEBUG", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"trace", zerolog.TraceLevel},
		{"nonsense", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLogLevel(tt.input))
		})
	}
}

func TestNewWithWriter_ServiceFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "debug", "development")

	log.Info("started")

	entry := decode(t, &buf)
	assert.Equal(t, "started", entry["message"])
	assert.Equal(t, ServiceName, entry["service"])
	assert.Equal(t, "development", entry["env"])
	assert.Equal(t, "info", entry["level"])
}

func TestNewTo(t *testing.T) {
	var jsonBuf bytes.Buffer
	NewTo(&config.Config{LogLevel: "info", LogFormat: "json", Env: "production"}, &jsonBuf).Info("json line")
	assert.Equal(t, "production", decode(t, &jsonBuf)["env"])

	var consoleBuf bytes.Buffer
	NewTo(&config.Config{LogLevel: "info", LogFormat: "console", Env: "development"}, &consoleBuf).Info("console line")
	assert.Contains(t, consoleBuf.String(), "console line")
	assert.False(t, json.Valid(consoleBuf.Bytes()))
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "warn", "development")

	log.Debug("hidden")
	log.Info("hidden")
	assert.Empty(t, buf.String())

	log.Warnf("retry attempt: %d", 3)
	entry := decode(t, &buf)
	assert.Equal(t, "retry attempt: 3", entry["message"])
	assert.Equal(t, "warn", entry["level"])
}

func TestWithFieldsAndError(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "debug", "development")

	log.Component("collector").
		WithFields(map[string]interface{}{"symbol": "AAPL", "source": "finnhub"}).
		WithError(errors.New("upstream timeout")).
		Error("fetch failed")

	entry := decode(t, &buf)
	assert.Equal(t, "collector", entry["component"])
	assert.Equal(t, "AAPL", entry["symbol"])
	assert.Equal(t, "finnhub", entry["source"])
	assert.Equal(t, "upstream timeout", entry["error"])
	assert.Equal(t, "error", entry["level"])
}

func TestNewNop(t *testing.T) {
	log := NewNop()
	assert.NotPanics(t, func() {
		log.WithField("k", "v").Errorf("ignored %d", 1)
	})
}
