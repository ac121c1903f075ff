package logging

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]log.Level{
		"debug": log.DebugLevel,
		"DEBUG": log.DebugLevel,
		"warn":  log.WarnLevel,
		"error": log.ErrorLevel,
		"info":  log.InfoLevel,
		"":      log.InfoLevel,
		"loud":  log.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestNewLoggerWithWriter(t *testing.T) {
	t.Setenv(EnvLevel, "warn")
	t.Setenv(EnvPrefix, "")

	var buf bytes.Buffer
	lg := NewLoggerWithWriter(&buf)
	defer lg.Close()

	lg.Info("hidden")
	lg.Warn("Target skipped", "offset", "000040")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "rommap")
	assert.Contains(t, out, "Target skipped")
	assert.Contains(t, out, "offset=000040")
}

func TestIsDebug(t *testing.T) {
	t.Setenv(EnvLevel, "debug")
	assert.True(t, IsDebug())
	t.Setenv(EnvLevel, "info")
	assert.False(t, IsDebug())
}
