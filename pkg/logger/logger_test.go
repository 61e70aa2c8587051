package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, DebugLevel, ParseLevel("debug"))
	assert.Equal(t, WarnLevel, ParseLevel(" WARN "))
	assert.Equal(t, InfoLevel, ParseLevel(""))
	assert.Equal(t, InfoLevel, ParseLevel("verbose"))
}

func TestNew_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	log := New(&Config{Level: InfoLevel, Env: "production", Output: &buf})

	log.Debug().Msg("hidden")
	log.Info().Str("provider", "SES").Msg("started")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"provider":"SES"`)
	assert.Contains(t, out, `"message":"started"`)
}

func TestNew_ConsoleOutput(t *testing.T) {
	var buf bytes.Buffer
	log := New(&Config{Level: InfoLevel, Env: "development", Output: &buf})

	log.Info().Msg("started")

	assert.Contains(t, buf.String(), "started")
	assert.NotContains(t, buf.String(), `"message"`)
}

func TestIsDevelopment(t *testing.T) {
	assert.True(t, IsDevelopment("development"))
	assert.True(t, IsDevelopment("Local"))
	assert.False(t, IsDevelopment("production"))
	assert.False(t, IsDevelopment(""))
}
