package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		"INFO":    zerolog.InfoLevel,
		"warn":    zerolog.WarnLevel,
		"warning": zerolog.WarnLevel,
		" error ": zerolog.ErrorLevel,
		"off":     zerolog.Disabled,
		"":        zerolog.InfoLevel,
		"verbose": zerolog.InfoLevel,
	}

	for in, want := range tests {
		assert.Equal(t, want, parseLogLevel(in), "level %q", in)
	}
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	zl := New(&buf, "info", FormatJSON)

	zl.Debug().Msg("hidden")
	zl.Info().Str("scope", "abc").Msg("Login succeeded")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "Login succeeded", entry["message"])
	assert.Equal(t, "abc", entry["scope"])
	assert.Equal(t, "portald", entry["service"])
}

func TestNew_ConsoleWithoutColor(t *testing.T) {
	var buf bytes.Buffer
	zl := New(&buf, "warn", FormatConsole)

	zl.Info().Msg("hidden")
	zl.Warn().Msg("No session token")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "No session token")
	assert.NotContains(t, out, "\x1b[")
}

func TestInitWithWriter_SetsGlobal(t *testing.T) {
	prev := Logger
	t.Cleanup(func() { Logger = prev })

	var buf bytes.Buffer
	InitWithWriter(&buf, "debug", FormatJSON)

	l := GetLogger()
	l.Debug().Msg("ready")
	assert.Contains(t, buf.String(), `"message":"ready"`)
}
