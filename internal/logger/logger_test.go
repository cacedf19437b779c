package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		" DEBUG ": zerolog.DebugLevel,
		"info":    zerolog.InfoLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"off":     zerolog.Disabled,
		"bogus":   zerolog.InfoLevel,
		"":        zerolog.InfoLevel,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLevel(in), "level %q", in)
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: "debug", Format: "json", Component: "pipeline", Writer: &buf})

	l.Debug().Str("epoch", "1.5").Int("points", 12).Msg("rescaled")

	var ev map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &ev))
	assert.Equal(t, "debug", ev["level"])
	assert.Equal(t, "pipeline", ev["component"])
	assert.Equal(t, "1.5", ev["epoch"])
	assert.Equal(t, float64(12), ev["points"])
	assert.Equal(t, "rescaled", ev["message"])
}

func TestNewRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: "warn", Format: "json", Writer: &buf})

	l.Info().Msg("hidden")
	assert.Empty(t, buf.String())

	l.Warn().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestNewConsole(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: "info", Format: "console", Writer: &buf})

	l.Info().Str("file", "sn.txt").Msg("loaded")
	out := buf.String()
	assert.Contains(t, out, "loaded")
	assert.Contains(t, out, "file=sn.txt")
}

func TestNamedAndNop(t *testing.T) {
	require.NotNil(t, Get())
	require.NotNil(t, Named("loader"))
	assert.Same(t, Get(), Named(""))

	Nop().Error().Msg("discarded")
}

func TestInitReplacesRoot(t *testing.T) {
	var first, second bytes.Buffer
	Init(Options{Level: "info", Format: "json", Writer: &first})
	Init(Options{Level: "info", Format: "json", Writer: &second})

	Named("pipeline").Info().Msg("loaded")

	assert.Empty(t, first.String())
	var ev map[string]any
	require.NoError(t, json.Unmarshal(second.Bytes(), &ev))
	assert.Equal(t, "pipeline", ev["component"])
	assert.Equal(t, "loaded", ev["message"])
}
