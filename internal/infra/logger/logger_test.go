package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductionLoggerWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	l := newWithWriter("production", &buf)

	l.Debug().Msg("hidden")
	l.Info().Str("event_id", "evt_1").Msg("webhook received")

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "webhook received", line["message"])
	assert.Equal(t, "evt_1", line["event_id"])
	assert.Equal(t, "subscription-app", line["service"])
	assert.Equal(t, zerolog.InfoLevel, l.GetLevel())
}

func TestDevelopmentLoggerIsVerbose(t *testing.T) {
	var buf bytes.Buffer
	l := newWithWriter("development", &buf)

	l.Debug().Msg("visible")

	assert.Equal(t, zerolog.DebugLevel, l.GetLevel())
	assert.Contains(t, buf.String(), "visible")
}
