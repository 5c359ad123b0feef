package logger

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestGetLogLevel(t *testing.T) {
	tests := []struct {
		name        string
		level       string
		environment string
		want        zerolog.Level
	}{
		{"explicit level", "warn", "", zerolog.WarnLevel},
		{"invalid level", "loud", "", zerolog.InfoLevel},
		{"production default", "", "production", zerolog.InfoLevel},
		{"development default", "", "development", zerolog.DebugLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("LOG_LEVEL", tt.level)
			t.Setenv("FYNDCHANS_ENVIRONMENT", tt.environment)
			assert.Equal(t, tt.want, getLogLevel())
		})
	}
}

func TestWithField(t *testing.T) {
	var buf bytes.Buffer
	l := New(zerolog.New(&buf)).WithField("component", "store")

	l.Info().Msg("Snapshot written")

	assert.JSONEq(t, `{"level":"info","component":"store","message":"Snapshot written"}`, buf.String())
}
