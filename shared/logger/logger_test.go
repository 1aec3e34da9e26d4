package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"guesthouse/config"
	"guesthouse/shared/logger"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func restore(t *testing.T) {
	t.Helper()

	original := log.Logger
	level := zerolog.GlobalLevel()

	t.Cleanup(func() {
		log.Logger = original
		zerolog.SetGlobalLevel(level)
	})
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want zerolog.Level
	}{
		{name: "debug", in: "debug", want: zerolog.DebugLevel},
		{name: "warn", in: "warn", want: zerolog.WarnLevel},
		{name: "disabled", in: "disabled", want: zerolog.Disabled},
		{name: "empty", in: "", want: logger.DefaultLevel},
		{name: "unknown", in: "verbose", want: logger.DefaultLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, logger.ParseLevel(tt.in))
		})
	}
}

func TestConfigureOutput_Production(t *testing.T) {
	restore(t)

	cfg := &config.Config{}
	cfg.Server.Env = "production"
	cfg.Server.LogLevel = "warn"
	cfg.App.Name = "guesthouse"

	var buf bytes.Buffer
	logger.ConfigureOutput(cfg, &buf)

	log.Info().Msg("dropped")
	log.Warn().Str("temp_id", "temp-1").Msg("notification failed")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))

	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())
	assert.Equal(t, "guesthouse", line["service"])
	assert.Equal(t, "temp-1", line["temp_id"])
	assert.Equal(t, "notification failed", line["message"])
}

func TestConfigureOutput_Development(t *testing.T) {
	restore(t)

	cfg := &config.Config{}
	cfg.Server.Env = config.EnvDevelopment
	cfg.Server.LogLevel = "debug"

	var buf bytes.Buffer
	logger.ConfigureOutput(cfg, &buf)

	log.Debug().Msg("room availability computed")

	assert.Contains(t, buf.String(), "room availability computed")
	assert.False(t, json.Valid(bytes.TrimSpace(buf.Bytes())))
}

func TestErrorWithStack(t *testing.T) {
	restore(t)

	var buf bytes.Buffer
	log.Logger = zerolog.New(&buf)
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	logger.ErrorWithStack(errors.New("pq: connection refused"))

	assert.Contains(t, buf.String(), "pq: connection refused")
	assert.Contains(t, buf.String(), `"level":"error"`)
}
