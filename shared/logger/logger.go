package logger

import (
	"guesthouse/config"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultLevel applies when the configured level is missing or unknown.
const DefaultLevel = zerolog.InfoLevel

// InitLogger installs a console logger so startup messages are readable
// before configuration is loaded.
func InitLogger() {
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
}

// Configure applies the configured level and, outside development, switches
// to JSON lines on stdout tagged with the service name.
func Configure(cfg *config.Config) {
	ConfigureOutput(cfg, os.Stdout)
}

func ConfigureOutput(cfg *config.Config, out io.Writer) {
	if cfg.IsDevelopment() {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
	} else {
		log.Logger = zerolog.New(out).With().Timestamp().Str("service", cfg.App.Name).Logger()
	}

	level := ParseLevel(cfg.Server.LogLevel)
	zerolog.SetGlobalLevel(level)

	log.Debug().Str("loglevel", level.String()).Msg("Log level configured")
}

// ParseLevel maps a configured name to a level, falling back to DefaultLevel.
func ParseLevel(name string) zerolog.Level {
	level, err := zerolog.ParseLevel(name)
	if err != nil || name == "" {
		return DefaultLevel
	}

	return level
}

func ErrorWithStack(err error) {
	log.Error().Msgf("%+v", errors.WithStack(err))
}
