package helper

import (
	"guesthouse/config"
	"guesthouse/shared/logger"
	"guesthouse/shared/timezone"

	"github.com/rs/zerolog/log"
)

// Bootstrap loads configuration and applies the process-wide settings every
// entrypoint shares: log output and the application timezone.
func Bootstrap() *config.Config {
	logger.InitLogger()

	cfg := config.Get()

	logger.Configure(cfg)

	if err := timezone.Set(cfg.App.Timezone); err != nil {
		log.Error().Err(err).Msg("Falling back to UTC, use an IANA name such as Asia/Kolkata")
	}

	log.Info().Str("timezone", timezone.Location().String()).Msg("Application timezone initialized")

	return cfg
}
