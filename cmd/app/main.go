package main

import (
	"guesthouse/di"
	"guesthouse/helper"

	"github.com/rs/zerolog/log"
)

// @title Guest House Booking API
// @version 1.0
// @description Room booking requests, staff approvals and occupancy reports for the guest house.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.
func main() {
	cfg := helper.Bootstrap()

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Up(cfg); err != nil {
			log.Fatal().Err(err).Msg("Failed to run database migrations")
		}
	}

	http := di.InitializeService()
	http.Serve()
}
