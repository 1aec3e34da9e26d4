package main

import (
	"context"
	"guesthouse/di"
	"guesthouse/helper"
	"guesthouse/infras/otel"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg := helper.Bootstrap()

	if !cfg.Kafka.Enable {
		log.Fatal().Msg("Kafka is disabled; notifications are delivered in process by the API server")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	consumer := di.InitializeNotifier()

	log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("group", cfg.Kafka.ConsumerGroup).Msg("Starting booking notifier.")

	consumer.Run(ctx)

	otel.Shutdown(context.Background())

	log.Info().Msg("Booking notifier stopped.")
}
