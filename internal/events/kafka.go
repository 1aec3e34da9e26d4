package events

import (
	"context"
	"fmt"
	"guesthouse/config"
	"guesthouse/infras/kafka"
	"guesthouse/infras/otel"
	"guesthouse/shared/constant"
	"sync"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
)

type KafkaPublisher struct {
	client kafka.Client
	cfg    *config.Config
	otel   otel.Otel
}

func NewKafkaPublisher(client kafka.Client, cfg *config.Config, otel otel.Otel) *KafkaPublisher {
	return &KafkaPublisher{
		client: client,
		cfg:    cfg,
		otel:   otel,
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event Event) (err error) {
	ctx, scope := p.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".kafka.Publish")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	topic := Topic(p.cfg, event.Type)
	scope.SetAttribute("topic", topic)

	message, err := kafka.Encode(event.Booking.TempID, event, map[string]string{kafka.HeaderEventType: event.Type})
	if err != nil {
		return err
	}

	if err = p.client.Publish(ctx, topic, message); err != nil {
		return fmt.Errorf("failed to publish %s for booking %s: %w", event.Type, event.Booking.TempID, err)
	}

	return nil
}

// Consumer reads every lifecycle topic and dispatches the events to a handler.
type Consumer struct {
	client  kafka.Client
	handler Handler
	cfg     *config.Config
}

func NewConsumer(client kafka.Client, handler Handler, cfg *config.Config) *Consumer {
	return &Consumer{
		client:  client,
		handler: handler,
		cfg:     cfg,
	}
}

// Run blocks until ctx is cancelled.
func (c *Consumer) Run(ctx context.Context) {
	var wg sync.WaitGroup

	for _, eventType := range []string{TypeBookingApproved, TypeBookingDeclined} {
		topic := Topic(c.cfg, eventType)

		wg.Add(1)

		go func() {
			defer wg.Done()

			c.client.Subscribe(ctx, c.cfg.Kafka.ConsumerGroup, topic, c.Dispatch)
		}()
	}

	wg.Wait()
}

// Dispatch decodes a broker message and hands it to the handler.
func (c *Consumer) Dispatch(ctx context.Context, message kafkaGo.Message) error {
	event, err := kafka.Decode[Event](message)
	if err != nil {
		log.Error().Err(err).Str("type", kafka.Header(message, kafka.HeaderEventType)).Msg("failed to decode booking event")

		return err
	}

	if err := c.handler.Handle(ctx, event); err != nil {
		log.Error().Err(err).Str("type", event.Type).Str("temp_id", event.Booking.TempID).Msg("failed to handle booking event")

		return fmt.Errorf("handling %s for booking %s: %w", event.Type, event.Booking.TempID, err)
	}

	return nil
}
