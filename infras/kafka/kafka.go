package kafka

//go:generate go run go.uber.org/mock/mockgen -source=./kafka.go -destination=./mocks/kafka_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"guesthouse/config"
	"time"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl"
	"github.com/segmentio/kafka-go/sasl/plain"
)

const (
	writeBatchTimeout = 10 * time.Millisecond

	// HeaderEventType carries the event name so consumers can route without decoding.
	HeaderEventType = "event_type"
)

// Encode builds a message with value serialized as JSON.
func Encode(key string, value any, headers map[string]string) (kafkaGo.Message, error) {
	payload, err := json.Marshal(value)
	if err != nil {
		return kafkaGo.Message{}, fmt.Errorf("encoding message %s: %w", key, err)
	}

	message := kafkaGo.Message{Key: []byte(key), Value: payload}
	for name, text := range headers {
		message.Headers = append(message.Headers, kafkaGo.Header{Key: name, Value: []byte(text)})
	}

	return message, nil
}

func Decode[T any](message kafkaGo.Message) (T, error) {
	var value T

	if err := json.Unmarshal(message.Value, &value); err != nil {
		return value, fmt.Errorf("decoding message from %s at offset %d: %w", message.Topic, message.Offset, err)
	}

	return value, nil
}

// Header returns the first header with the given name, or "".
func Header(message kafkaGo.Message, name string) string {
	for _, header := range message.Headers {
		if header.Key == name {
			return string(header.Value)
		}
	}

	return ""
}

// HandlerFunc processes one message. Its error is logged and the offset is
// committed anyway, so a bad message never blocks the partition.
type HandlerFunc func(ctx context.Context, message kafkaGo.Message) error

type Client interface {
	Publish(ctx context.Context, topic string, messages ...kafkaGo.Message) error
	Subscribe(ctx context.Context, consumerGroup, topic string, handle HandlerFunc)
}

type clientImpl struct {
	cfg    *config.Config
	dialer *kafkaGo.Dialer
	writer *kafkaGo.Writer
}

func mechanism(cfg *config.Config) sasl.Mechanism {
	if cfg.Kafka.SASL.Username == "" {
		return nil
	}

	return plain.Mechanism{
		Username: cfg.Kafka.SASL.Username,
		Password: cfg.Kafka.SASL.Password,
	}
}

func New(cfg *config.Config) Client {
	auth := mechanism(cfg)

	log.Info().Strs("brokers", cfg.Kafka.Brokers).Bool("enabled", cfg.Kafka.Enable).Msg("Kafka client initialized")

	return &clientImpl{
		cfg:    cfg,
		dialer: &kafkaGo.Dialer{DualStack: true, SASLMechanism: auth},
		// Hashing on the key keeps every event of one booking on one partition.
		writer: &kafkaGo.Writer{
			Addr:                   kafkaGo.TCP(cfg.Kafka.Brokers...),
			Transport:              &kafkaGo.Transport{SASL: auth},
			Balancer:               &kafkaGo.Hash{},
			AllowAutoTopicCreation: true,
			RequiredAcks:           kafkaGo.RequireOne,
			BatchTimeout:           writeBatchTimeout,
		},
	}
}

// Publish blocks until the broker acknowledges every message.
func (k *clientImpl) Publish(ctx context.Context, topic string, messages ...kafkaGo.Message) error {
	for i := range messages {
		messages[i].Topic = topic
	}

	if err := k.writer.WriteMessages(ctx, messages...); err != nil {
		log.Error().Err(err).Str("topic", topic).Msg("Failed to publish to Kafka.")

		return fmt.Errorf("publishing %d message(s) to %s: %w", len(messages), topic, err)
	}

	log.Debug().Str("topic", topic).Int("count", len(messages)).Msg("Published to Kafka.")

	return nil
}

// Subscribe blocks until ctx is done, handing messages to handle one at a time
// in partition order.
func (k *clientImpl) Subscribe(ctx context.Context, consumerGroup, topic string, handle HandlerFunc) {
	if consumerGroup == "" {
		consumerGroup = k.cfg.Kafka.ConsumerGroup
	}

	reader := kafkaGo.NewReader(kafkaGo.ReaderConfig{
		Brokers:     k.cfg.Kafka.Brokers,
		Topic:       topic,
		GroupID:     consumerGroup,
		Dialer:      k.dialer,
		StartOffset: kafkaGo.FirstOffset,
	})

	defer func() {
		if err := reader.Close(); err != nil {
			log.Error().Err(err).Str("topic", topic).Msg("Failed to close Kafka reader.")
		}
	}()

	for {
		message, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				log.Info().Str("topic", topic).Msg("Kafka subscription stopped.")

				return
			}

			log.Error().Err(err).Str("topic", topic).Msg("Failed to fetch from Kafka.")

			continue
		}

		if err := handle(ctx, message); err != nil {
			log.Warn().Err(err).Str("topic", topic).Int64("offset", message.Offset).Msg("Kafka message handler failed.")
		}

		if err := reader.CommitMessages(ctx, message); err != nil && ctx.Err() == nil {
			log.Error().Err(err).Str("topic", topic).Int64("offset", message.Offset).Msg("Failed to commit Kafka offset.")
		}
	}
}
