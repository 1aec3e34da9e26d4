// Package events carries booking lifecycle events from the state machine to
// the notifier after the state change has been committed.
package events

//go:generate go run go.uber.org/mock/mockgen -source=./events.go -destination=./mocks/events_mock.go -package=mocks

import (
	"context"
	"guesthouse/config"
	"guesthouse/internal/domains/booking/model"
	"time"
)

const (
	TypeBookingApproved = "booking.approved"
	TypeBookingDeclined = "booking.declined"
)

type Event struct {
	Type       string        `json:"type"`
	OccurredAt time.Time     `json:"occurred_at"`
	Booking    model.Booking `json:"booking"`
}

func New(eventType string, booking model.Booking, now time.Time) Event {
	return Event{
		Type:       eventType,
		OccurredAt: now,
		Booking:    booking,
	}
}

// Publisher hands an event off. A nil error means the event will be delivered
// eventually; it says nothing about the notification outcome.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

type Handler interface {
	Handle(ctx context.Context, event Event) error
}

// Topic resolves the broker topic for an event type.
func Topic(cfg *config.Config, eventType string) string {
	switch eventType {
	case TypeBookingApproved:
		if cfg.Kafka.Topics.BookingApproved != "" {
			return cfg.Kafka.Topics.BookingApproved
		}
	case TypeBookingDeclined:
		if cfg.Kafka.Topics.BookingDeclined != "" {
			return cfg.Kafka.Topics.BookingDeclined
		}
	}

	return eventType
}

// NewPublisher picks the broker publisher when Kafka is enabled, the in-process one otherwise.
func NewPublisher(cfg *config.Config, kafkaPublisher *KafkaPublisher, localPublisher *LocalPublisher) Publisher {
	if cfg.Kafka.Enable {
		return kafkaPublisher
	}

	return localPublisher
}
